package models

import "time"

// Identity is the caller as asserted by the identity provider.
// A zero Subject means the caller is not signed in.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Authenticated reports whether the identity carries a subject.
func (id Identity) Authenticated() bool {
	return id.Subject != ""
}

// User represents a user account keyed by the provider's subject.
type User struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Receipt is an uploaded receipt file held in the blob store.
type Receipt struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	StorageID  string    `json:"storage_id"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	ExpenseID  *int64    `json:"expense_id,omitempty"`
}

// Upload is a write target for a new receipt file.
type Upload struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"upload_url"`
}
