package ledger

import (
	"context"

	"freelance-ledger/internal/models"
)

// ReceiptInput describes a file already written to the blob store.
type ReceiptInput struct {
	StorageID string `json:"storage_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}

// GenerateUploadURL reserves a storage id and returns where to write it.
func (s *Service) GenerateUploadURL(ctx context.Context, who models.Identity) (models.Upload, error) {
	const op = "upload"
	if !who.Authenticated() {
		return models.Upload{}, opErr(op, entityReceipt, 0, ErrUnauthenticated)
	}
	if s.blobs == nil {
		return models.Upload{}, opErr(op, entityReceipt, 0, ErrNoBlobStore)
	}
	up, err := s.blobs.UploadURL(ctx)
	if err != nil {
		return models.Upload{}, opErr(op, entityReceipt, 0, err)
	}
	return up, nil
}

// SaveReceipt records metadata for an uploaded file and returns its id.
func (s *Service) SaveReceipt(ctx context.Context, who models.Identity, in ReceiptInput) (int64, error) {
	const op = "create"
	user, err := s.requireUser(ctx, who, op, entityReceipt)
	if err != nil {
		return 0, err
	}
	r := &models.Receipt{
		UserID:     user.ID,
		StorageID:  in.StorageID,
		FileName:   in.FileName,
		MimeType:   in.MimeType,
		Size:       in.Size,
		UploadedAt: s.now().UTC(),
	}
	if err := s.store.InsertReceipt(ctx, r); err != nil {
		return 0, opErr(op, entityReceipt, 0, err)
	}
	s.logMutation(op, entityReceipt, user.ID, r.ID)
	return r.ID, nil
}

// ReceiptURL resolves a storage id to a retrievable URL.
func (s *Service) ReceiptURL(ctx context.Context, who models.Identity, storageID string) (string, error) {
	const op = "resolve"
	if !who.Authenticated() {
		return "", opErr(op, entityReceipt, 0, ErrUnauthenticated)
	}
	if s.blobs == nil {
		return "", opErr(op, entityReceipt, 0, ErrNoBlobStore)
	}
	url, err := s.blobs.URL(ctx, storageID)
	if err != nil {
		return "", opErr(op, entityReceipt, 0, err)
	}
	return url, nil
}
