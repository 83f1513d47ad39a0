package storage

import (
	"context"

	"freelance-ledger/internal/models"
)

// CreateUser inserts a user and sets its ID.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	result, err := db.conn.ExecContext(ctx,
		"INSERT INTO users (external_id, email, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		u.ExternalID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	u.ID, err = result.LastInsertId()
	return err
}

// UpdateUser writes the email, name and update time of a user.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?",
		u.Email, u.Name, u.UpdatedAt, u.ID,
	)
	return err
}

// UserByExternalID retrieves a user by identity subject.
func (db *DB) UserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, external_id, email, name, created_at, updated_at FROM users WHERE external_id = ?",
		externalID,
	)
	var u models.User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return noRows(&u, err)
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
