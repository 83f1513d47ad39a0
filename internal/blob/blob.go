// Package blob stores receipt files on the local filesystem. Files are
// addressed by a generated storage id; the HTTP layer serves the upload and
// download URLs it hands out.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"freelance-ledger/internal/models"
)

// ErrInvalidID is returned for storage ids that are not ones we issued.
var ErrInvalidID = errors.New("invalid storage id")

// ErrNotFound is returned when no file exists for a storage id.
var ErrNotFound = errors.New("blob not found")

// ErrExists is returned when a storage id has already been written.
var ErrExists = errors.New("blob already exists")

// Store keeps blobs in a directory.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates dir if needed. baseURL is the public prefix the files are
// served under, for example "/files".
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// UploadURL reserves a new storage id. The returned URL accepts a PUT of the
// file body.
func (s *Store) UploadURL(_ context.Context) (models.Upload, error) {
	id := uuid.NewString()
	return models.Upload{StorageID: id, URL: s.baseURL + "/" + id}, nil
}

// URL returns where a stored file can be fetched. It fails for unknown ids.
func (s *Store) URL(_ context.Context, storageID string) (string, error) {
	path, err := s.path(storageID)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.baseURL + "/" + storageID, nil
}

// Put writes r under storageID and returns the number of bytes written.
// Each id can be written once; later writes fail with ErrExists.
func (s *Store) Put(_ context.Context, storageID string, r io.Reader) (int64, error) {
	path, err := s.path(storageID)
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("%w: %s", ErrExists, storageID)
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	// Link fails if the target appeared meanwhile, unlike Rename.
	if err := os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("%w: %s", ErrExists, storageID)
		}
		return 0, err
	}
	return n, nil
}

// Open returns the stored file. The caller closes it.
func (s *Store) Open(_ context.Context, storageID string) (*os.File, error) {
	path, err := s.path(storageID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// path maps an id to a file, accepting only well-formed uuids so ids can
// never escape the directory.
func (s *Store) path(storageID string) (string, error) {
	if _, err := uuid.Parse(storageID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, storageID)
	}
	return filepath.Join(s.dir, storageID), nil
}
