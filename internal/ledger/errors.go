package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the caller has no identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserNotFound means the identity has no user row yet.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the record belongs to someone else.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoBlobStore means receipts were requested but no blob store is wired.
	ErrNoBlobStore = errors.New("blob store not configured")
)

// OpError records the operation and record that failed.
type OpError struct {
	Op     string
	Entity string
	ID     int64
	Err    error
}

func (e *OpError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op, entity string, id int64, err error) error {
	return &OpError{Op: op, Entity: entity, ID: id, Err: err}
}

const (
	entityExpense = "expense"
	entityIncome  = "income"
	entityReceipt = "receipt"
	entityUser    = "user"
	entityCatalog = "catalog"
)
