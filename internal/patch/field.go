// Package patch provides a tri-state field for partial updates: a field is
// absent (keep the stored value), set to a value, or explicitly cleared.
package patch

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	absent state = iota
	set
	cleared
)

// Field holds one optional update. The zero value is absent.
type Field[T any] struct {
	value T
	state state
}

// Set returns a field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, state: set}
}

// Clear returns a field that removes the stored value.
func Clear[T any]() Field[T] {
	return Field[T]{state: cleared}
}

// Present reports whether the update mentions the field at all.
func (f Field[T]) Present() bool { return f.state != absent }

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool { return f.state == set }

// Cleared reports whether the field explicitly removes the stored value.
func (f Field[T]) Cleared() bool { return f.state == cleared }

// Value returns the carried value and whether one is set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == set
}

// Merge returns the value after applying the field over current.
func (f Field[T]) Merge(current *T) *T {
	switch f.state {
	case set:
		v := f.value
		return &v
	case cleared:
		return nil
	default:
		return current
	}
}

// Apply writes a set value into dst. Absent and cleared leave dst alone,
// for fields that cannot be empty.
func (f Field[T]) Apply(dst *T) {
	if f.state == set {
		*dst = f.value
	}
}

// ApplyPtr writes the merged value into an optional field.
func (f Field[T]) ApplyPtr(dst **T) {
	*dst = f.Merge(*dst)
}

// UnmarshalJSON is only invoked for keys present in the document, so a
// decoded Field is either set or, for a JSON null, cleared.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value, f.state = zero, cleared
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.state = set
	return nil
}

// MarshalJSON encodes a set field as its value and anything else as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
