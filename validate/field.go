// Package validate checks and normalizes request fields before any business logic runs.
//
// Every validator names the offending field in its error and returns an
// errs.ApiErr with code BAD_REQUEST, so handlers can return it unchanged.
package validate

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it was present and whether it was null.
// An absent key leaves Set false, which is how partial updates tell "not supplied" from "cleared".
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a present, non-null field.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a present field holding JSON null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// present reports whether the field carries a non-null value.
func (f Field[T]) present() bool {
	return f.Set && !f.Null
}

// AnySet reports whether at least one of the fields was supplied.
func AnySet(fields ...interface{ IsSet() bool }) bool {
	for _, f := range fields {
		if f.IsSet() {
			return true
		}
	}
	return false
}

func (f Field[T]) IsSet() bool {
	return f.Set
}
