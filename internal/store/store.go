// Package store defines the persistence contract for notes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/A-W-S-G-I-T/notes-api/internal/model"
)

var (
	// ErrNotFound is returned when no note exists for the requested id.
	ErrNotFound = errors.New("note not found")

	// ErrImmutableField is returned when a field set names id, owner or createdAt.
	ErrImmutableField = errors.New("field is immutable")
)

// Fields maps attribute names to their new values for a partial update.
type Fields map[string]string

// Store is a flat key-value collection of notes keyed by note id.
// Each operation is atomic per item; there are no cross-item transactions.
type Store interface {
	// Get fetches a note by id. It returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (model.Note, error)

	// ScanByOwner returns every note whose owner equals owner, in no particular order.
	ScanByOwner(ctx context.Context, owner string) ([]model.Note, error)

	// Put writes the note unconditionally, replacing any existing item.
	Put(ctx context.Context, note model.Note) error

	// UpdateFields overwrites only the named attributes of an existing note.
	// It returns ErrNotFound when the note does not exist, even for an empty set.
	UpdateFields(ctx context.Context, id string, fields Fields) error

	// Delete removes a note. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// CheckMutable returns ErrImmutableField if fields names an immutable attribute.
func CheckMutable(fields Fields) error {
	for name := range fields {
		if model.Immutable(name) {
			return fmt.Errorf("%w: %s", ErrImmutableField, name)
		}
	}
	return nil
}
