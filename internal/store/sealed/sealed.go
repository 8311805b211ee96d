// Package sealed encrypts note text at rest on top of another store.
package sealed

import (
	"context"
	"fmt"

	"github.com/A-W-S-G-I-T/notes-api/internal/crypto"
	"github.com/A-W-S-G-I-T/notes-api/internal/model"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
)

// Store wraps a store.Store and encrypts the text attribute.
// Empty text is stored as-is because KMS rejects empty plaintext.
type Store struct {
	next store.Store
	enc  crypto.Encryptor
}

// New returns a Store that seals text written to next.
func New(next store.Store, enc crypto.Encryptor) *Store {
	return &Store{next: next, enc: enc}
}

func (s *Store) seal(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	return s.enc.Encrypt(ctx, text)
}

func (s *Store) open(ctx context.Context, n *model.Note) error {
	if n.Text == "" {
		return nil
	}
	text, err := s.enc.Decrypt(ctx, n.Text)
	if err != nil {
		return fmt.Errorf("open note %s: %w", n.ID, err)
	}
	n.Text = text
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Note, error) {
	n, err := s.next.Get(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if err := s.open(ctx, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (s *Store) ScanByOwner(ctx context.Context, owner string) ([]model.Note, error) {
	notes, err := s.next.ScanByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if err := s.open(ctx, &notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

func (s *Store) Put(ctx context.Context, note model.Note) error {
	sealed, err := s.seal(ctx, note.Text)
	if err != nil {
		return fmt.Errorf("seal note %s: %w", note.ID, err)
	}
	note.Text = sealed
	return s.next.Put(ctx, note)
}

func (s *Store) UpdateFields(ctx context.Context, id string, fields store.Fields) error {
	text, ok := fields[model.FieldText]
	if !ok {
		return s.next.UpdateFields(ctx, id, fields)
	}

	sealed, err := s.seal(ctx, text)
	if err != nil {
		return fmt.Errorf("seal note %s: %w", id, err)
	}
	out := make(store.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	out[model.FieldText] = sealed
	return s.next.UpdateFields(ctx, id, out)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.next.Delete(ctx, id)
}
