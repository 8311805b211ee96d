package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/A-W-S-G-I-T/notes-api/internal/model"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
)

// Store implements store.Store with an in-memory map.
// It backs the local server and the handler tests.
type Store struct {
	notes map[string]model.Note
	mu    sync.RWMutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{notes: make(map[string]model.Note)}
}

func (s *Store) Get(ctx context.Context, id string) (model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return model.Note{}, store.ErrNotFound
	}
	return n, nil
}

func (s *Store) ScanByOwner(ctx context.Context, owner string) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]model.Note, 0)
	for _, n := range s.notes {
		if n.Owner == owner {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (s *Store) Put(ctx context.Context, note model.Note) error {
	if note.ID == "" {
		return fmt.Errorf("put note: missing id")
	}

	s.mu.Lock()
	s.notes[note.ID] = note
	s.mu.Unlock()
	return nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, fields store.Fields) error {
	if err := store.CheckMutable(fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return store.ErrNotFound
	}
	for name, value := range fields {
		if err := n.SetField(name, value); err != nil {
			return fmt.Errorf("update note %s: %w", id, err)
		}
	}
	s.notes[id] = n
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.notes, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}
