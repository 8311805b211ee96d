package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/A-W-S-G-I-T/notes-api/internal/model"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
)

var _ store.Store = (*Store)(nil)

func TestStore_PutAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	note := model.Note{ID: "n1", Owner: "u1", Text: "hello", CreatedAt: "2026-01-01T00:00:00Z"}
	if err := s.Put(ctx, note); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "n1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != note {
		t.Errorf("Get returned %+v, want %+v", got, note)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	s := NewStore()

	_, err := s.Get(context.Background(), "nonexistent-id")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_Put_MissingID(t *testing.T) {
	s := NewStore()

	if err := s.Put(context.Background(), model.Note{Owner: "u1"}); err == nil {
		t.Error("Expected error for note without id")
	}
}

func TestStore_ScanByOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Put(ctx, model.Note{ID: "a", Owner: "u1"})
	s.Put(ctx, model.Note{ID: "b", Owner: "u2"})
	s.Put(ctx, model.Note{ID: "c", Owner: "u1"})

	notes, err := s.ScanByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ScanByOwner failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(notes))
	}
	for _, n := range notes {
		if n.Owner != "u1" {
			t.Errorf("Scan returned note of owner %q", n.Owner)
		}
	}

	empty, err := s.ScanByOwner(ctx, "nobody")
	if err != nil {
		t.Fatalf("ScanByOwner failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", empty)
	}
}

func TestStore_UpdateFields(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Put(ctx, model.Note{ID: "n1", Owner: "u1", Text: "v1", CreatedAt: "2026-01-01T00:00:00Z"})

	err := s.UpdateFields(ctx, "n1", store.Fields{
		model.FieldText:      "v2",
		model.FieldUpdatedAt: "2026-01-02T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}

	got, _ := s.Get(ctx, "n1")
	want := model.Note{ID: "n1", Owner: "u1", Text: "v2", CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-02T00:00:00Z"}
	if got != want {
		t.Errorf("After update got %+v, want %+v", got, want)
	}
}

func TestStore_UpdateFields_NotFound(t *testing.T) {
	s := NewStore()

	err := s.UpdateFields(context.Background(), "missing", store.Fields{model.FieldText: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("UpdateFields must not create notes")
	}
}

func TestStore_UpdateFields_Immutable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Put(ctx, model.Note{ID: "n1", Owner: "u1"})

	err := s.UpdateFields(ctx, "n1", store.Fields{model.FieldOwner: "u2"})
	if !errors.Is(err, store.ErrImmutableField) {
		t.Errorf("Expected ErrImmutableField, got %v", err)
	}
	got, _ := s.Get(ctx, "n1")
	if got.Owner != "u1" {
		t.Errorf("Owner changed to %q", got.Owner)
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Put(ctx, model.Note{ID: "n1", Owner: "u1"})

	if err := s.Delete(ctx, "n1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "n1"); err != nil {
		t.Fatalf("Second delete should not fail: %v", err)
	}
	if _, err := s.Get(ctx, "n1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			s.Put(ctx, model.Note{ID: id, Owner: "u1"})
			s.ScanByOwner(ctx, "u1")
			s.UpdateFields(ctx, id, store.Fields{model.FieldText: "x"})
		}(i)
	}
	wg.Wait()

	if s.Len() != 26 {
		t.Errorf("Expected 26 notes, got %d", s.Len())
	}
}
