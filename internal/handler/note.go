package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/A-W-S-G-I-T/notes-api/internal/auth"
	"github.com/A-W-S-G-I-T/notes-api/internal/model"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
)

// ErrInvalidField marks a body field with an unusable JSON type. Handle
// answers it with a 400 rather than returning it.
var ErrInvalidField = errors.New("invalid field")

// Request is a transport-neutral notes request.
type Request struct {
	Method      string
	Query       map[string]string
	Body        Body
	Credentials auth.Credentials
}

// Option configures a NoteHandler.
type Option func(*NoteHandler)

// WithClock overrides the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(h *NoteHandler) { h.now = now }
}

// WithIDGenerator overrides how new note ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(h *NoteHandler) { h.newID = newID }
}

// WithLogger sets the logger that records rejected identities at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(h *NoteHandler) {
		if log != nil {
			h.log = log
		}
	}
}

// NoteHandler handles CRUD operations for notes owned by the caller.
type NoteHandler struct {
	store    store.Store
	identity auth.Extractor
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(s store.Store, identity auth.Extractor, opts ...Option) *NoteHandler {
	h := &NoteHandler{
		store:    s,
		identity: identity,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle authenticates the caller and dispatches on method and query.
// Validation failures become JSON responses; store failures and malformed
// bodies are returned as errors.
func (h *NoteHandler) Handle(ctx context.Context, req Request) (Response, error) {
	// CORS preflight never needs identity.
	if req.Method == http.MethodOptions {
		return respond(http.StatusNoContent, nil), nil
	}

	userID, err := h.identity.Subject(ctx, req.Credentials)
	if err != nil {
		h.log.DebugContext(ctx, "identity rejected", slog.String("method", req.Method), slog.Any("err", err))
		return message(http.StatusUnauthorized, msgUnauthorized), nil
	}

	id := req.Query["id"]

	switch req.Method {
	case http.MethodGet:
		if id == "" {
			return h.ListNotes(ctx, userID)
		}
		return h.GetNote(ctx, userID, id)
	case http.MethodPost:
		return h.CreateNote(ctx, userID, req.Body)
	case http.MethodPut:
		return h.UpdateNote(ctx, userID, id, req.Body)
	case http.MethodDelete:
		return h.DeleteNote(ctx, userID, id)
	}

	return message(http.StatusBadRequest, "Unsupported method: "+req.Method), nil
}

// ListNotes returns every note owned by userID.
func (h *NoteHandler) ListNotes(ctx context.Context, userID string) (Response, error) {
	notes, err := h.store.ScanByOwner(ctx, userID)
	if err != nil {
		return Response{}, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return ok(map[string]any{"items": notes}), nil
}

// GetNote returns a single note if userID owns it.
func (h *NoteHandler) GetNote(ctx context.Context, userID, id string) (Response, error) {
	note, found, err := h.lookup(ctx, userID, id)
	if err != nil {
		return Response{}, err
	}
	if !found {
		return notFound(), nil
	}
	return ok(note), nil
}

// CreateNote stores a new note owned by userID. Owner and id always come
// from the server, never from the body.
func (h *NoteHandler) CreateNote(ctx context.Context, userID string, body Body) (Response, error) {
	fields, err := body.Fields()
	if err != nil {
		return Response{}, err
	}
	text, _, err := textField(fields)
	if errors.Is(err, ErrInvalidField) {
		return message(http.StatusBadRequest, msgInvalidText), nil
	}
	if err != nil {
		return Response{}, err
	}

	note := model.Note{
		ID:        h.newID(),
		Owner:     userID,
		Text:      text,
		CreatedAt: model.Timestamp(h.now()),
	}
	if err := h.store.Put(ctx, note); err != nil {
		return Response{}, fmt.Errorf("create note: %w", err)
	}
	return ok(note), nil
}

// UpdateNote replaces the text of a note owned by userID.
func (h *NoteHandler) UpdateNote(ctx context.Context, userID, id string, body Body) (Response, error) {
	if id == "" {
		return message(http.StatusBadRequest, msgMissingID), nil
	}

	fields, err := body.Fields()
	if err != nil {
		return Response{}, err
	}
	text, present, err := textField(fields)
	if errors.Is(err, ErrInvalidField) {
		return message(http.StatusBadRequest, msgInvalidText), nil
	}
	if err != nil {
		return Response{}, err
	}
	if !present {
		return message(http.StatusBadRequest, msgMissingText), nil
	}

	_, found, err := h.lookup(ctx, userID, id)
	if err != nil {
		return Response{}, err
	}
	if !found {
		return notFound(), nil
	}

	// Not atomic with the lookup above: concurrent updates are last write wins.
	err = h.store.UpdateFields(ctx, id, store.Fields{
		model.FieldText:      text,
		model.FieldUpdatedAt: model.Timestamp(h.now()),
	})
	if errors.Is(err, store.ErrNotFound) {
		return notFound(), nil
	}
	if err != nil {
		return Response{}, fmt.Errorf("update note %s: %w", id, err)
	}

	return ok(map[string]any{"updated": true, "id": id}), nil
}

// DeleteNote removes a note owned by userID.
func (h *NoteHandler) DeleteNote(ctx context.Context, userID, id string) (Response, error) {
	if id == "" {
		return message(http.StatusBadRequest, msgMissingID), nil
	}

	_, found, err := h.lookup(ctx, userID, id)
	if err != nil {
		return Response{}, err
	}
	if !found {
		return notFound(), nil
	}

	if err := h.store.Delete(ctx, id); err != nil {
		return Response{}, fmt.Errorf("delete note %s: %w", id, err)
	}
	return ok(map[string]any{"deleted": true, "id": id}), nil
}

// lookup fetches a note and reports found only when userID owns it, so a
// note owned by someone else is indistinguishable from a missing one.
func (h *NoteHandler) lookup(ctx context.Context, userID, id string) (model.Note, bool, error) {
	note, err := h.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Note{}, false, nil
	}
	if err != nil {
		return model.Note{}, false, fmt.Errorf("get note %s: %w", id, err)
	}
	if note.Owner != userID {
		return model.Note{}, false, nil
	}
	return note, true, nil
}

// textField reads "text" from a body. JSON null counts as present and empty.
func textField(fields map[string]any) (string, bool, error) {
	v, present := fields[model.FieldText]
	if !present {
		return "", false, nil
	}
	switch t := v.(type) {
	case nil:
		return "", true, nil
	case string:
		return t, true, nil
	}
	return "", true, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidField, model.FieldText, v)
}
