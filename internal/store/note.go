package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/brevio/brevio-api/internal/domain"
)

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Note if data is invalid.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// UpdateStatus moves an existing note along the status state machine.
	// Returns ErrNoteNotFound if the note does not exist and
	// domain.ErrIllegalTransition if the edge is not legal.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NoteStatus) error

	// Complete sets the summary and the completed status in a single
	// commit, so neither is ever observable without the other.
	// Returns ErrNoteNotFound if the note does not exist and
	// domain.ErrIllegalTransition if the note is not in progress.
	Complete(ctx context.Context, id uuid.UUID, summary string) error

	// Delete removes a note from the store by its ID.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAll retrieves every note in the store, newest first.
	ListAll(ctx context.Context) ([]*domain.Note, error)

	// ListByOwner retrieves the notes owned by the given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Note, error)

	// WithTx returns a new NoteStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) NoteStore
}
