package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/platform/logger"
	"github.com/brevio/brevio-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface using a
// PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db store.DBTX
}

// Ensure PostgresNoteStore implements store.NoteStore
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresNoteStore(db store.DBTX) *PostgresNoteStore {
	return &PostgresNoteStore{db: db}
}

// WithTx returns a new NoteStore bound to the given transaction.
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{db: tx}
}

const noteColumns = "id, owner_id, raw_text, summary, status, created_at, updated_at"

// Create saves a new note to the database after validating it.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContext(ctx)

	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notes (id, owner_id, raw_text, summary, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.RawText,
		note.Summary,
		note.Status,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	log.Debug("note created",
		"note_id", note.ID,
		"owner_id", note.OwnerID)
	return nil
}

// GetByID retrieves a note by its unique ID.
// Returns store.ErrNoteNotFound if no note exists with the given ID.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := fmt.Sprintf("SELECT %s FROM notes WHERE id = $1", noteColumns)

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, MapError(err)
	}
	return note, nil
}

// UpdateStatus moves an existing note along the status state machine.
// The current status is included in the UPDATE predicate so a row is
// only touched when the edge is legal at commit time.
func (s *PostgresNoteStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.NoteStatus,
) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanTransition(current.Status, status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current.Status, status)
	}

	query := `
		UPDATE notes
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`

	result, err := s.db.ExecContext(ctx, query, id, status, time.Now().UTC(), current.Status)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "note"); err != nil {
		// The status moved between read and write.
		return fmt.Errorf("%w: concurrent status change", domain.ErrIllegalTransition)
	}

	logger.FromContext(ctx).Debug("note status updated",
		"note_id", id,
		"from", current.Status,
		"to", status)
	return nil
}

// Complete sets the summary and the completed status in a single UPDATE,
// so neither is ever observable without the other. Only an in_progress
// note can be completed.
func (s *PostgresNoteStore) Complete(ctx context.Context, id uuid.UUID, summary string) error {
	if summary == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptySummary)
	}

	query := `
		UPDATE notes
		SET summary = $2, status = $3, updated_at = $4
		WHERE id = $1 AND status = $5`

	result, err := s.db.ExecContext(ctx, query,
		id,
		summary,
		domain.NoteStatusCompleted,
		time.Now().UTC(),
		domain.NoteStatusInProgress,
	)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "note"); err != nil {
		// Distinguish a missing note from one in the wrong state.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: note is not in progress", domain.ErrIllegalTransition)
	}

	logger.FromContext(ctx).Debug("note completed",
		"note_id", id,
		"summary_length", len(summary))
	return nil
}

// Delete removes a note from the database by its ID.
// Returns store.ErrNoteNotFound if no note exists with the given ID.
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "note"); err != nil {
		return store.ErrNoteNotFound
	}

	logger.FromContext(ctx).Debug("note deleted", "note_id", id)
	return nil
}

// ListAll retrieves every note in the store, newest first.
func (s *PostgresNoteStore) ListAll(ctx context.Context) ([]*domain.Note, error) {
	query := fmt.Sprintf("SELECT %s FROM notes ORDER BY created_at DESC", noteColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	return collectNotes(rows)
}

// ListByOwner retrieves the notes owned by the given user, newest first.
func (s *PostgresNoteStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Note, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM notes WHERE owner_id = $1 ORDER BY created_at DESC",
		noteColumns,
	)

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectNotes(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.RawText,
		&note.Summary,
		&note.Status,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]*domain.Note, error) {
	defer func() { _ = rows.Close() }()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return notes, nil
}
