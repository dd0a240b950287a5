package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/platform/logger"
	"github.com/brevio/brevio-api/internal/store"
	"github.com/brevio/brevio-api/internal/task"
)

// NoteService implements the note use cases: accepting a note for
// asynchronous summarization and the authorized read and delete paths.
type NoteService struct {
	notes     store.NoteStore
	publisher task.Publisher
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes store.NoteStore, publisher task.Publisher) *NoteService {
	return &NoteService{
		notes:     notes,
		publisher: publisher,
	}
}

// CreateNote accepts a note for asynchronous summarization. The note is
// committed with status queued before the job is handed to the broker,
// so an accepted note is durable even if the process dies right after.
// If the broker rejects the job the note is marked failed and returned
// as such; enqueue rejection is a note outcome, not a request error.
func (s *NoteService) CreateNote(
	ctx context.Context,
	principal domain.Principal,
	rawText string,
) (*domain.Note, error) {
	log := logger.FromContext(ctx)

	note, err := domain.NewNote(principal.ID, rawText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	if err := s.publisher.Publish(task.NewJob(note.ID)); err != nil {
		log.Error("failed to enqueue note, marking failed",
			"note_id", note.ID,
			"error", err)

		if statusErr := s.notes.UpdateStatus(ctx, note.ID, domain.NoteStatusFailed); statusErr != nil {
			log.Error("failed to record enqueue failure",
				"note_id", note.ID,
				"error", statusErr)
		}
		note.Status = domain.NoteStatusFailed
		return note, nil
	}

	log.Info("note accepted for summarization",
		"note_id", note.ID,
		"owner_id", principal.ID)
	return note, nil
}

// GetNote retrieves a note on behalf of the principal.
// Returns ErrNoteNotFound if the note does not exist and ErrNotOwned if
// it exists but the principal may not read it.
func (s *NoteService) GetNote(
	ctx context.Context,
	principal domain.Principal,
	id uuid.UUID,
) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	if CanAccess(principal, note) != Allow {
		return nil, ErrNotOwned
	}
	return note, nil
}

// ListNotes retrieves the notes visible to the principal, newest first:
// every note for admins, owned notes for everyone else.
func (s *NoteService) ListNotes(
	ctx context.Context,
	principal domain.Principal,
) ([]*domain.Note, error) {
	var (
		notes []*domain.Note
		err   error
	)
	if principal.IsAdmin() {
		notes, err = s.notes.ListAll(ctx)
	} else {
		notes, err = s.notes.ListByOwner(ctx, principal.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote removes a note on behalf of the principal. The same access
// rule as reading applies; deleting a note that is still queued or in
// progress is allowed, its job is dropped when the worker finds the
// note gone.
func (s *NoteService) DeleteNote(
	ctx context.Context,
	principal domain.Principal,
	id uuid.UUID,
) error {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to load note: %w", err)
	}

	if CanAccess(principal, note) != Allow {
		return ErrNotOwned
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	logger.FromContext(ctx).Info("note deleted",
		"note_id", id,
		"deleted_by", principal.ID)
	return nil
}
