package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NoteStatus represents the processing state of a note.
type NoteStatus string

// Possible note status values
const (
	NoteStatusQueued     NoteStatus = "queued"
	NoteStatusInProgress NoteStatus = "in_progress"
	NoteStatusCompleted  NoteStatus = "completed"
	NoteStatusFailed     NoteStatus = "failed"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID        = errors.New("note ID cannot be empty")
	ErrEmptyNoteOwnerID   = errors.New("note owner ID cannot be empty")
	ErrEmptyNoteText      = errors.New("note text cannot be empty")
	ErrInvalidNoteStatus  = errors.New("invalid note status")
	ErrIllegalTransition  = errors.New("illegal note status transition")
	ErrEmptySummary       = errors.New("summary cannot be empty on completion")
	ErrSummaryNotComplete = errors.New("summary may only be set on a completed note")
)

// noteTransitions is the set of legal status edges. Anything not listed
// here is rejected, including every edge out of a terminal state.
var noteTransitions = map[NoteStatus][]NoteStatus{
	NoteStatusQueued:     {NoteStatusInProgress, NoteStatusFailed},
	NoteStatusInProgress: {NoteStatusCompleted, NoteStatusFailed},
	NoteStatusCompleted:  {},
	NoteStatusFailed:     {},
}

// Note represents a free-text entry submitted by a user for asynchronous
// summarization. It tracks both the original content and the processing
// state; Summary is non-empty exactly when Status is completed.
type Note struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	RawText   string     `json:"raw_text"`
	Summary   string     `json:"summary"`
	Status    NoteStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewNote creates a new Note owned by the given user.
// It generates a new UUID for the note ID, sets the status to queued,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewNote(ownerID uuid.UUID, rawText string) (*Note, error) {
	note := &Note{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		RawText:   rawText,
		Status:    NoteStatusQueued,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.OwnerID == uuid.Nil {
		return ErrEmptyNoteOwnerID
	}

	if n.RawText == "" {
		return ErrEmptyNoteText
	}

	if !isValidNoteStatus(n.Status) {
		return ErrInvalidNoteStatus
	}

	// A summary exists exactly on completed notes.
	if (n.Summary != "") != (n.Status == NoteStatusCompleted) {
		if n.Summary != "" {
			return ErrSummaryNotComplete
		}
		return ErrEmptySummary
	}

	return nil
}

// CanTransition reports whether moving from one status to another is a
// legal edge of the note lifecycle.
func CanTransition(from, to NoteStatus) bool {
	for _, next := range noteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the note to the given status and bumps UpdatedAt.
// Returns ErrIllegalTransition for any edge not in the lifecycle graph,
// including all edges out of completed and failed.
func (n *Note) TransitionTo(status NoteStatus) error {
	if !isValidNoteStatus(status) {
		return ErrInvalidNoteStatus
	}

	if !CanTransition(n.Status, status) {
		return ErrIllegalTransition
	}

	n.Status = status
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete sets the summary and transitions the note to completed in a
// single step, so a note is never observable with a summary but a
// non-completed status.
func (n *Note) Complete(summary string) error {
	if summary == "" {
		return ErrEmptySummary
	}

	if !CanTransition(n.Status, NoteStatusCompleted) {
		return ErrIllegalTransition
	}

	n.Summary = summary
	n.Status = NoteStatusCompleted
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s NoteStatus) IsTerminal() bool {
	return s == NoteStatusCompleted || s == NoteStatusFailed
}

// isValidNoteStatus checks if the given status is a valid NoteStatus.
func isValidNoteStatus(status NoteStatus) bool {
	switch status {
	case NoteStatusQueued, NoteStatusInProgress, NoteStatusCompleted, NoteStatusFailed:
		return true
	default:
		return false
	}
}
