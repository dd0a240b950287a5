package task

import "github.com/google/uuid"

// Job is the ephemeral broker message that drives exactly one note
// through the worker pipeline. It is never persisted outside the broker;
// the note's durable status is the observable proxy for its progress.
type Job struct {
	// ID identifies the job for logging and delivery tracking.
	ID uuid.UUID `json:"-"`

	// NoteID references the note to process. This is the wire payload.
	NoteID uuid.UUID `json:"note_id"`

	// Attempt is the 1-based delivery attempt counter, maintained by the
	// broker: Publish sets it to 1 and every Requeue increments it.
	Attempt int `json:"-"`
}

// NewJob creates a job message for the given note.
func NewJob(noteID uuid.UUID) Job {
	return Job{
		ID:     uuid.New(),
		NoteID: noteID,
	}
}
