package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/store"
	"github.com/brevio/brevio-api/internal/task"
)

// memoryNoteStore is an in-memory store.NoteStore for service tests.
type memoryNoteStore struct {
	notes      map[uuid.UUID]*domain.Note
	createErr  error
	deleteErrs map[uuid.UUID]error
}

func newMemoryNoteStore() *memoryNoteStore {
	return &memoryNoteStore{
		notes:      make(map[uuid.UUID]*domain.Note),
		deleteErrs: make(map[uuid.UUID]error),
	}
}

func (m *memoryNoteStore) Create(_ context.Context, note *domain.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *note
	m.notes[note.ID] = &copied
	return nil
}

func (m *memoryNoteStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Note, error) {
	note, ok := m.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (m *memoryNoteStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.NoteStatus) error {
	note, ok := m.notes[id]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.Status = status
	return nil
}

func (m *memoryNoteStore) Complete(_ context.Context, id uuid.UUID, summary string) error {
	note, ok := m.notes[id]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.Status = domain.NoteStatusCompleted
	note.Summary = summary
	return nil
}

func (m *memoryNoteStore) Delete(_ context.Context, id uuid.UUID) error {
	if err := m.deleteErrs[id]; err != nil {
		return err
	}
	if _, ok := m.notes[id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memoryNoteStore) ListAll(_ context.Context) ([]*domain.Note, error) {
	var all []*domain.Note
	for _, note := range m.notes {
		copied := *note
		all = append(all, &copied)
	}
	return all, nil
}

func (m *memoryNoteStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Note, error) {
	var owned []*domain.Note
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			copied := *note
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (m *memoryNoteStore) WithTx(_ *sql.Tx) store.NoteStore { return m }

// recordingPublisher captures published jobs and can be set to fail.
type recordingPublisher struct {
	jobs []task.Job
	err  error
}

func (p *recordingPublisher) Publish(job task.Job) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func agentPrincipal() domain.Principal {
	return domain.Principal{ID: uuid.New(), Email: "agent@example.com", Role: domain.RoleAgent}
}

func TestNoteService_CreateNote(t *testing.T) {
	t.Parallel()

	t.Run("accepted note is queued and published", func(t *testing.T) {
		t.Parallel()

		notes := newMemoryNoteStore()
		publisher := &recordingPublisher{}
		svc := NewNoteService(notes, publisher)
		principal := agentPrincipal()

		note, err := svc.CreateNote(context.Background(), principal, "First. Second. Third.")
		require.NoError(t, err)

		assert.Equal(t, domain.NoteStatusQueued, note.Status)
		assert.Equal(t, principal.ID, note.OwnerID)
		assert.Empty(t, note.Summary)

		require.Len(t, publisher.jobs, 1)
		assert.Equal(t, note.ID, publisher.jobs[0].NoteID)

		stored, err := notes.GetByID(context.Background(), note.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NoteStatusQueued, stored.Status)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		t.Parallel()

		svc := NewNoteService(newMemoryNoteStore(), &recordingPublisher{})

		_, err := svc.CreateNote(context.Background(), agentPrincipal(), "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("persistence failure surfaces as error", func(t *testing.T) {
		t.Parallel()

		notes := newMemoryNoteStore()
		notes.createErr = errors.New("connection refused")
		publisher := &recordingPublisher{}
		svc := NewNoteService(notes, publisher)

		_, err := svc.CreateNote(context.Background(), agentPrincipal(), "Some text.")
		assert.Error(t, err)
		assert.Empty(t, publisher.jobs)
	})

	t.Run("broker rejection marks the note failed, not the request", func(t *testing.T) {
		t.Parallel()

		notes := newMemoryNoteStore()
		publisher := &recordingPublisher{err: task.ErrQueueFull}
		svc := NewNoteService(notes, publisher)

		note, err := svc.CreateNote(context.Background(), agentPrincipal(), "Some text.")
		require.NoError(t, err)

		assert.Equal(t, domain.NoteStatusFailed, note.Status)
		assert.Empty(t, note.Summary)

		stored, err := notes.GetByID(context.Background(), note.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NoteStatusFailed, stored.Status)
	})
}

func TestNoteService_GetNote(t *testing.T) {
	t.Parallel()

	notes := newMemoryNoteStore()
	owner := agentPrincipal()
	publisher := &recordingPublisher{}
	svc := NewNoteService(notes, publisher)

	created, err := svc.CreateNote(context.Background(), owner, "Mine.")
	require.NoError(t, err)

	t.Run("owner reads own note", func(t *testing.T) {
		t.Parallel()

		got, err := svc.GetNote(context.Background(), owner, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("admin reads any note", func(t *testing.T) {
		t.Parallel()

		admin := domain.Principal{ID: uuid.New(), Role: domain.RoleAdmin}
		_, err := svc.GetNote(context.Background(), admin, created.ID)
		assert.NoError(t, err)
	})

	t.Run("foreign note is forbidden, not hidden", func(t *testing.T) {
		t.Parallel()

		_, err := svc.GetNote(context.Background(), agentPrincipal(), created.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("absent note is not found", func(t *testing.T) {
		t.Parallel()

		_, err := svc.GetNote(context.Background(), owner, uuid.New())
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})
}

func TestNoteService_ListNotes(t *testing.T) {
	t.Parallel()

	notes := newMemoryNoteStore()
	svc := NewNoteService(notes, &recordingPublisher{})

	alice := agentPrincipal()
	bob := domain.Principal{ID: uuid.New(), Email: "bob@example.com", Role: domain.RoleAgent}

	_, err := svc.CreateNote(context.Background(), alice, "Alice one.")
	require.NoError(t, err)
	_, err = svc.CreateNote(context.Background(), alice, "Alice two.")
	require.NoError(t, err)
	_, err = svc.CreateNote(context.Background(), bob, "Bob one.")
	require.NoError(t, err)

	t.Run("agent sees only own notes", func(t *testing.T) {
		t.Parallel()

		listed, err := svc.ListNotes(context.Background(), alice)
		require.NoError(t, err)
		assert.Len(t, listed, 2)
		for _, note := range listed {
			assert.Equal(t, alice.ID, note.OwnerID)
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		t.Parallel()

		admin := domain.Principal{ID: uuid.New(), Role: domain.RoleAdmin}
		listed, err := svc.ListNotes(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, listed, 3)
	})
}

func TestNoteService_DeleteNote(t *testing.T) {
	t.Parallel()

	t.Run("owner deletes own note", func(t *testing.T) {
		t.Parallel()

		notes := newMemoryNoteStore()
		svc := NewNoteService(notes, &recordingPublisher{})
		owner := agentPrincipal()

		created, err := svc.CreateNote(context.Background(), owner, "Delete me.")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteNote(context.Background(), owner, created.ID))

		_, err = svc.GetNote(context.Background(), owner, created.ID)
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})

	t.Run("foreign note is forbidden and survives", func(t *testing.T) {
		t.Parallel()

		notes := newMemoryNoteStore()
		svc := NewNoteService(notes, &recordingPublisher{})
		owner := agentPrincipal()

		created, err := svc.CreateNote(context.Background(), owner, "Keep me.")
		require.NoError(t, err)

		err = svc.DeleteNote(context.Background(), agentPrincipal(), created.ID)
		assert.ErrorIs(t, err, ErrNotOwned)

		_, err = svc.GetNote(context.Background(), owner, created.ID)
		assert.NoError(t, err)
	})

	t.Run("absent note is not found", func(t *testing.T) {
		t.Parallel()

		svc := NewNoteService(newMemoryNoteStore(), &recordingPublisher{})
		err := svc.DeleteNote(context.Background(), agentPrincipal(), uuid.New())
		assert.ErrorIs(t, err, ErrNoteNotFound)
	})
}
