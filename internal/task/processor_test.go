package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/store"
)

// fakeNoteStore is an in-memory NoteStore that records every status
// write so tests can assert the exact sequence of commits.
type fakeNoteStore struct {
	mu            sync.Mutex
	notes         map[uuid.UUID]*domain.Note
	statusWrites  []domain.NoteStatus
	failStatusFor int // number of UpdateStatus calls to reject
	failComplete  bool
}

func newFakeNoteStore(notes ...*domain.Note) *fakeNoteStore {
	s := &fakeNoteStore{notes: make(map[uuid.UUID]*domain.Note)}
	for _, n := range notes {
		copied := *n
		s.notes[n.ID] = &copied
	}
	return s
}

func (s *fakeNoteStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (s *fakeNoteStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.NoteStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStatusFor > 0 {
		s.failStatusFor--
		return store.ErrUpdateFailed
	}

	note, ok := s.notes[id]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.Status = status
	s.statusWrites = append(s.statusWrites, status)
	return nil
}

func (s *fakeNoteStore) Complete(_ context.Context, id uuid.UUID, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failComplete {
		return store.ErrUpdateFailed
	}

	note, ok := s.notes[id]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.Status = domain.NoteStatusCompleted
	note.Summary = summary
	s.statusWrites = append(s.statusWrites, domain.NoteStatusCompleted)
	return nil
}

func (s *fakeNoteStore) get(id uuid.UUID) domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.notes[id]
}

func (s *fakeNoteStore) writes() []domain.NoteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.NoteStatus(nil), s.statusWrites...)
}

// countingSummarizer fails a fixed number of times before succeeding.
type countingSummarizer struct {
	mu       sync.Mutex
	calls    int
	failures int
	err      error
}

func (c *countingSummarizer) Summarize(_ context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.calls <= c.failures {
		return "", c.err
	}
	return "summary of: " + text, nil
}

func (c *countingSummarizer) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func queuedNote(t *testing.T) *domain.Note {
	t.Helper()
	note, err := domain.NewNote(uuid.New(), "First point. Second point. Third point.")
	require.NoError(t, err)
	return note
}

func testProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:   1,
		SoftTimeLimit: time.Second,
		HardTimeLimit: 2 * time.Second,
		Retry: RetryPolicy{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
	}
}

func startProcessor(t *testing.T, broker *Broker, notes NoteStore, s Summarizer, cfg ProcessorConfig) {
	t.Helper()
	proc := NewProcessor(broker, notes, s, cfg, testLogger())
	proc.Start()
	t.Cleanup(func() {
		broker.Close()
		proc.Stop()
	})
}

func TestProcessor_Success(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, SummarizeFunc(func(text string) string {
		return "done."
	}), testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusCompleted
	}, time.Second, 5*time.Millisecond)

	final := notes.get(note.ID)
	assert.Equal(t, "done.", final.Summary)
	assert.Equal(t,
		[]domain.NoteStatus{domain.NoteStatusInProgress, domain.NoteStatusCompleted},
		notes.writes())
}

func TestProcessor_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	summarizer := &countingSummarizer{failures: 2, err: errors.New("upstream unavailable")}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 3, summarizer.callCount())
	// The note stays in_progress across retries; in_progress is
	// committed exactly once.
	assert.Equal(t,
		[]domain.NoteStatus{domain.NoteStatusInProgress, domain.NoteStatusCompleted},
		notes.writes())
}

func TestProcessor_ExhaustsRetryBudget(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	summarizer := &countingSummarizer{failures: 100, err: errors.New("upstream unavailable")}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, 2*time.Second, 5*time.Millisecond)

	// One initial attempt plus three retries.
	assert.Equal(t, 4, summarizer.callCount())
	final := notes.get(note.ID)
	assert.Empty(t, final.Summary)
}

func TestProcessor_PermanentFailureSkipsRetries(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	summarizer := &countingSummarizer{failures: 100, err: ErrPermanentFailure}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, summarizer.callCount())
}

func TestProcessor_EmptySummaryIsPermanent(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, SummarizeFunc(func(string) string {
		return ""
	}), testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, time.Second, 5*time.Millisecond)
}

func TestProcessor_DropsMissingNote(t *testing.T) {
	t.Parallel()

	notes := newFakeNoteStore()
	summarizer := &countingSummarizer{}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(uuid.New())))

	// The job is dropped without any attempt or status write.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, summarizer.callCount())
	assert.Empty(t, notes.writes())
}

func TestProcessor_DropsTerminalNote(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	note.Status = domain.NoteStatusFailed
	notes := newFakeNoteStore(note)
	summarizer := &countingSummarizer{}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, summarizer.callCount())
	assert.Equal(t, domain.NoteStatusFailed, notes.get(note.ID).Status)
}

func TestProcessor_HardTimeLimit(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	broker := NewBroker(8, testLogger())

	cfg := testProcessorConfig()
	cfg.SoftTimeLimit = 10 * time.Millisecond
	cfg.HardTimeLimit = 25 * time.Millisecond
	cfg.Retry.MaxRetries = 0

	blocking := summarizerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	startProcessor(t, broker, notes, blocking, cfg)

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, time.Second, 5*time.Millisecond)
}

func TestProcessor_TerminalWriteRetriedOnce(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	note.Status = domain.NoteStatusInProgress
	notes := newFakeNoteStore(note)
	notes.failStatusFor = 1
	summarizer := &countingSummarizer{failures: 100, err: ErrPermanentFailure}
	broker := NewBroker(8, testLogger())
	startProcessor(t, broker, notes, summarizer, testProcessorConfig())

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	// The first failed write is retried immediately and succeeds.
	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, time.Second, 5*time.Millisecond)
}

func TestProcessor_FailedCommitConsumesRetryBudget(t *testing.T) {
	t.Parallel()

	note := queuedNote(t)
	notes := newFakeNoteStore(note)
	notes.failComplete = true
	broker := NewBroker(8, testLogger())

	cfg := testProcessorConfig()
	cfg.Retry.MaxRetries = 1

	startProcessor(t, broker, notes, SummarizeFunc(func(string) string {
		return "done."
	}), cfg)

	require.NoError(t, broker.Publish(NewJob(note.ID)))

	assert.Eventually(t, func() bool {
		return notes.get(note.ID).Status == domain.NoteStatusFailed
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, notes.get(note.ID).Summary)
}

// summarizerFunc adapts a context-aware function to Summarizer for tests.
type summarizerFunc func(ctx context.Context, text string) (string, error)

func (f summarizerFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
