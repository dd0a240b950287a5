package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/brevio/brevio-api/internal/domain"
	"github.com/brevio/brevio-api/internal/store"
)

// NoteStore is the narrow persistence surface the processor needs. Every
// mutation is a single-row commit; the queued -> in_progress transition
// is the sole synchronization point per job.
type NoteStore interface {
	// GetByID retrieves a note by its ID.
	// Returns store.ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// UpdateStatus moves a note along the status state machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NoteStatus) error

	// Complete sets summary and completed status in one commit.
	Complete(ctx context.Context, id uuid.UUID, summary string) error
}

// Summarizer produces a summary for the given text. Implementations must
// respect context cancellation if they block.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SummarizeFunc adapts a pure text transform to the Summarizer interface.
type SummarizeFunc func(string) string

// Summarize implements Summarizer. A pure transform cannot fail and
// ignores the context.
func (f SummarizeFunc) Summarize(_ context.Context, text string) (string, error) {
	return f(text), nil
}

// ProcessorConfig holds configuration for the worker processor.
type ProcessorConfig struct {
	// WorkerCount determines how many concurrent workers consume jobs.
	WorkerCount int

	// SoftTimeLimit flags a long-running attempt in the log but lets it
	// continue. HardTimeLimit forcibly abandons the attempt; the abandoned
	// attempt counts as a transient failure.
	SoftTimeLimit time.Duration
	HardTimeLimit time.Duration

	// Retry is the backoff policy applied to transient failures.
	Retry RetryPolicy
}

// DefaultProcessorConfig returns a ProcessorConfig with the stock limits:
// two workers, a 5 minute soft limit, a 10 minute hard limit.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:   2,
		SoftTimeLimit: 5 * time.Minute,
		HardTimeLimit: 10 * time.Minute,
		Retry:         DefaultRetryPolicy(),
	}
}

// Processor is the consumer side of the pipeline: long-lived worker
// loops that pull jobs from the broker, drive the note state machine,
// and apply the retry policy to failures. A failure never escapes the
// one job that caused it.
type Processor struct {
	broker     *Broker
	notes      NoteStore
	summarizer Summarizer
	config     ProcessorConfig
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewProcessor creates a worker processor. All dependencies are required
// except logger, which falls back to the process default.
func NewProcessor(
	broker *Broker,
	notes NoteStore,
	summarizer Summarizer,
	config ProcessorConfig,
	logger *slog.Logger,
) *Processor {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		broker:     broker,
		notes:      notes,
		summarizer: summarizer,
		config:     config,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger.With("component", "processor"),
	}
}

// Start launches the worker goroutines.
func (p *Processor) Start() {
	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("processor started", "worker_count", p.config.WorkerCount)
}

// Stop cancels in-flight work and waits for all workers to exit.
func (p *Processor) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("processor stopped")
}

// worker consumes jobs from the broker until shutdown.
func (p *Processor) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-p.broker.Deliveries():
			if !ok {
				p.logger.Debug("delivery channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processJob(job, id)
		}
	}
}

// processJob handles one delivery of one job.
func (p *Processor) processJob(job Job, workerID int) {
	logger := p.logger.With(
		"job_id", job.ID,
		"note_id", job.NoteID,
		"attempt", job.Attempt,
		"worker_id", workerID,
	)

	note, err := p.notes.GetByID(p.ctx, job.NoteID)
	if err != nil {
		if store.IsNotFoundError(err) {
			// The note vanished between enqueue and processing. There is
			// no status left to update; drop the job.
			logger.Warn("note not found, dropping job")
			return
		}
		logger.Error("failed to load note", "error", err)
		p.handleFailure(logger, job, err)
		return
	}

	switch note.Status {
	case domain.NoteStatusQueued:
		// Committed before any processing work so a crash mid-attempt
		// leaves a durable in-progress marker.
		if err := p.notes.UpdateStatus(p.ctx, job.NoteID, domain.NoteStatusInProgress); err != nil {
			logger.Error("failed to mark note in progress", "error", err)
			p.handleFailure(logger, job, err)
			return
		}
	case domain.NoteStatusInProgress:
		// Redelivery of an earlier attempt; the status stays in_progress
		// so observers can tell retrying from freshly submitted.
	default:
		logger.Warn("note already in terminal state, dropping job",
			"status", note.Status)
		return
	}

	result := p.runAttempt(logger, note.RawText)

	switch result.Outcome {
	case OutcomeSuccess:
		if err := p.notes.Complete(p.ctx, job.NoteID, result.Summary); err != nil {
			logger.Error("failed to commit summary", "error", err)
			p.handleFailure(logger, job, err)
			return
		}
		logger.Info("note summarized", "summary_length", len(result.Summary))

	case OutcomeTransient:
		logger.Warn("attempt failed", "error", result.Err)
		p.handleFailure(logger, job, result.Err)

	case OutcomePermanent:
		logger.Error("attempt failed permanently", "error", result.Err)
		p.markFailed(logger, job.NoteID)
	}
}

// runAttempt executes the summarization step under the soft and hard
// time limits and folds the outcome into an explicit Result.
func (p *Processor) runAttempt(logger *slog.Logger, text string) Result {
	attemptCtx, cancel := context.WithTimeout(p.ctx, p.config.HardTimeLimit)
	defer cancel()

	soft := time.AfterFunc(p.config.SoftTimeLimit, func() {
		logger.Warn("soft time limit exceeded, attempt still running",
			"soft_limit", p.config.SoftTimeLimit)
	})
	defer soft.Stop()

	type attempt struct {
		summary string
		err     error
	}
	done := make(chan attempt, 1)

	go func() {
		summary, err := p.summarizer.Summarize(attemptCtx, text)
		done <- attempt{summary: summary, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		// Hard limit (or shutdown). The goroutine is abandoned; its send
		// into the buffered channel cannot block.
		return Transient(fmt.Errorf("%w after %s", ErrAttemptTimeout, p.config.HardTimeLimit))

	case a := <-done:
		if a.err != nil {
			return classify(a.err)
		}
		if a.summary == "" {
			return Permanent(ErrEmptySummary)
		}
		return Success(a.summary)
	}
}

// handleFailure applies the retry policy to a transient failure: defer
// for redelivery while budget remains, otherwise commit failed.
func (p *Processor) handleFailure(logger *slog.Logger, job Job, cause error) {
	if p.config.Retry.ShouldRetry(job.Attempt) {
		delay := p.config.Retry.Backoff(job.Attempt)
		logger.Info("deferring job for redelivery",
			"delay", delay,
			"error", cause)

		if err := p.broker.Requeue(job, delay); err != nil {
			logger.Error("failed to requeue job, marking note failed", "error", err)
			p.markFailed(logger, job.NoteID)
		}
		return
	}

	logger.Error("retry budget exhausted, marking note failed",
		"attempts", job.Attempt,
		"error", cause)
	p.markFailed(logger, job.NoteID)
}

// markFailed commits the terminal failed status. Losing this write would
// leave the note stuck in in_progress, so a persistence error is retried
// once immediately; after that the failure is only logged.
func (p *Processor) markFailed(logger *slog.Logger, noteID uuid.UUID) {
	err := p.notes.UpdateStatus(p.ctx, noteID, domain.NoteStatusFailed)
	if err == nil {
		return
	}

	logger.Warn("failed to record terminal status, retrying once", "error", err)
	if err := p.notes.UpdateStatus(p.ctx, noteID, domain.NoteStatusFailed); err != nil {
		logger.Error("could not record terminal status, note may remain in progress",
			"error", err)
	}
}
