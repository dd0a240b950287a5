package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Common errors returned by the Broker
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// Publisher is the producer-side contract: hand a job to the broker for
// at-least-once delivery.
type Publisher interface {
	// Publish submits a job for delivery.
	// Returns an error if the queue is full or closed.
	Publish(job Job) error
}

// Broker is a buffered in-memory job queue with at-least-once delivery,
// an attempt counter, and delayed redelivery. A given job has at most one
// outstanding delivery at a time: redelivery is only ever scheduled by
// the consumer that currently holds the job, so attempts of the same job
// are strictly sequential.
type Broker struct {
	mu         sync.Mutex
	deliveries chan Job
	closed     bool
	logger     *slog.Logger
}

// NewBroker creates a broker with the specified delivery buffer size.
func NewBroker(size int, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		deliveries: make(chan Job, size),
		logger:     logger.With("component", "broker"),
	}
}

// Publish submits a job for delivery, assigning attempt 1.
// Returns ErrQueueClosed or ErrQueueFull when the job cannot be accepted;
// a rejected job never enters the queue.
func (b *Broker) Publish(job Job) error {
	job.Attempt = 1
	if err := b.enqueue(job); err != nil {
		return err
	}

	b.logger.Debug("job published",
		"job_id", job.ID,
		"note_id", job.NoteID)
	return nil
}

// Requeue schedules the job for redelivery after the given delay,
// incrementing its attempt counter. A redelivery that fires after Close,
// or that finds the queue full, is dropped with a log entry; the note's
// durable status remains the observable record in that case.
func (b *Broker) Requeue(job Job, delay time.Duration) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrQueueClosed
	}
	b.mu.Unlock()

	job.Attempt++

	b.logger.Debug("job scheduled for redelivery",
		"job_id", job.ID,
		"note_id", job.NoteID,
		"attempt", job.Attempt,
		"delay", delay)

	time.AfterFunc(delay, func() {
		if err := b.enqueue(job); err != nil {
			b.logger.Error("dropping redelivery",
				"job_id", job.ID,
				"note_id", job.NoteID,
				"attempt", job.Attempt,
				"error", err)
		}
	})
	return nil
}

// Deliveries returns the read-only channel workers consume jobs from.
func (b *Broker) Deliveries() <-chan Job {
	return b.deliveries
}

// Close stops intake and closes the delivery channel. Pending redelivery
// timers that fire afterwards drop their jobs.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.deliveries)
		b.logger.Info("job queue closed")
	}
}

// enqueue places a job on the delivery channel without blocking. The send
// happens under the mutex so it can never race with Close.
func (b *Broker) enqueue(job Job) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrQueueClosed
	}

	select {
	case b.deliveries <- job:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(b.deliveries))
	}
}
