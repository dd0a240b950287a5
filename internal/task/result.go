package task

import (
	"context"
	"errors"
)

// Errors classifying processing failures.
var (
	// ErrPermanentFailure marks an attempt error that retrying cannot fix;
	// the processor marks the note failed without consuming retry budget.
	ErrPermanentFailure = errors.New("permanent processing failure")

	// ErrAttemptTimeout is returned when an attempt hits its hard time
	// limit and is forcibly abandoned. It counts as a transient failure.
	ErrAttemptTimeout = errors.New("attempt exceeded hard time limit")

	// ErrEmptySummary marks a summarization that produced no output;
	// rerunning a deterministic transform would produce the same result,
	// so it is treated as permanent.
	ErrEmptySummary = errors.New("summarization produced an empty summary")
)

// Outcome classifies the result of one processing attempt.
type Outcome int

// Possible attempt outcomes
const (
	// OutcomeSuccess: the summary was produced; commit and acknowledge.
	OutcomeSuccess Outcome = iota

	// OutcomeTransient: the attempt failed in a way a retry might fix;
	// defer for redelivery while budget remains.
	OutcomeTransient

	// OutcomePermanent: the attempt failed in a way no retry can fix;
	// commit failed and acknowledge.
	OutcomePermanent
)

// Result is the explicit, data-driven outcome of a processing attempt.
// The worker's outer loop interprets it to decide between
// commit-and-acknowledge, defer-for-redelivery, and commit-failed;
// control flow never relies on panics or thrown signals.
type Result struct {
	Outcome Outcome
	Summary string
	Err     error
}

// Success builds the result for a completed attempt.
func Success(summary string) Result {
	return Result{Outcome: OutcomeSuccess, Summary: summary}
}

// Transient builds the result for a retryable failure.
func Transient(err error) Result {
	return Result{Outcome: OutcomeTransient, Err: err}
}

// Permanent builds the result for a non-retryable failure.
func Permanent(err error) Result {
	return Result{Outcome: OutcomePermanent, Err: err}
}

// classify turns an attempt error into a Result. Context expiry and
// unknown errors are transient; explicitly permanent errors are not.
func classify(err error) Result {
	switch {
	case errors.Is(err, ErrPermanentFailure), errors.Is(err, ErrEmptySummary):
		return Permanent(err)
	case errors.Is(err, context.DeadlineExceeded):
		return Transient(ErrAttemptTimeout)
	default:
		return Transient(err)
	}
}
