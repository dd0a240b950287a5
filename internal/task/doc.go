// Package task implements the asynchronous note-processing pipeline: an
// at-least-once job broker, the worker processor that consumes jobs and
// drives the note status lifecycle, and the retry/backoff policy applied
// to transient processing failures.
package task
