package service

import "errors"

// Common service errors. Callers check these with errors.Is(); the API
// layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates the resource exists but the requesting
	// principal may not act on it. The API layer maps this to 403, kept
	// distinct from 404 so callers can tell denial from absence.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNoteNotFound indicates the requested note does not exist.
	// The API layer maps this to 404.
	ErrNoteNotFound = errors.New("note not found")
)
