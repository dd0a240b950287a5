// Package service contains the application use cases. It orchestrates
// domain objects, the store interfaces and the job broker to fulfill
// the note-summarization features, and owns the authorization decisions
// the HTTP layer enforces.
//
// Services receive their dependencies through constructor injection and
// translate store errors into service-level sentinel errors the API
// layer maps to HTTP status codes.
package service
