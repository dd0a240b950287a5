package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brevio/brevio-api/internal/api/shared"
	"github.com/brevio/brevio-api/internal/domain"
)

// NoteService is the application surface the note handlers depend on.
type NoteService interface {
	CreateNote(ctx context.Context, principal domain.Principal, rawText string) (*domain.Note, error)
	GetNote(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.Note, error)
	ListNotes(ctx context.Context, principal domain.Principal) ([]*domain.Note, error)
	DeleteNote(ctx context.Context, principal domain.Principal, id uuid.UUID) error
}

// NoteHandler handles note-related API requests.
type NoteHandler struct {
	noteService NoteService
	validator   *validator.Validate
}

// NewNoteHandler creates a new NoteHandler with the given dependencies.
func NewNoteHandler(noteService NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		validator:   validator.New(),
	}
}

// Create handles POST /notes. The note is accepted for asynchronous
// summarization; the response carries status queued, or failed when the
// job could not be enqueued. Either way the submission succeeds with 201.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.GetPrincipal(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), principal, req.RawText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewNoteResponse(note))
}

// List handles GET /notes: every note for admins, owned notes otherwise.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.GetPrincipal(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	notes, err := h.noteService.ListNotes(r.Context(), principal)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewNoteListResponse(notes))
}

// Get handles GET /notes/{id}. A note that exists but belongs to someone
// else yields 403, an absent note 404.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.GetPrincipal(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	note, err := h.noteService.GetNote(r.Context(), principal, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewNoteResponse(note))
}

// Delete handles DELETE /notes/{id} with the same visibility rule as Get.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.GetPrincipal(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), principal, id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "note deleted",
	})
}
