package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/brevio/brevio-api/internal/domain"
)

// Common request/response structures

// SignupRequest defines the payload for the user registration endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// TokenResponse defines the successful response for the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse defines the representation of a user returned on signup.
// Password material is never part of it.
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// CreateNoteRequest defines the payload for submitting a note.
type CreateNoteRequest struct {
	RawText string `json:"raw_text" validate:"required,min=1"`
}

// NoteResponse defines the representation of a note returned by the API.
// Summary is empty unless the note has completed processing.
type NoteResponse struct {
	ID        uuid.UUID         `json:"id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	RawText   string            `json:"raw_text"`
	Summary   string            `json:"summary"`
	Status    domain.NoteStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewNoteResponse builds a NoteResponse from a domain note.
func NewNoteResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		OwnerID:   note.OwnerID,
		RawText:   note.RawText,
		Summary:   note.Summary,
		Status:    note.Status,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// NewNoteListResponse builds the list representation of a set of notes.
func NewNoteListResponse(notes []*domain.Note) []NoteResponse {
	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewNoteResponse(note))
	}
	return responses
}
