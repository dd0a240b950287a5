package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brevio/brevio-api/internal/domain"
)

func ownedNote(t *testing.T, ownerID uuid.UUID) *domain.Note {
	t.Helper()
	note, err := domain.NewNote(ownerID, "Some raw text.")
	require.NoError(t, err)
	return note
}

func TestCanAccess(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	note := ownedNote(t, ownerID)

	t.Run("owner may access", func(t *testing.T) {
		t.Parallel()

		principal := domain.Principal{ID: ownerID, Role: domain.RoleAgent}
		assert.Equal(t, Allow, CanAccess(principal, note))
	})

	t.Run("admin may access any note", func(t *testing.T) {
		t.Parallel()

		principal := domain.Principal{ID: uuid.New(), Role: domain.RoleAdmin}
		assert.Equal(t, Allow, CanAccess(principal, note))
	})

	t.Run("other agent is forbidden", func(t *testing.T) {
		t.Parallel()

		principal := domain.Principal{ID: uuid.New(), Role: domain.RoleAgent}
		assert.Equal(t, Forbidden, CanAccess(principal, note))
	})

	t.Run("worker role carries no extra privilege", func(t *testing.T) {
		t.Parallel()

		principal := domain.Principal{ID: uuid.New(), Role: domain.RoleWorker}
		assert.Equal(t, Forbidden, CanAccess(principal, note))
	})
}
