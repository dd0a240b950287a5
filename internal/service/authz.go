package service

import "github.com/brevio/brevio-api/internal/domain"

// Decision is the outcome of an authorization check.
type Decision int

// Possible authorization decisions
const (
	// Allow grants the principal access to the resource.
	Allow Decision = iota

	// Forbidden denies access to a resource the principal can name but
	// not act on. Callers translate this to a response that reveals the
	// resource exists.
	Forbidden
)

// CanAccess is the single authorization rule for notes: admins may act
// on any note, everyone else only on notes they own. Every read and
// delete path goes through this check so the rule cannot drift between
// endpoints.
func CanAccess(principal domain.Principal, note *domain.Note) Decision {
	if principal.IsAdmin() {
		return Allow
	}
	if note.OwnerID == principal.ID {
		return Allow
	}
	return Forbidden
}
