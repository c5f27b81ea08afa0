// Package policy implements the role-based access rules evaluated on every
// authenticated request. A Policy decides allow/deny for one actor, one
// resource owner and one action; denial maps to 403 at the HTTP layer,
// distinct from the 401 returned when no valid token was presented.
package policy

import "campus-identity/internal/adapters/persistence/models"

// Action is a capability requested on a resource
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
)

// Actor is the authenticated identity a policy is evaluated against
type Actor struct {
	UserID uint
	Role   string
}

// Policy decides whether actor may perform action on a resource owned by ownerID
type Policy interface {
	Allow(actor Actor, ownerID uint, action Action) bool
}

// AdminAll grants admins full access to all resources
type AdminAll struct{}

func (AdminAll) Allow(actor Actor, _ uint, _ Action) bool {
	return actor.Role == models.RoleAdmin
}

// OwnerOnly grants full access to the resource owner, nobody else
type OwnerOnly struct{}

func (OwnerOnly) Allow(actor Actor, ownerID uint, _ Action) bool {
	return actor.UserID == ownerID
}

// OwnerOrAdmin grants full access to the owner and to admins
type OwnerOrAdmin struct{}

func (OwnerOrAdmin) Allow(actor Actor, ownerID uint, action Action) bool {
	return AdminAll{}.Allow(actor, ownerID, action) || OwnerOnly{}.Allow(actor, ownerID, action)
}

// RoleGate grants access only to actors holding the required role
type RoleGate struct {
	Role string
}

func (p RoleGate) Allow(actor Actor, _ uint, _ Action) bool {
	return actor.Role == p.Role
}

// ReadOnlyUnlessAdmin lets any authenticated actor read; writes and deletes
// are admin-only
type ReadOnlyUnlessAdmin struct{}

func (ReadOnlyUnlessAdmin) Allow(actor Actor, ownerID uint, action Action) bool {
	if action == ActionRead {
		return true
	}
	return AdminAll{}.Allow(actor, ownerID, action)
}

// ListScope reports how a user listing must be scoped for actor: admins see
// everything, everyone else is degraded to a result set containing only
// themselves rather than being denied.
func ListScope(actor Actor) (all bool, selfID uint) {
	if actor.Role == models.RoleAdmin {
		return true, 0
	}
	return false, actor.UserID
}
