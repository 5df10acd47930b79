// Package authz decides whether an actor may operate on an account.
package authz

import "bankaccount/internal/models"

// Actor is the identity making the current call, resolved from verified token
// claims before any service is invoked.
type Actor struct {
	UserID uint
	Role   models.Role
}

func FromClaims(claims *models.UserClaims) Actor {
	return Actor{UserID: claims.UserID, Role: claims.Role}
}

// IsAdmin reports whether the actor's implied roles include ADMIN.
func (a Actor) IsAdmin() bool {
	return a.hasRole(models.RoleAdmin)
}

// IsOwner reports whether the actor owns the account.
func (a Actor) IsOwner(account *models.Account) bool {
	return account != nil && account.UserID == a.UserID
}

// CanOperate is the money-movement gate: owner or admin.
func (a Actor) CanOperate(account *models.Account) bool {
	return a.IsOwner(account) || a.IsAdmin()
}

func (a Actor) hasRole(role models.Role) bool {
	for _, r := range a.Role.Implied() {
		if r == role {
			return true
		}
	}
	return false
}
