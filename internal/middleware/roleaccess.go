package middleware

import (
	"net/http"

	"contacts_project/internal/domain"
	"contacts_project/internal/httperr"
)

// RoleAccess is an authorization guard bound to a fixed set of permitted
// roles. One instance guards one logical operation. The check runs on every
// request against the user resolved by Auth and keeps no state between
// requests.
type RoleAccess struct {
	allowed []domain.Role
}

func NewRoleAccess(roles ...domain.Role) *RoleAccess {
	return &RoleAccess{allowed: roles}
}

func (ra *RoleAccess) Allows(role domain.Role) bool {
	for _, r := range ra.allowed {
		if r == role {
			return true
		}
	}
	return false
}

func (ra *RoleAccess) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			httperr.Write(w, httperr.ErrUnauthorized)
			return
		}
		if !ra.Allows(user.Role) {
			httperr.Write(w, httperr.ErrForbidden.WithDetail("operation is not permitted for role "+string(user.Role)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
