package http

import (
	"context"
	"net/http"

	"github.com/TronCM143/ISTAK/internal/domain/user"
	"github.com/TronCM143/ISTAK/internal/shared/middleware"
)

// ScopeResolver turns the authenticated user ID stored in the request
// context into a full tenant scope. The user row is loaded on every request
// so a revoked account or reassigned manager takes effect immediately.
type ScopeResolver struct {
	users user.Repository
}

func NewScopeResolver(users user.Repository) *ScopeResolver {
	return &ScopeResolver{users: users}
}

func (r *ScopeResolver) Resolve(ctx context.Context) (user.Scope, error) {
	userID, ok := ctx.Value(middleware.UserIDKey).(int64)
	if !ok {
		return user.Scope{}, user.ErrNotFound
	}

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return user.Scope{}, err
	}
	if u == nil {
		return user.Scope{}, user.ErrNotFound
	}
	return user.ScopeFor(u)
}

// resolveScope loads the caller's scope or writes the failure response.
func (r *ScopeResolver) resolveScope(w http.ResponseWriter, req *http.Request) (user.Scope, bool) {
	scope, err := r.Resolve(req.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return user.Scope{}, false
	}
	return scope, true
}
