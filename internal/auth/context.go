package auth

import "context"

// UserContext represents the authenticated admin user, set by AuthMiddleware.
type UserContext struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

// HasRole checks whether the user has a specific role.
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks whether the user has the admin role.
func (u *UserContext) IsAdmin() bool {
	return u.HasRole("admin")
}

type userKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *UserContext {
	u, _ := ctx.Value(userKey{}).(*UserContext)
	return u
}
