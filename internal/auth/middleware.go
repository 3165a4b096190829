package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"parent-products/internal/admin"
)

// AuthMiddleware returns a Fiber middleware that validates JWT tokens
// and sets the UserContext on the request.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return admin.UnauthorizedError("Missing auth token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return admin.UnauthorizedError("Invalid auth header format")
		}

		claims, err := ParseAccessToken(parts[1], secret)
		if err != nil {
			return admin.UnauthorizedError("Invalid or expired token")
		}

		user := &UserContext{ID: claims.Subject, Roles: claims.Roles}
		c.Locals("user", user)
		c.SetUserContext(WithUser(c.UserContext(), user))

		return c.Next()
	}
}

// ResourceChecker reports whether the user on the context may use an ACL resource.
type ResourceChecker interface {
	IsAllowed(ctx context.Context, resource string) bool
}

// RequireResource rejects requests whose user is not allowed the given ACL resource.
func RequireResource(acl ResourceChecker, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return admin.UnauthorizedError("Missing auth token")
		}
		if !acl.IsAllowed(c.UserContext(), resource) {
			return admin.ForbiddenError("Access to " + resource + " denied")
		}
		return c.Next()
	}
}

// GetUser extracts the UserContext from a Fiber context.
func GetUser(c *fiber.Ctx) *UserContext {
	user, _ := c.Locals("user").(*UserContext)
	return user
}
