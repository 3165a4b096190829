package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"parent-products/internal/admin"
	"parent-products/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store     *store.Store
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s *store.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: s, jwtSecret: jwtSecret}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return admin.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return admin.UnauthorizedError("Email and password are required")
	}

	ctx := c.UserContext()

	user, err := h.findUserByEmail(ctx, body.Email)
	if err != nil {
		return admin.UnauthorizedError("Invalid email or password")
	}
	if !cast.ToBool(user["active"]) {
		return admin.UnauthorizedError("Account is disabled")
	}
	if !CheckPassword(body.Password, cast.ToString(user["password_hash"])) {
		return admin.UnauthorizedError("Invalid email or password")
	}

	roles, err := h.store.Dialect.ScanArray(user["roles"])
	if err != nil {
		return err
	}

	pair, err := h.generateTokenPair(ctx, cast.ToString(user["id"]), roles)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pair})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return admin.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return admin.UnauthorizedError("Refresh token is required")
	}

	ctx := c.UserContext()
	ph := h.store.Dialect.Placeholder

	row, err := store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		`SELECT rt.id, rt.user_id, rt.expires_at, u.roles, u.active
		 FROM admin_refresh_token rt
		 JOIN admin_user u ON u.id = rt.user_id
		 WHERE rt.token = %s`, ph(1)), body.RefreshToken)
	if err != nil {
		return admin.UnauthorizedError("Invalid refresh token")
	}

	expiresAt, err := cast.ToTimeE(row["expires_at"])
	if err != nil || time.Now().After(expiresAt) {
		_, _ = store.Exec(ctx, h.store.DB,
			fmt.Sprintf("DELETE FROM admin_refresh_token WHERE token = %s", ph(1)), body.RefreshToken)
		return admin.UnauthorizedError("Refresh token expired")
	}
	if !cast.ToBool(row["active"]) {
		return admin.UnauthorizedError("Account is disabled")
	}

	// Rotation: a refresh token is single use.
	_, _ = store.Exec(ctx, h.store.DB,
		fmt.Sprintf("DELETE FROM admin_refresh_token WHERE id = %s", ph(1)), cast.ToString(row["id"]))

	roles, err := h.store.Dialect.ScanArray(row["roles"])
	if err != nil {
		return err
	}

	pair, err := h.generateTokenPair(ctx, cast.ToString(row["user_id"]), roles)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pair})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return admin.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return admin.UnauthorizedError("Refresh token is required")
	}

	_, _ = store.Exec(c.UserContext(), h.store.DB,
		fmt.Sprintf("DELETE FROM admin_refresh_token WHERE token = %s", h.store.Dialect.Placeholder(1)),
		body.RefreshToken)

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) findUserByEmail(ctx context.Context, email string) (map[string]any, error) {
	return store.QueryRow(ctx, h.store.DB, fmt.Sprintf(
		"SELECT id, email, password_hash, roles, active FROM admin_user WHERE email = %s",
		h.store.Dialect.Placeholder(1)), email)
}

func (h *AuthHandler) generateTokenPair(ctx context.Context, userID string, roles []string) (*TokenPair, error) {
	accessToken, err := GenerateAccessToken(userID, roles, h.jwtSecret)
	if err != nil {
		return nil, err
	}

	refreshToken := GenerateRefreshToken()
	pb := h.store.Dialect.NewParamBuilder()
	sql := fmt.Sprintf("INSERT INTO admin_refresh_token (id, user_id, token, expires_at) VALUES (%s, %s, %s, %s)",
		pb.Add(uuid.New().String()), pb.Add(userID), pb.Add(refreshToken),
		pb.Add(time.Now().Add(RefreshTokenTTL).UTC()))
	if _, err := store.Exec(ctx, h.store.DB, sql, pb.Params()...); err != nil {
		log.WithField("user_id", userID).Errorf("store refresh token: %v", err)
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RegisterAuthRoutes registers auth routes on the given Fiber app.
func RegisterAuthRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/auth")
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
}
