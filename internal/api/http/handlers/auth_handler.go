package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/dto"
	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/service"
	"github.com/simplificateurs/advisory-api/internal/session"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// AuthHandler manages admin sessions: bootstrap, login, logout, the session
// snapshot, and password changes.
type AuthHandler struct {
	auth     *service.AuthService
	registry *session.Registry
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, registry *session.Registry, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{auth: authService, registry: registry, tokens: tokens}
}

// SetupAdmin handles POST /auth/setup-admin. Creating the default admin is
// idempotent, so repeated calls report whether anything happened.
func (h *AuthHandler) SetupAdmin(c *fiber.Ctx) error {
	created, err := h.auth.EnsureDefaultAdmin(c.UserContext())
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	message := "admin account already configured"
	if created {
		status = fiber.StatusCreated
		message = "admin account created"
	}
	return c.Status(status).JSON(fiber.Map{"data": fiber.Map{
		"created": created,
		"message": message,
	}})
}

// Login handles POST /auth/login. A successful login opens a session-scoped
// guard and returns a bearer token carrying the session id.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	// The guard outlives this request; it is torn down by logout or the
	// idle reaper, not by the request context.
	id, guard := h.registry.Open(context.Background())
	if err := guard.Login(c.UserContext(), email, req.Password); err != nil {
		h.registry.Close(id)
		return apperrors.NewUnauthorized("invalid credentials")
	}

	snapshot, err := guard.AwaitSnapshot(c.UserContext())
	if err != nil {
		h.registry.Close(id)
		return apperrors.MapError(err)
	}
	if snapshot.User == nil {
		h.registry.Close(id)
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(id, snapshot.User.ID)
	if err != nil {
		h.registry.Close(id)
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}})
}

// Logout handles POST /auth/logout. The guard drops its identity before the
// remote sign-out settles, and the session is removed from the registry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	guard, ok := auth.GuardFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	guard.Logout()

	if id, ok := auth.SessionIDFromContext(c); ok {
		h.registry.Close(id)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "signed out"}})
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	snapshot, ok := auth.SnapshotFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	resp := dto.SessionResponse{
		IsAdmin: snapshot.IsAdmin,
		Loading: snapshot.Loading,
	}
	if snapshot.User != nil {
		resp.User = &dto.SessionUser{ID: snapshot.User.ID, Email: snapshot.User.Email}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ChangePassword handles POST /auth/password/change for the signed-in user.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	guard, ok := auth.GuardFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"new_password": "too short"})
	}

	if err := guard.ChangePassword(c.UserContext(), req.NewPassword); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}
