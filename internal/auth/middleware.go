package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/session"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

const (
	principalKey = "auth_principal"
	guardKey     = "auth_guard"
	sessionIDKey = "auth_session_id"
)

// SessionMiddleware validates bearer tokens and resolves the guard behind
// the token's session id.
type SessionMiddleware struct {
	tokens   *TokenManager
	registry *session.Registry
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, registry *session.Registry) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, registry: registry}
}

// Handle enforces an authenticated admin session for protected routes. It
// waits for the guard to settle before deciding, so a request issued right
// after login is not rejected while the role check is still in flight.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	guard, ok := m.registry.Lookup(claims.SessionID)
	if !ok {
		return apperrors.NewUnauthorized("session expired")
	}

	snap, err := guard.AwaitSnapshot(c.UserContext())
	if err != nil {
		return apperrors.NewUnauthorized("session unavailable")
	}
	if snap.User == nil {
		return apperrors.NewUnauthorized("signed out")
	}

	c.Locals(principalKey, &snap)
	c.Locals(guardKey, guard)
	c.Locals(sessionIDKey, claims.SessionID)
	return c.Next()
}

// RequireAdmin gates a route on the guard-resolved admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, ok := SnapshotFromContext(c)
		if !ok || snap.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !snap.IsAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// SnapshotFromContext retrieves the session view for the request.
func SnapshotFromContext(c *fiber.Ctx) (*session.Snapshot, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	snap, ok := val.(*session.Snapshot)
	return snap, ok
}

// GuardFromContext retrieves the live guard for the request's session.
func GuardFromContext(c *fiber.Ctx) (*session.Guard, bool) {
	val := c.Locals(guardKey)
	if val == nil {
		return nil, false
	}
	guard, ok := val.(*session.Guard)
	return guard, ok
}

// SessionIDFromContext retrieves the session id for the request.
func SessionIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(sessionIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
