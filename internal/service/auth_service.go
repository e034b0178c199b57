package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/config"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/repository"
)

// AuthService owns account bootstrap for the admin surface. Session flows
// themselves live in the per-session guard; this service only guarantees
// that a default admin identity exists.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
	admin      config.AdminConfig
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, roles repository.RoleRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		bcryptCost: cfg.Auth.BcryptCost,
		admin:      cfg.Admin,
		logger:     logger,
	}
}

// EnsureDefaultAdmin idempotently creates the configured default admin user
// and grants it the admin role. Returns whether a new account was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	if s.admin.Email == "" {
		return false, nil
	}

	existing, err := s.users.GetByEmail(ctx, s.admin.Email)
	if err == nil {
		// Account exists; the role grant is idempotent.
		if err := s.roles.Grant(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(s.admin.Password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	user := &domain.User{Email: s.admin.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	if err := s.roles.Grant(ctx, user.ID, domain.RoleAdmin); err != nil {
		return false, err
	}

	s.logger.Info("default admin created", zap.String("email", s.admin.Email))
	return true, nil
}
