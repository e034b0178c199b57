package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/cache"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/events"
	"github.com/simplificateurs/advisory-api/internal/repository"
	"github.com/simplificateurs/advisory-api/internal/session"
	"github.com/simplificateurs/advisory-api/internal/storage"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// MemberInput carries team member fields for create/update.
type MemberInput struct {
	Slug         string
	Name         string
	Role         string
	Email        string
	IsLeader     bool
	Description  *string
	Phone        *string
	LinkedIn     *string
	Facebook     *string
	DisplayOrder int
}

// TeamService manages the advisor directory. The persistence layer is the
// source of truth; the Redis list cache is invalidated on every write before
// the next read can observe it.
type TeamService struct {
	advisors   repository.AdvisorRepository
	cache      *cache.AdvisorCache
	photos     storage.PhotoStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TeamDependencies bundles collaborator requirements.
type TeamDependencies struct {
	AdvisorRepo repository.AdvisorRepository
	Cache       *cache.AdvisorCache
	Photos      storage.PhotoStore
	Dispatcher  events.Dispatcher
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies, logger *zap.Logger) *TeamService {
	return &TeamService{
		advisors:   deps.AdvisorRepo,
		cache:      deps.Cache,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func requireAdmin(actor *session.Snapshot) error {
	if actor == nil || actor.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListMembers returns the full ordered pool, reading through the cache.
func (s *TeamService) ListMembers(ctx context.Context) ([]domain.Advisor, error) {
	if members, ok := s.cache.Get(ctx); ok {
		return members, nil
	}
	members, err := s.advisors.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, members)
	return members, nil
}

// GetMemberBySlug fetches one member for the public profile page.
func (s *TeamService) GetMemberBySlug(ctx context.Context, slug string) (*domain.Advisor, error) {
	member, err := s.advisors.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team member", map[string]any{"slug": slug})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}

// CreateMember adds a team member record.
func (s *TeamService) CreateMember(ctx context.Context, actor *session.Snapshot, input MemberInput) (*domain.Advisor, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateMemberInput(input); err != nil {
		return nil, err
	}
	if existing, err := s.advisors.GetBySlug(ctx, input.Slug); err == nil && existing != nil {
		return nil, apperrors.NewConflict("slug already in use", map[string]any{"slug": input.Slug})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	member := memberFromInput(input)
	if err := s.advisors.Create(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	s.publishMemberEvent(ctx, events.EventTeamMemberCreated, member)
	return member, nil
}

// UpdateMember replaces a team member's fields.
func (s *TeamService) UpdateMember(ctx context.Context, actor *session.Snapshot, id string, input MemberInput) (*domain.Advisor, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateMemberInput(input); err != nil {
		return nil, err
	}
	member, err := s.advisors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team member", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if input.Slug != member.Slug {
		if existing, err := s.advisors.GetBySlug(ctx, input.Slug); err == nil && existing != nil && existing.ID != member.ID {
			return nil, apperrors.NewConflict("slug already in use", map[string]any{"slug": input.Slug})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	member.Slug = input.Slug
	member.Name = input.Name
	member.Role = input.Role
	member.Email = input.Email
	member.IsLeader = input.IsLeader
	member.Description = input.Description
	member.Phone = input.Phone
	member.LinkedIn = input.LinkedIn
	member.Facebook = input.Facebook
	member.DisplayOrder = input.DisplayOrder

	if err := s.advisors.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	s.publishMemberEvent(ctx, events.EventTeamMemberUpdated, member)
	return member, nil
}

// DeleteMember removes a team member and any stored photo.
func (s *TeamService) DeleteMember(ctx context.Context, actor *session.Snapshot, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	member, err := s.advisors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team member", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	if err := s.advisors.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	if err := s.photos.Remove(ctx, member.Slug); err != nil {
		s.logger.Warn("photo cleanup failed", zap.String("slug", member.Slug), zap.Error(err))
	}
	s.publishMemberEvent(ctx, events.EventTeamMemberDeleted, member)
	return nil
}

// UploadPhoto stores a photo for the member and records its public URL.
func (s *TeamService) UploadPhoto(ctx context.Context, actor *session.Snapshot, id, filename string, r io.Reader) (*domain.Advisor, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	member, err := s.advisors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team member", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	url, err := s.photos.Save(ctx, member.Slug, filename, r)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	member.PhotoURL = &url
	if err := s.advisors.Update(ctx, member); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	s.publishMemberEvent(ctx, events.EventTeamMemberUpdated, member)
	return member, nil
}

func (s *TeamService) publishMemberEvent(ctx context.Context, eventType events.EventType, member *domain.Advisor) {
	if s.dispatcher == nil {
		return
	}
	publishEvent(ctx, s.dispatcher, eventType, member.ID, events.TeamMemberChangedPayload{
		Slug: member.Slug,
		Name: member.Name,
	})
}

func memberFromInput(input MemberInput) *domain.Advisor {
	return &domain.Advisor{
		Slug:         input.Slug,
		Name:         input.Name,
		Role:         input.Role,
		Email:        input.Email,
		IsLeader:     input.IsLeader,
		Description:  input.Description,
		Phone:        input.Phone,
		LinkedIn:     input.LinkedIn,
		Facebook:     input.Facebook,
		DisplayOrder: input.DisplayOrder,
	}
}

func validateMemberInput(input MemberInput) error {
	details := map[string]any{}
	if input.Slug == "" {
		details["slug"] = "required"
	} else if !validSlug(input.Slug) {
		details["slug"] = "lowercase letters, digits and dashes only"
	}
	if input.Name == "" {
		details["name"] = "required"
	}
	if input.Role == "" {
		details["role"] = "required"
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		details["email"] = "valid email required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid team member", details)
	}
	return nil
}

func validSlug(slug string) bool {
	for _, ch := range slug {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9':
		case ch == '-':
		default:
			return false
		}
	}
	return true
}
