package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/events"
	"github.com/simplificateurs/advisory-api/internal/repository"
	"github.com/simplificateurs/advisory-api/internal/rotation"
	"github.com/simplificateurs/advisory-api/internal/session"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// AdvisorPool supplies the ordered pool the assigner cycles through.
type AdvisorPool interface {
	ListMembers(ctx context.Context) ([]domain.Advisor, error)
}

// AppointmentService routes consultation requests to advisors and persists
// the resulting lead.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	pool         AdvisorPool
	assigner     *rotation.Assigner
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// AppointmentDependencies bundles collaborator requirements.
type AppointmentDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	Pool            AdvisorPool
	Assigner        *rotation.Assigner
	Dispatcher      events.Dispatcher
}

// NewAppointmentService creates the service.
func NewAppointmentService(deps AppointmentDependencies, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: deps.AppointmentRepo,
		pool:         deps.Pool,
		assigner:     deps.Assigner,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
	}
}

// Assignment is the outcome of a submitted request: the stored lead and the
// advisor it was routed to.
type Assignment struct {
	Appointment *domain.Appointment
	Advisor     domain.Advisor
}

// Submit validates the request, assigns an advisor and persists the lead.
// An explicit valid advisor preference wins; anything else goes through the
// shared rotation over the full ordered pool.
func (s *AppointmentService) Submit(ctx context.Context, req domain.AppointmentRequest) (*Assignment, error) {
	if err := validateAppointment(req); err != nil {
		return nil, err
	}

	pool, err := s.pool.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	pick, err := s.assigner.Next(pool, strings.TrimSpace(req.AdvisorSlug))
	if err != nil {
		if errors.Is(err, rotation.ErrNoAdvisorsAvailable) {
			return nil, apperrors.NewConflict("no advisors available", nil)
		}
		return nil, apperrors.MapError(err)
	}

	assignedVia := domain.AssignmentRotation
	if pick.Explicit {
		assignedVia = domain.AssignmentExplicit
	}

	appointment := &domain.Appointment{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Service:     strings.TrimSpace(req.Service),
		Message:     req.Message,
		AdvisorID:   pick.Advisor.ID,
		AdvisorSlug: pick.Advisor.Slug,
		AssignedVia: assignedVia,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.EventAppointmentReceived, appointment.ID, events.AppointmentReceivedPayload{
		Service:     appointment.Service,
		AdvisorSlug: appointment.AdvisorSlug,
		Email:       appointment.Email,
	})
	publishEvent(ctx, s.dispatcher, events.EventLeadAssigned, appointment.ID, events.LeadAssignedPayload{
		AdvisorID:    pick.Advisor.ID,
		AdvisorSlug:  pick.Advisor.Slug,
		AdvisorEmail: pick.Advisor.Email,
		AssignedVia:  assignedVia,
	})

	s.logger.Info("appointment assigned",
		zap.String("appointment_id", appointment.ID),
		zap.String("advisor_slug", appointment.AdvisorSlug),
		zap.String("assigned_via", string(assignedVia)),
	)
	return &Assignment{Appointment: appointment, Advisor: pick.Advisor}, nil
}

// ListAppointments returns recent leads for the admin panel.
func (s *AppointmentService) ListAppointments(ctx context.Context, actor *session.Snapshot, limit, offset int) ([]domain.Appointment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	result, err := s.appointments.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func validateAppointment(req domain.AppointmentRequest) error {
	details := map[string]any{}
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "required"
	}
	if email := strings.TrimSpace(req.Email); email == "" || !strings.Contains(email, "@") {
		details["email"] = "valid email required"
	}
	if strings.TrimSpace(req.Service) == "" {
		details["service"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid appointment request", details)
	}
	return nil
}
