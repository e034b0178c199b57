package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/dto"
	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/service"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// AppointmentsHandler covers the public submission endpoint and the admin
// lead listing.
type AppointmentsHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointments *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointments}
}

// Submit handles POST /appointments.
func (h *AppointmentsHandler) Submit(c *fiber.Ctx) error {
	var req dto.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}

	assignment, err := h.appointments.Submit(c.UserContext(), domain.AppointmentRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Service:     req.Service,
		AdvisorSlug: req.Advisor,
		Message:     req.Message,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AppointmentResponse{
		ID: assignment.Appointment.ID,
		Advisor: dto.AssignedAdvisor{
			Slug:  assignment.Advisor.Slug,
			Name:  assignment.Advisor.Name,
			Role:  assignment.Advisor.Role,
			Email: assignment.Advisor.Email,
		},
		AssignedVia: string(assignment.Appointment.AssignedVia),
		CreatedAt:   assignment.Appointment.CreatedAt,
	}})
}

// List handles GET /admin/appointments.
func (h *AppointmentsHandler) List(c *fiber.Ctx) error {
	snapshot, ok := auth.SnapshotFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	records, err := h.appointments.ListAppointments(c.UserContext(), snapshot, limit, offset)
	if err != nil {
		return err
	}

	resp := make([]dto.AppointmentRecord, 0, len(records))
	for _, record := range records {
		resp = append(resp, dto.AppointmentRecord{
			ID:          record.ID,
			Name:        record.Name,
			Email:       record.Email,
			Phone:       record.Phone,
			Service:     record.Service,
			Message:     record.Message,
			AdvisorSlug: record.AdvisorSlug,
			AssignedVia: string(record.AssignedVia),
			CreatedAt:   record.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
