package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/dto"
	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/service"
	"github.com/simplificateurs/advisory-api/internal/session"
	apperrors "github.com/simplificateurs/advisory-api/pkg/util"
)

// AdminTeamHandler exposes team member management to authenticated admins.
type AdminTeamHandler struct {
	team *service.TeamService
}

// NewAdminTeamHandler constructs handler.
func NewAdminTeamHandler(team *service.TeamService) *AdminTeamHandler {
	return &AdminTeamHandler{team: team}
}

// Create handles POST /admin/team-members.
func (h *AdminTeamHandler) Create(c *fiber.Ctx) error {
	actor, err := actorSnapshot(c)
	if err != nil {
		return err
	}

	input, err := memberInput(c)
	if err != nil {
		return err
	}

	member, err := h.team.CreateMember(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": memberResponse(member)})
}

// Update handles PUT /admin/team-members/:id.
func (h *AdminTeamHandler) Update(c *fiber.Ctx) error {
	actor, err := actorSnapshot(c)
	if err != nil {
		return err
	}

	input, err := memberInput(c)
	if err != nil {
		return err
	}

	member, err := h.team.UpdateMember(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(member)})
}

// Delete handles DELETE /admin/team-members/:id.
func (h *AdminTeamHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorSnapshot(c)
	if err != nil {
		return err
	}

	if err := h.team.DeleteMember(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPhoto handles POST /admin/team-members/:id/photo with a multipart
// "photo" file field.
func (h *AdminTeamHandler) UploadPhoto(c *fiber.Ctx) error {
	actor, err := actorSnapshot(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("photo")
	if err != nil {
		return apperrors.NewValidationError("photo file is required", map[string]any{"photo": err.Error()})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("photo file is unreadable", map[string]any{"photo": err.Error()})
	}
	defer file.Close()

	member, err := h.team.UploadPhoto(c.UserContext(), actor, c.Params("id"), header.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(member)})
}

func actorSnapshot(c *fiber.Ctx) (*session.Snapshot, error) {
	snapshot, ok := auth.SnapshotFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return snapshot, nil
}

func memberInput(c *fiber.Ctx) (service.MemberInput, error) {
	var req dto.TeamMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return service.MemberInput{}, apperrors.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	return service.MemberInput{
		Slug:         req.Slug,
		Name:         req.Name,
		Role:         req.Role,
		Email:        req.Email,
		IsLeader:     req.IsLeader,
		Description:  req.Description,
		Phone:        req.Phone,
		LinkedIn:     req.LinkedIn,
		Facebook:     req.Facebook,
		DisplayOrder: req.DisplayOrder,
	}, nil
}
