package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simplificateurs/advisory-api/internal/api/dto"
	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/service"
)

// TeamHandler exposes the public team directory.
type TeamHandler struct {
	team *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(team *service.TeamService) *TeamHandler {
	return &TeamHandler{team: team}
}

// List handles GET /team. ?tier=leaders or ?tier=advisors narrows the pool.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	members, err := h.team.ListMembers(c.UserContext())
	if err != nil {
		return err
	}

	switch c.Query("tier") {
	case "leaders":
		members = domain.Leaders(members)
	case "advisors":
		members = domain.NonLeaders(members)
	}

	resp := make([]dto.TeamMemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, memberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetBySlug handles GET /team/:slug for the advisor profile page.
func (h *TeamHandler) GetBySlug(c *fiber.Ctx) error {
	member, err := h.team.GetMemberBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(member)})
}

func memberResponse(member *domain.Advisor) dto.TeamMemberResponse {
	return dto.TeamMemberResponse{
		ID:           member.ID,
		Slug:         member.Slug,
		Name:         member.Name,
		Role:         member.Role,
		Email:        member.Email,
		PhotoURL:     member.PhotoURL,
		IsLeader:     member.IsLeader,
		Description:  member.Description,
		Phone:        member.Phone,
		LinkedIn:     member.LinkedIn,
		Facebook:     member.Facebook,
		DisplayOrder: member.DisplayOrder,
		CreatedAt:    member.CreatedAt,
		UpdatedAt:    member.UpdatedAt,
	}
}
