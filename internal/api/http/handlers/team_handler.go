package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
)

// TeamHandler exposes team administration.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{service: teamService}
}

// Members GET /api/team.
func (h *TeamHandler) Members(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Members(c.UserContext())})
}

// Invite POST /api/team/invite.
func (h *TeamHandler) Invite(c *fiber.Ctx) error {
	var req dto.InviteMemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	member, err := h.service.Invite(c.UserContext(), req.Email, domain.MemberRole(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": member})
}

// Remove DELETE /api/team/:id?confirm=true.
func (h *TeamHandler) Remove(c *fiber.Ctx) error {
	if err := requireConfirm(c, "remove member"); err != nil {
		return err
	}
	unassigned, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"removed":    c.Params("id"),
		"unassigned": unassigned,
	}})
}
