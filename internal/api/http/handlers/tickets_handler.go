package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages board and ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	board   *service.BoardService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, boardService *service.BoardService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, board: boardService}
}

// Board GET /api/board.
func (h *TicketsHandler) Board(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Board(c.UserContext())})
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tags, err := h.resolveTags(c, req.TagIDs)
	if err != nil {
		return err
	}
	checklist := make([]domain.ChecklistItem, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		if item = strings.TrimSpace(item); item != "" {
			checklist = append(checklist, domain.ChecklistItem{Text: item})
		}
	}

	input := desk.TicketInput{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		Source:       req.Source,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Level:        req.Level,
		Urgency:      req.Urgency,
		Tags:         tags,
		Checklist:    checklist,
		AssigneeID:   req.AssigneeID,
	}
	if req.CreatedAt != nil {
		input.CreatedAt = *req.CreatedAt
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	var query dto.TicketListQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	filter := desk.TicketFilter{
		Status:     query.Status,
		AssigneeID: query.Assignee,
		TagID:      query.Tag,
		Urgency:    domain.Urgency(query.Urgency),
		Search:     query.Search,
	}
	return c.JSON(fiber.Map{"data": h.service.ListTickets(c.UserContext(), filter)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign PATCH /api/tickets/:id/assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.Assign(c.UserContext(), c.Params("id"), strings.TrimSpace(req.MemberID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddTag POST /api/tickets/:id/tags.
func (h *TicketsHandler) AddTag(c *fiber.Ctx) error {
	var req dto.AddTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticketID := c.Params("id")

	if req.TagID != "" {
		ticket, err := h.service.AddTag(c.UserContext(), ticketID, req.TagID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": ticket})
	}
	if strings.TrimSpace(req.Label) == "" {
		return apperrors.NewValidationError("tag_id or label required", nil)
	}
	if _, err := h.board.CreateTag(c.UserContext(), req.Label, req.Color, ticketID); err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// RemoveTag DELETE /api/tickets/:id/tags/:tagID.
func (h *TicketsHandler) RemoveTag(c *fiber.Ctx) error {
	ticket, err := h.service.RemoveTag(c.UserContext(), c.Params("id"), c.Params("tagID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// ToggleChecklistItem POST /api/tickets/:id/checklist/:index/toggle.
func (h *TicketsHandler) ToggleChecklistItem(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return apperrors.NewValidationError("index must be an integer", map[string]any{"index": c.Params("index")})
	}
	ticket, changed, err := h.service.ToggleChecklistItem(c.UserContext(), c.Params("id"), index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": ticket,
		"meta": dto.ChecklistToggleResponse{Changed: changed},
	})
}

func (h *TicketsHandler) resolveTags(c *fiber.Ctx, ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	catalog := make(map[string]domain.Tag)
	for _, tag := range h.board.Tags(c.UserContext()) {
		catalog[tag.ID] = tag
	}
	tags := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := catalog[id]
		if !ok {
			return nil, apperrors.NewNotFound("tag", map[string]any{"tag_id": id})
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
