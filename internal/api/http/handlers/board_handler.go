package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// BoardHandler exposes column and tag catalog endpoints.
type BoardHandler struct {
	service *service.BoardService
}

// NewBoardHandler constructs handler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{service: boardService}
}

// Columns GET /api/columns.
func (h *BoardHandler) Columns(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Columns(c.UserContext())})
}

// AddColumn POST /api/columns.
func (h *BoardHandler) AddColumn(c *fiber.Ctx) error {
	var req dto.ColumnRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	col, err := h.service.AddColumn(c.UserContext(), req.Label, req.Color)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": col})
}

// RenameColumn PATCH /api/columns/:key.
func (h *BoardHandler) RenameColumn(c *fiber.Ctx) error {
	var req dto.ColumnRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	col, err := h.service.RenameColumn(c.UserContext(), c.Params("key"), req.Label)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": col})
}

// DeleteColumn DELETE /api/columns/:key?confirm=true.
func (h *BoardHandler) DeleteColumn(c *fiber.Ctx) error {
	if err := requireConfirm(c, "delete column"); err != nil {
		return err
	}
	migrated, err := h.service.DeleteColumn(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"deleted":  c.Params("key"),
		"migrated": migrated,
	}})
}

// ReorderColumns POST /api/columns/reorder.
func (h *BoardHandler) ReorderColumns(c *fiber.Ctx) error {
	var req dto.ReorderColumnsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.From == "" || req.To == "" {
		return apperrors.NewValidationError("from and to required", nil)
	}
	moved := h.service.ReorderColumns(c.UserContext(), req.From, req.To)
	return c.JSON(fiber.Map{
		"data": h.service.Columns(c.UserContext()),
		"meta": fiber.Map{"moved": moved},
	})
}

// Tags GET /api/tags.
func (h *BoardHandler) Tags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Tags(c.UserContext())})
}

// CreateTag POST /api/tags.
func (h *BoardHandler) CreateTag(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tag, err := h.service.CreateTag(c.UserContext(), req.Label, req.Color, req.TicketID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": tag})
}
