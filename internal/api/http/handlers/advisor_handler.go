package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
)

// AdvisorHandler exposes protocol advice and the knowledge hub.
type AdvisorHandler struct {
	advisor   *service.AdvisorService
	knowledge *service.KnowledgeService
}

// NewAdvisorHandler constructs handler.
func NewAdvisorHandler(advisor *service.AdvisorService, knowledge *service.KnowledgeService) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor, knowledge: knowledge}
}

// Advise POST /api/advisor. Any failure yields data: null.
func (h *AdvisorHandler) Advise(c *fiber.Ctx) error {
	var req dto.AdviceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	advice := h.advisor.GetAdvice(c.UserContext(), req.Situation)
	if advice == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": advice})
}

// Documents GET /api/knowledge/documents.
func (h *AdvisorHandler) Documents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.knowledge.Documents(c.UserContext())})
}

// UploadDocument POST /api/knowledge/documents.
func (h *AdvisorHandler) UploadDocument(c *fiber.Ctx) error {
	var req dto.UploadDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	doc, err := h.knowledge.Upload(c.UserContext(), req.Name, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": doc})
}

// ClearDocuments DELETE /api/knowledge/documents?confirm=true.
func (h *AdvisorHandler) ClearDocuments(c *fiber.Ctx) error {
	if err := requireConfirm(c, "clear knowledge"); err != nil {
		return err
	}
	removed := h.knowledge.Clear(c.UserContext())
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": removed}})
}

// Scripts GET /api/knowledge/scripts?tag=.
func (h *AdvisorHandler) Scripts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.knowledge.Scripts(c.UserContext(), c.Query("tag"))})
}
