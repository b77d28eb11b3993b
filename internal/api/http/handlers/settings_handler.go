package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
)

// SettingsHandler exposes appearance and branding settings plus the
// simulated chat integration.
type SettingsHandler struct {
	settings *service.SettingsService
	inbound  *service.InboundService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService, inbound *service.InboundService) *SettingsHandler {
	return &SettingsHandler{settings: settings, inbound: inbound}
}

// Theme GET /api/settings/theme.
func (h *SettingsHandler) Theme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.settings.Theme(c.UserContext())})
}

// UpdateTheme PUT /api/settings/theme.
func (h *SettingsHandler) UpdateTheme(c *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	theme, err := h.settings.UpdateTheme(c.UserContext(), domain.ThemeConfig{
		PrimaryColor: req.PrimaryColor,
		SidebarColor: req.SidebarColor,
		BgColor:      req.BgColor,
		FontFamily:   req.FontFamily,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": theme})
}

// ResetTheme DELETE /api/settings/theme.
func (h *SettingsHandler) ResetTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.settings.ResetTheme(c.UserContext())})
}

// Logo GET /api/settings/logo. A missing logo is reported as null.
func (h *SettingsHandler) Logo(c *fiber.Ctx) error {
	logo := h.settings.Logo(c.UserContext())
	if logo == "" {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"data_uri": logo}})
}

// SetLogo PUT /api/settings/logo.
func (h *SettingsHandler) SetLogo(c *fiber.Ctx) error {
	var req dto.LogoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.settings.SetLogo(c.UserContext(), req.DataURI); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"data_uri": h.settings.Logo(c.UserContext())}})
}

// RemoveLogo DELETE /api/settings/logo.
func (h *SettingsHandler) RemoveLogo(c *fiber.Ctx) error {
	h.settings.RemoveLogo(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}

// SimulateWhatsApp POST /api/integrations/whatsapp/simulate.
func (h *SettingsHandler) SimulateWhatsApp(c *fiber.Ctx) error {
	var req dto.SimulateWhatsAppRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.inbound.SimulateWhatsApp(c.UserContext(), req.Phone, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}
