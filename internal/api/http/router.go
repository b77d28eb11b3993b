package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Board    *handlers.BoardHandler
	Team     *handlers.TeamHandler
	Settings *handlers.SettingsHandler
	Advisor  *handlers.AdvisorHandler
	Feed     *handlers.FeedHandler
	Events   *handlers.EventsHandler
	Metrics  nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	api := app.Group("/api")
	api.Get("/events", cfg.Events.Stream)
	api.Get("/board", cfg.Tickets.Board)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/assignee", cfg.Tickets.Assign)
	tickets.Post("/:id/tags", cfg.Tickets.AddTag)
	tickets.Delete("/:id/tags/:tagID", cfg.Tickets.RemoveTag)
	tickets.Post("/:id/checklist/:index/toggle", cfg.Tickets.ToggleChecklistItem)

	columns := api.Group("/columns")
	columns.Get("/", cfg.Board.Columns)
	columns.Post("/", cfg.Board.AddColumn)
	columns.Post("/reorder", cfg.Board.ReorderColumns)
	columns.Patch("/:key", cfg.Board.RenameColumn)
	columns.Delete("/:key", cfg.Board.DeleteColumn)

	api.Get("/tags", cfg.Board.Tags)
	api.Post("/tags", cfg.Board.CreateTag)

	team := api.Group("/team")
	team.Get("/", cfg.Team.Members)
	team.Post("/invite", cfg.Team.Invite)
	team.Delete("/:id", cfg.Team.Remove)

	settings := api.Group("/settings")
	settings.Get("/theme", cfg.Settings.Theme)
	settings.Put("/theme", cfg.Settings.UpdateTheme)
	settings.Delete("/theme", cfg.Settings.ResetTheme)
	settings.Get("/logo", cfg.Settings.Logo)
	settings.Put("/logo", cfg.Settings.SetLogo)
	settings.Delete("/logo", cfg.Settings.RemoveLogo)

	api.Post("/integrations/whatsapp/simulate", cfg.Settings.SimulateWhatsApp)

	api.Post("/advisor", cfg.Advisor.Advise)
	knowledge := api.Group("/knowledge")
	knowledge.Get("/documents", cfg.Advisor.Documents)
	knowledge.Post("/documents", cfg.Advisor.UploadDocument)
	knowledge.Delete("/documents", cfg.Advisor.ClearDocuments)
	knowledge.Get("/scripts", cfg.Advisor.Scripts)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Feed.Notifications)
	notifications.Post("/read-all", cfg.Feed.MarkAllRead)
	notifications.Post("/:id/read", cfg.Feed.MarkRead)

	api.Get("/activity", cfg.Feed.Activity)
	api.Get("/dashboard", cfg.Feed.Dashboard)
}
