package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/service"
)

// FeedHandler serves notifications, the activity log and the dashboard.
type FeedHandler struct {
	notifications *service.NotificationService
	activity      *service.ActivityService
	dashboard     *service.DashboardService
	activityLimit int
}

// NewFeedHandler constructs handler.
func NewFeedHandler(notifications *service.NotificationService, activity *service.ActivityService, dashboard *service.DashboardService, activityLimit int) *FeedHandler {
	return &FeedHandler{
		notifications: notifications,
		activity:      activity,
		dashboard:     dashboard,
		activityLimit: activityLimit,
	}
}

// Notifications GET /api/notifications.
func (h *FeedHandler) Notifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.JSON(fiber.Map{
		"data": h.notifications.List(ctx),
		"meta": fiber.Map{"unread": h.notifications.UnreadCount(ctx)},
	})
}

// MarkRead POST /api/notifications/:id/read.
func (h *FeedHandler) MarkRead(c *fiber.Ctx) error {
	item, err := h.notifications.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": item})
}

// MarkAllRead POST /api/notifications/read-all.
func (h *FeedHandler) MarkAllRead(c *fiber.Ctx) error {
	changed := h.notifications.MarkAllRead(c.UserContext())
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": changed}})
}

// Activity GET /api/activity?limit=.
func (h *FeedHandler) Activity(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), h.activityLimit)
	entries, err := h.activity.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Dashboard GET /api/dashboard.
func (h *FeedHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.dashboard.Summary(c.UserContext())})
}
