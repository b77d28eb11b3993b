package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerName string              `json:"customer_name"`
	PhoneNumber  string              `json:"phone_number"`
	Source       domain.TicketSource `json:"source"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       string              `json:"status"`
	Level        domain.SupportLevel `json:"level"`
	Urgency      domain.Urgency      `json:"urgency"`
	TagIDs       []string            `json:"tag_ids"`
	Checklist    []string            `json:"checklist"`
	AssigneeID   string              `json:"assignee_id"`
	CreatedAt    *time.Time          `json:"created_at"`
}

// TicketListQuery captures list filters.
type TicketListQuery struct {
	Status   string `query:"status"`
	Assignee string `query:"assignee"`
	Tag      string `query:"tag"`
	Urgency  string `query:"urgency"`
	Search   string `query:"search"`
}

// UpdateStatusRequest moves a ticket to a column.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest sets the assignee; an empty member id clears it.
type AssignRequest struct {
	MemberID string `json:"member_id"`
}

// AddTagRequest attaches a catalog tag by id or creates one by label.
type AddTagRequest struct {
	TagID string `json:"tag_id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ChecklistToggleResponse reports whether the toggle changed anything.
type ChecklistToggleResponse struct {
	Changed bool `json:"changed"`
}
