package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventColumnsChanged      EventType = "columns_changed"
	EventLogoChanged         EventType = "logo_changed"
	EventThemeChanged        EventType = "theme_changed"
	EventInboundTicket       EventType = "inbound_ticket"
	EventMemberInvited       EventType = "member_invited"
	EventMemberRemoved       EventType = "member_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New builds an event with a fresh id.
func New(eventType EventType, ticketID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title   string         `json:"title"`
	Status  string         `json:"status"`
	Urgency domain.Urgency `json:"urgency"`
	Source  string         `json:"source"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Field string `json:"field"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	MemberID   string `json:"member_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	Title      string `json:"title"`
}

// ColumnsChangedPayload payload.
type ColumnsChangedPayload struct {
	Operation string `json:"operation"`
	Key       string `json:"key,omitempty"`
	Migrated  int    `json:"migrated,omitempty"`
}

// InboundTicketPayload payload. Ticket is the full hand-off, used when the
// mirror copy cannot be read.
type InboundTicketPayload struct {
	Phone  string         `json:"phone"`
	Title  string         `json:"title"`
	Ticket *domain.Ticket `json:"ticket,omitempty"`
}

// MemberPayload payload for invite and removal.
type MemberPayload struct {
	MemberID   string `json:"member_id"`
	Email      string `json:"email"`
	Unassigned int    `json:"unassigned,omitempty"`
}
