package domain

import "time"

// Built-in column keys. Open and resolved are protected from deletion.
const (
	StatusOpen            = "open"
	StatusInProgress      = "in_progress"
	StatusWaitingCustomer = "waiting_customer"
	StatusResolved        = "resolved"
	StatusClosed          = "closed"
)

// TicketSource enumerates the channel a ticket arrived through.
type TicketSource string

const (
	SourceWhatsApp TicketSource = "whatsapp"
	SourceEmail    TicketSource = "email"
	SourceManual   TicketSource = "manual"
)

// Valid reports whether s is a known source.
func (s TicketSource) Valid() bool {
	switch s {
	case SourceWhatsApp, SourceEmail, SourceManual:
		return true
	}
	return false
}

// SupportLevel enumerates the four support tiers, lowest first.
type SupportLevel string

const (
	LevelSelfService SupportLevel = "L0"
	LevelBasic       SupportLevel = "L1"
	LevelTechnical   SupportLevel = "L2"
	LevelEngineering SupportLevel = "L3"
)

// Valid reports whether l is a known level.
func (l SupportLevel) Valid() bool {
	switch l {
	case LevelSelfService, LevelBasic, LevelTechnical, LevelEngineering:
		return true
	}
	return false
}

// Urgency enumerates SLA urgency tiers, lowest first.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// ChecklistItem is one protocol step on a ticket.
type ChecklistItem struct {
	Text string `json:"item"`
	Done bool   `json:"completed"`
}

// Ticket is the aggregate for customer support work on the board.
type Ticket struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	PhoneNumber  string          `json:"phoneNumber,omitempty"`
	Source       TicketSource    `json:"source,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	Level        SupportLevel    `json:"level"`
	Urgency      Urgency         `json:"urgency"`
	CreatedAt    time.Time       `json:"createdAt"`
	Tags         []Tag           `json:"tags"`
	Checklist    []ChecklistItem `json:"checklist"`
	Assignee     *TeamMember     `json:"assignee,omitempty"`
}

// Clone returns a deep copy so callers cannot alias store state.
func (t Ticket) Clone() Ticket {
	out := t
	out.Tags = append([]Tag(nil), t.Tags...)
	out.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	if out.Checklist == nil {
		out.Checklist = []ChecklistItem{}
	}
	if t.Assignee != nil {
		member := *t.Assignee
		out.Assignee = &member
	}
	return out
}

// HasTag reports whether a tag with the given id is attached.
func (t Ticket) HasTag(tagID string) bool {
	for _, tag := range t.Tags {
		if tag.ID == tagID {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the status ends SLA tracking.
func IsTerminalStatus(status string) bool {
	return status == StatusResolved || status == StatusClosed
}
