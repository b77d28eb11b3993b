package domain

import "time"

// NotificationType differentiates feed entries.
type NotificationType string

const (
	NotificationAssignment NotificationType = "ASSIGNMENT"
	NotificationMention    NotificationType = "MENTION"
	NotificationSLAWarning NotificationType = "SLA_WARNING"
	NotificationSystem     NotificationType = "SYSTEM"
)

// Notification is an entry in the agent's feed.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
	Link      string           `json:"link,omitempty"`
}
