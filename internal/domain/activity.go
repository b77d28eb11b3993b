package domain

import "time"

// ActivityAction captures what kind of change an activity entry records.
type ActivityAction string

const (
	ActionTicketCreate    ActivityAction = "TICKET_CREATE"
	ActionStatusUpdate    ActivityAction = "STATUS_UPDATE"
	ActionAssigneeUpdate  ActivityAction = "ASSIGNEE_UPDATE"
	ActionTagsUpdate      ActivityAction = "TAGS_UPDATE"
	ActionChecklistUpdate ActivityAction = "CHECKLIST_UPDATE"
	ActionColumnEdit      ActivityAction = "COLUMN_EDIT"
	ActionInviteSent      ActivityAction = "INVITE_SENT"
	ActionMemberRemoved   ActivityAction = "MEMBER_REMOVED"
	ActionThemeUpdate     ActivityAction = "THEME_UPDATE"
	ActionLogoUpdate      ActivityAction = "LOGO_UPDATE"
	ActionKnowledgeUpload ActivityAction = "KNOWLEDGE_UPLOAD"
)

// ActivityEntry is an immutable system log line.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Action    ActivityAction `json:"action"`
	Target    string         `json:"target"`
	Actor     string         `json:"user"`
	Timestamp time.Time      `json:"timestamp"`
	Details   string         `json:"details,omitempty"`
}
