package dto

// ColumnRequest creates or renames a column.
type ColumnRequest struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ReorderColumnsRequest moves From into To's position.
type ReorderColumnsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CreateTagRequest adds a catalog tag, optionally attaching it.
type CreateTagRequest struct {
	Label    string `json:"label"`
	Color    string `json:"color"`
	TicketID string `json:"ticket_id"`
}

// InviteMemberRequest invites a team member.
type InviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
