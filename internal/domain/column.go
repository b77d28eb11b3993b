package domain

// Column is a named board status bucket. Key is immutable after creation.
type Column struct {
	Key   string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// DefaultColumns returns the board layout a fresh desk starts with.
func DefaultColumns() []Column {
	return []Column{
		{Key: StatusOpen, Label: "Open", Color: "blue"},
		{Key: StatusInProgress, Label: "In Progress", Color: "yellow"},
		{Key: StatusWaitingCustomer, Label: "Waiting on Customer", Color: "purple"},
		{Key: StatusResolved, Label: "Resolved", Color: "green"},
	}
}
