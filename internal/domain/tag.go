package domain

// Tag is a reusable ticket label from the catalog.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}
