package domain

import "time"

// KnowledgeDocument describes an internal document fed to the advisor.
type KnowledgeDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SizeBytes  int       `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Script is a canned customer response.
type Script struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}
