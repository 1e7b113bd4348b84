package model

import (
	"strings"
	"time"
)

// Tag is a project-scoped feedback label like "bug" or "integrations"
type Tag struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id,omitempty"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the tag name with # prefix if not already present
func (t *Tag) DisplayName() string {
	if strings.HasPrefix(t.Name, "#") {
		return t.Name
	}
	return "#" + t.Name
}

// NormalizeTagName trims a leading # and surrounding space
func NormalizeTagName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}
