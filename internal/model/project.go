package model

import (
	"time"
)

// DefaultProjectSlug is the project seeded by the first migration
const DefaultProjectSlug = "default"

// Project is a workspace that owns feedback, tags and changelogs
type Project struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Computed fields (not stored)
	FeedbackCount int `json:"feedback_count,omitempty"`
	DoneCount     int `json:"done_count,omitempty"`
}
