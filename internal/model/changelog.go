package model

import (
	"regexp"
	"strings"
	"time"
)

// Changelog is a release note published on a project's hub
type Changelog struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	AuthorID    string     `json:"author_id,omitempty"`
	Published   bool       `json:"published"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a url-safe slug
func Slugify(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
