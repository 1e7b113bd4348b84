package model

import (
	"strings"
	"time"
)

// Feedback is a single feedback post on a project's hub
type Feedback struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       Status    `json:"status"`
	Upvotes      int       `json:"upvotes"`
	HasUpvoted   bool      `json:"has_upvoted"`
	CommentCount int       `json:"comment_count"`
	UserID       string    `json:"user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Loaded relationships (not stored in feedback table)
	Tags []Tag `json:"tags"`
}

// ToggleUpvote flips the viewer's upvote and adjusts the count to match
func (f *Feedback) ToggleUpvote() {
	if f.HasUpvoted {
		f.HasUpvoted = false
		if f.Upvotes > 0 {
			f.Upvotes--
		}
		return
	}
	f.HasUpvoted = true
	f.Upvotes++
}

// HasTag reports whether the feedback carries a tag with the given name
func (f *Feedback) HasTag(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range f.Tags {
		if strings.ToLower(t.Name) == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the tag slice
func (f Feedback) Clone() Feedback {
	if f.Tags != nil {
		tags := make([]Tag, len(f.Tags))
		copy(tags, f.Tags)
		f.Tags = tags
	}
	return f
}

// FeedbackFilter narrows a feedback list the way the hub's query string does
type FeedbackFilter struct {
	// Search matches a case-insensitive substring of the title
	Search string
	// Tags is a comma separated list; any match keeps the item
	Tags string
	// Status matches a case-insensitive substring of the status
	Status string
}

// IsZero reports whether the filter keeps everything
func (ff FeedbackFilter) IsZero() bool {
	return ff.Search == "" && ff.Tags == "" && ff.Status == ""
}

// Match reports whether f passes the filter
func (ff FeedbackFilter) Match(f Feedback) bool {
	if ff.Search != "" && !strings.Contains(strings.ToLower(f.Title), strings.ToLower(ff.Search)) {
		return false
	}

	if ff.Tags != "" {
		found := false
		for _, name := range strings.Split(ff.Tags, ",") {
			name = strings.TrimSpace(name)
			if name != "" && f.HasTag(name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if ff.Status != "" && !strings.Contains(string(f.Status), strings.ToLower(ff.Status)) {
		return false
	}

	return true
}

// Apply returns the items that pass the filter, preserving order
func (ff FeedbackFilter) Apply(items []Feedback) []Feedback {
	if ff.IsZero() {
		return items
	}
	var out []Feedback
	for _, f := range items {
		if ff.Match(f) {
			out = append(out, f)
		}
	}
	return out
}
