package ui

import "strings"

// View represents the current active view
type View int

const (
	ViewRoadmap View = iota
	ViewFeedback
	ViewChangelog
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewRoadmap:
		return "Roadmap"
	case ViewFeedback:
		return "Feedback"
	case ViewChangelog:
		return "Changelog"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// ViewByName looks up a view by its display name, case-insensitively
func ViewByName(name string) (View, bool) {
	for _, v := range []View{ViewRoadmap, ViewFeedback, ViewChangelog} {
		if strings.EqualFold(v.String(), name) {
			return v, true
		}
	}
	return ViewRoadmap, false
}
