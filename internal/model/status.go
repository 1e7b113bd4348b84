package model

import (
	"strings"
)

// Status is the lower-cased roadmap status of a feedback item.
// The stored value doubles as the board column key.
type Status string

const (
	StatusOpen        Status = "open"
	StatusUnderReview Status = "under review"
	StatusPlanned     Status = "planned"
	StatusInProgress  Status = "in progress"
	StatusDone        Status = "done"
	StatusClosed      Status = "closed"
)

// StatusInfo holds the presentation metadata for a status
type StatusInfo struct {
	Status Status
	Label  string
	Icon   string
	Color  string
}

// statusOrder is the column order of the roadmap
var statusOrder = []Status{
	StatusOpen,
	StatusUnderReview,
	StatusPlanned,
	StatusInProgress,
	StatusDone,
	StatusClosed,
}

var statusTable = map[Status]StatusInfo{
	StatusOpen:        {Status: StatusOpen, Label: "Open", Icon: "○", Color: "#88C0D0"},
	StatusUnderReview: {Status: StatusUnderReview, Label: "Under review", Icon: "◌", Color: "#B48EAD"},
	StatusPlanned:     {Status: StatusPlanned, Label: "Planned", Icon: "◔", Color: "#5E81AC"},
	StatusInProgress:  {Status: StatusInProgress, Label: "In progress", Icon: "◑", Color: "#EBCB8B"},
	StatusDone:        {Status: StatusDone, Label: "Done", Icon: "●", Color: "#A3BE8C"},
	StatusClosed:      {Status: StatusClosed, Label: "Closed", Icon: "⊘", Color: "#4C566A"},
}

// Statuses returns the status set in roadmap order
func Statuses() []StatusInfo {
	out := make([]StatusInfo, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, statusTable[s])
	}
	return out
}

// LookupStatus resolves a status value or label, ignoring case and
// surrounding whitespace. "under_review" and "in-progress" style spellings
// are accepted too.
func LookupStatus(s string) (StatusInfo, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	info, ok := statusTable[Status(key)]
	return info, ok
}

// Info returns the metadata for a status
func (s Status) Info() (StatusInfo, bool) {
	info, ok := statusTable[s]
	return info, ok
}

// InfoOrDefault returns the metadata for a status, falling back to the first
// status when it is unknown
func (s Status) InfoOrDefault() StatusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return statusTable[statusOrder[0]]
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Label returns the display label, or the raw value when unknown
func (s Status) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.Label
	}
	return string(s)
}

// Next returns the following status in roadmap order, wrapping around
func (s Status) Next() Status {
	for i, st := range statusOrder {
		if st == s {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return statusOrder[0]
}
