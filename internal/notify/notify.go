package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/feedhub/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", buildArgs(notification)...)
}

func buildArgs(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "feedhub")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// SendShipped announces that a feedback item reached Done
func (n *Notifier) SendShipped(f model.Feedback) error {
	body := f.Title
	if f.Upvotes > 0 {
		body = fmt.Sprintf("%s (%d upvotes)", f.Title, f.Upvotes)
	}
	return n.Send(Notification{
		Title:   "Shipped!",
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "emblem-ok-symbolic",
	})
}

// SendStatusChanged reports a roadmap move. Moves into Done are sent as a
// shipped notification.
func (n *Notifier) SendStatusChanged(f model.Feedback, to model.Status) error {
	if to == model.StatusDone {
		return n.SendShipped(f)
	}
	return n.Send(Notification{
		Title:   f.Title,
		Body:    "Moved to " + to.Label(),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
	})
}

// SendSaveFailed reports a status change that could not be persisted
func (n *Notifier) SendSaveFailed(title string, err error) error {
	return n.Send(Notification{
		Title:   "Could not save " + title,
		Body:    err.Error(),
		Urgency: UrgencyCritical,
		Timeout: 15 * time.Second,
		Icon:    "dialog-error-symbolic",
	})
}
