package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/feedhub/internal/model"
)

func newTestFeedbackView(t *testing.T) FeedbackView {
	t.Helper()
	v := NewFeedbackView(nil, "p1", "me").SetSize(120, 30)
	m, _ := v.Update(feedbackLoadedMsg{
		items: []model.Feedback{
			{ID: "a", Title: "Dark mode", Status: model.StatusOpen, Upvotes: 5,
				Tags: []model.Tag{{ID: "t1", Name: "ui"}}},
			{ID: "b", Title: "Export CSV", Status: model.StatusPlanned, Upvotes: 2},
			{ID: "c", Title: "Dark logo", Status: model.StatusDone, Upvotes: 1},
		},
		tags: []model.Tag{{ID: "t1", Name: "ui"}},
	})
	return m.(FeedbackView)
}

func sendKeys(v FeedbackView, keys ...string) FeedbackView {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := v.Update(msg)
		v = m.(FeedbackView)
	}
	return v
}

func TestFeedbackSearch(t *testing.T) {
	v := newTestFeedbackView(t)

	v = sendKeys(v, "/", "d", "a", "r", "k", "enter")
	if v.IsInputMode() {
		t.Fatal("search should close on enter")
	}
	if got := len(v.visible()); got != 2 {
		t.Fatalf("visible = %d, want 2", got)
	}

	v = sendKeys(v, "esc")
	if !v.filter.IsZero() || len(v.visible()) != 3 {
		t.Fatal("esc should clear filters")
	}
}

func TestFeedbackStatusFilterCycles(t *testing.T) {
	v := newTestFeedbackView(t)

	v = sendKeys(v, "S")
	if v.filter.Status != string(model.StatusOpen) || len(v.visible()) != 1 {
		t.Fatalf("filter = %q, visible = %d", v.filter.Status, len(v.visible()))
	}

	for range model.Statuses() {
		v = sendKeys(v, "S")
	}
	if v.filter.Status != "" {
		t.Fatalf("filter should wrap to none, got %q", v.filter.Status)
	}
}

func TestFeedbackTagFilter(t *testing.T) {
	v := newTestFeedbackView(t)

	v = sendKeys(v, "#", "u", "i", "enter")
	items := v.visible()
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFeedbackUpvoteIsOptimistic(t *testing.T) {
	v := newTestFeedbackView(t)

	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	v = m.(FeedbackView)
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if v.items[0].Upvotes != 6 || !v.items[0].HasUpvoted {
		t.Fatalf("upvote not applied: %+v", v.items[0])
	}
}

func TestFeedbackAddRequiresTitle(t *testing.T) {
	v := newTestFeedbackView(t)

	v = sendKeys(v, "a", "#", "x", "enter")
	if !v.IsInputMode() || v.errMsg == "" {
		t.Fatal("a title-less entry should keep the input open with an error")
	}
	v = sendKeys(v, "esc")
	if v.IsInputMode() {
		t.Fatal("esc should close the input")
	}
}

func TestFeedbackRenders(t *testing.T) {
	v := newTestFeedbackView(t)
	out := v.View()
	for _, want := range []string{"Feedback (3)", "Dark mode", "#ui", "Planned"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
