package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/feedhub/internal/model"
)

func TestSplitTitleSummary(t *testing.T) {
	tests := []struct {
		in, title, summary string
	}{
		{"v1.2", "v1.2", ""},
		{" v1.2 | Dark mode and exports ", "v1.2", "Dark mode and exports"},
		{"| only summary", "", "only summary"},
	}
	for _, tt := range tests {
		title, summary := splitTitleSummary(tt.in)
		if title != tt.title || summary != tt.summary {
			t.Errorf("splitTitleSummary(%q) = %q, %q", tt.in, title, summary)
		}
	}
}

func TestChangelogViewListsDrafts(t *testing.T) {
	published := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	v := NewChangelogView(nil, "p1", "me").SetSize(100, 20)
	m, _ := v.Update(changelogLoadedMsg{entries: []model.Changelog{
		{ID: "1", Title: "v1.1", Published: true, PublishDate: &published},
		{ID: "2", Title: "v1.2"},
	}})
	v = m.(ChangelogView)

	out := v.View()
	for _, want := range []string{"Changelog (2)", "published", "draft", "v1.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	v = m.(ChangelogView)
	if v.cursor != 1 {
		t.Fatalf("cursor = %d", v.cursor)
	}

	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd == nil {
		t.Fatal("publish should issue a write")
	}
	if m.(ChangelogView).IsInputMode() {
		t.Fatal("publishing is not an input mode")
	}
}
