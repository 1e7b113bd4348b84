package views

import (
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Dark mode", 20, "Dark mode"},
		{"Export everything to CSV", 12, "Export ev..."},
		{"Ünïcödé títlé wïth áccénts", 10, "Ünïcödé..."},
	}
	for _, tt := range tests {
		got := truncateTitle(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncateTitle(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateTitle(%q, %d) split a rune: %q", tt.in, tt.width, got)
		}
	}

	wide := truncateTitle("日本語のフィードバックです", 9)
	if !utf8.ValidString(wide) || lipgloss.Width(wide) > 9 {
		t.Errorf("wide runes: %q (width %d)", wide, lipgloss.Width(wide))
	}
}
