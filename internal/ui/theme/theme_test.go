package theme

import (
	"testing"

	"github.com/dori/feedhub/internal/model"
)

func TestByName(t *testing.T) {
	for _, th := range Available() {
		got, ok := ByName(th.Name)
		if !ok || got.Name != th.Name {
			t.Errorf("ByName(%q) = %v, %v", th.Name, got.Name, ok)
		}
	}
	if _, ok := ByName("solarized"); ok {
		t.Error("unknown theme should not resolve")
	}
}

func TestStatusColorCoversEveryStatus(t *testing.T) {
	for _, th := range Available() {
		for _, info := range model.Statuses() {
			if th.StatusColor(info.Status) == "" {
				t.Errorf("%s: no color for %q", th.Name, info.Status)
			}
		}
		if th.StatusColor("someday") != th.StatusOpen {
			t.Errorf("%s: unknown status should use the first column color", th.Name)
		}
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(Nord)
	SetTheme(Dracula)
	if Current.Theme.Name != "dracula" {
		t.Fatalf("current theme = %q", Current.Theme.Name)
	}
}
