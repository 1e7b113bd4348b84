package model

import "testing"

func TestLookupStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Open", StatusOpen, true},
		{"  PLANNED ", StatusPlanned, true},
		{"Under review", StatusUnderReview, true},
		{"under_review", StatusUnderReview, true},
		{"in-progress", StatusInProgress, true},
		{"shipped", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		info, ok := LookupStatus(tt.in)
		if ok != tt.ok {
			t.Errorf("LookupStatus(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && info.Status != tt.want {
			t.Errorf("LookupStatus(%q) = %q, want %q", tt.in, info.Status, tt.want)
		}
	}
}

func TestStatusesOrderAndKeys(t *testing.T) {
	statuses := Statuses()
	if len(statuses) != 6 {
		t.Fatalf("expected 6 statuses, got %d", len(statuses))
	}
	if statuses[0].Status != StatusOpen || statuses[5].Status != StatusClosed {
		t.Fatalf("unexpected order: %v", statuses)
	}
	for _, s := range statuses {
		info, ok := LookupStatus(s.Label)
		if !ok || info.Status != s.Status {
			t.Errorf("label %q does not resolve to its own status", s.Label)
		}
	}
}

func TestInfoOrDefault(t *testing.T) {
	if got := Status("bogus").InfoOrDefault().Status; got != StatusOpen {
		t.Fatalf("unknown status should fall back to open, got %q", got)
	}
	if got := StatusDone.InfoOrDefault().Label; got != "Done" {
		t.Fatalf("expected Done, got %q", got)
	}
}

func TestStatusNextWraps(t *testing.T) {
	if StatusClosed.Next() != StatusOpen {
		t.Fatal("closed should wrap to open")
	}
	if StatusPlanned.Next() != StatusInProgress {
		t.Fatal("planned should advance to in progress")
	}
}

func TestToggleUpvote(t *testing.T) {
	f := Feedback{Upvotes: 3}
	f.ToggleUpvote()
	if !f.HasUpvoted || f.Upvotes != 4 {
		t.Fatalf("after upvote: %+v", f)
	}
	f.ToggleUpvote()
	if f.HasUpvoted || f.Upvotes != 3 {
		t.Fatalf("after removing upvote: %+v", f)
	}

	// A stale count never goes negative
	f = Feedback{HasUpvoted: true}
	f.ToggleUpvote()
	if f.Upvotes != 0 {
		t.Fatalf("expected 0 upvotes, got %d", f.Upvotes)
	}
}

func TestFeedbackFilter(t *testing.T) {
	items := []Feedback{
		{ID: "1", Title: "Dark mode", Status: StatusPlanned, Tags: []Tag{{Name: "UI"}}},
		{ID: "2", Title: "Slack integration", Status: StatusOpen, Tags: []Tag{{Name: "integrations"}}},
		{ID: "3", Title: "Darker charts", Status: StatusDone},
	}

	tests := []struct {
		name   string
		filter FeedbackFilter
		want   []string
	}{
		{"zero keeps all", FeedbackFilter{}, []string{"1", "2", "3"}},
		{"search", FeedbackFilter{Search: "DARK"}, []string{"1", "3"}},
		{"tags any", FeedbackFilter{Tags: "ui,integrations"}, []string{"1", "2"}},
		{"status substring", FeedbackFilter{Status: "Plan"}, []string{"1"}},
		{"combined", FeedbackFilter{Search: "dark", Status: "done"}, []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(items)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.want))
			}
			for i, f := range got {
				if f.ID != tt.want[i] {
					t.Errorf("item %d = %s, want %s", i, f.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("  Hello, World! v2.0 "); got != "hello-world-v2-0" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestParseQuickAdd(t *testing.T) {
	q := ParseQuickAdd("Dark mode #ui #UI #themes status:in_progress")
	if q.Title != "Dark mode" {
		t.Errorf("title = %q", q.Title)
	}
	if len(q.Tags) != 2 || q.Tags[0] != "ui" || q.Tags[1] != "themes" {
		t.Errorf("tags = %v", q.Tags)
	}
	if q.Status != StatusInProgress {
		t.Errorf("status = %q", q.Status)
	}

	q = ParseQuickAdd("Fix status:someday bug #")
	if q.Title != "Fix status:someday bug #" || q.Status != "" || len(q.Tags) != 0 {
		t.Errorf("unexpected parse: %+v", q)
	}
}
