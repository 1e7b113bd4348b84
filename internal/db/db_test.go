package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/feedhub/internal/board"
	"github.com/dori/feedhub/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func defaultProject(t *testing.T, db *DB) *model.Project {
	t.Helper()
	p, err := db.GetProjectBySlug(context.Background(), model.DefaultProjectSlug)
	if err != nil {
		t.Fatalf("default project missing: %v", err)
	}
	return p
}

func TestOpenSeedsDefaultProject(t *testing.T) {
	db := openTestDB(t)
	p := defaultProject(t, db)
	if p.Slug != model.DefaultProjectSlug {
		t.Fatalf("unexpected project %+v", p)
	}

	if _, err := db.GetProjectBySlug(context.Background(), "nope"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestEnsureProject(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p1, err := db.EnsureProject(ctx, "acme")
	if err != nil {
		t.Fatalf("EnsureProject: %v", err)
	}
	p2, err := db.EnsureProject(ctx, "acme")
	if err != nil {
		t.Fatalf("EnsureProject again: %v", err)
	}
	if p1.ID != p2.ID {
		t.Fatalf("expected the same project, got %s and %s", p1.ID, p2.ID)
	}

	projects, err := db.GetProjects(ctx)
	if err != nil {
		t.Fatalf("GetProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
}

func TestCreateFeedbackValidation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	if _, err := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "   "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "x", Status: "shipped"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	f, err := db.CreateFeedback(ctx, p.ID, NewFeedback{
		Title:    "Dark mode",
		Status:   "Under Review",
		TagNames: []string{"#ui", "UI", "themes"},
	})
	if err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}
	if f.Status != model.StatusUnderReview {
		t.Fatalf("status = %q", f.Status)
	}
	if len(f.Tags) != 2 {
		t.Fatalf("expected duplicate tag names to collapse, got %v", f.Tags)
	}

	got, err := db.GetFeedback(ctx, f.ID, "")
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.Title != "Dark mode" || len(got.Tags) != 2 {
		t.Fatalf("unexpected feedback %+v", got)
	}
}

func TestToggleUpvote(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	f, err := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "Export to CSV"})
	if err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}

	count, upvoted, err := db.ToggleUpvote(ctx, f.ID, "alice")
	if err != nil || count != 1 || !upvoted {
		t.Fatalf("first toggle: count=%d upvoted=%v err=%v", count, upvoted, err)
	}
	if count, _, _ = db.ToggleUpvote(ctx, f.ID, "bob"); count != 2 {
		t.Fatalf("second voter: count=%d", count)
	}

	got, _ := db.GetFeedback(ctx, f.ID, "alice")
	if !got.HasUpvoted || got.Upvotes != 2 {
		t.Fatalf("alice view: %+v", got)
	}
	got, _ = db.GetFeedback(ctx, f.ID, "carol")
	if got.HasUpvoted {
		t.Fatal("carol has not upvoted")
	}

	count, upvoted, err = db.ToggleUpvote(ctx, f.ID, "alice")
	if err != nil || count != 1 || upvoted {
		t.Fatalf("removing upvote: count=%d upvoted=%v err=%v", count, upvoted, err)
	}

	voters, err := db.GetUpvoters(ctx, f.ID)
	if err != nil || len(voters) != 1 || voters[0] != "bob" {
		t.Fatalf("voters = %v err=%v", voters, err)
	}

	if _, _, err := db.ToggleUpvote(ctx, "missing", "alice"); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
}

func TestUpdateFeedbackStatusAndPatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	f, _ := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "SSO", TagNames: []string{"auth"}})

	if err := db.UpdateFeedbackStatus(ctx, f.ID, model.StatusPlanned); err != nil {
		t.Fatalf("UpdateFeedbackStatus: %v", err)
	}
	if err := db.UpdateFeedbackStatus(ctx, f.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := db.UpdateFeedbackStatus(ctx, "missing", model.StatusDone); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}

	title := "Single sign-on"
	status := "in progress"
	tags := []string{"enterprise"}
	got, err := db.UpdateFeedback(ctx, f.ID, "", FeedbackPatch{Title: &title, Status: &status, TagNames: &tags})
	if err != nil {
		t.Fatalf("UpdateFeedback: %v", err)
	}
	if got.Title != title || got.Status != model.StatusInProgress {
		t.Fatalf("patch not applied: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "enterprise" {
		t.Fatalf("tags = %v", got.Tags)
	}

	if err := db.DeleteFeedback(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFeedback: %v", err)
	}
	if _, err := db.GetFeedback(ctx, f.ID, ""); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound after delete, got %v", err)
	}
}

func TestTagLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	tag, err := db.GetOrCreateTag(ctx, p.ID, "#Bug", "")
	if err != nil {
		t.Fatalf("GetOrCreateTag: %v", err)
	}
	if tag.Name != "Bug" || tag.Color == "" {
		t.Fatalf("unexpected tag %+v", tag)
	}
	again, err := db.GetOrCreateTag(ctx, p.ID, "bug", "")
	if err != nil || again.ID != tag.ID {
		t.Fatalf("lookup should be case-insensitive: %+v %v", again, err)
	}

	f, _ := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "Crash on save"})
	attached, err := db.ToggleFeedbackTag(ctx, f.ID, tag.ID)
	if err != nil || !attached {
		t.Fatalf("attach: %v %v", attached, err)
	}
	attached, err = db.ToggleFeedbackTag(ctx, f.ID, tag.ID)
	if err != nil || attached {
		t.Fatalf("detach: %v %v", attached, err)
	}

	if _, err := db.GetOrCreateTag(ctx, p.ID, "#", ""); !errors.Is(err, ErrTagNameRequired) {
		t.Fatalf("empty name: got %v", err)
	}
	if err := db.UpdateTag(ctx, tag.ID, "  ", ""); !errors.Is(err, ErrTagNameRequired) {
		t.Fatalf("empty rename: got %v", err)
	}
	if err := db.UpdateTag(ctx, tag.ID, "defect", "#000000"); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if err := db.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, _ := db.GetTags(ctx, p.ID)
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}

func TestChangelogs(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	c, err := db.CreateChangelog(ctx, p.ID, "alice", "Dark mode is here!", "Finally.")
	if err != nil {
		t.Fatalf("CreateChangelog: %v", err)
	}
	if c.Slug != "dark-mode-is-here" {
		t.Fatalf("slug = %q", c.Slug)
	}

	published, _ := db.GetChangelogs(ctx, p.ID, true)
	if len(published) != 0 {
		t.Fatal("draft should not be listed as published")
	}

	if err := db.SetChangelogPublished(ctx, c.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, err := db.GetChangelog(ctx, c.ID)
	if err != nil || !got.Published || got.PublishDate == nil {
		t.Fatalf("published changelog: %+v %v", got, err)
	}
	published, _ = db.GetChangelogs(ctx, p.ID, true)
	if len(published) != 1 {
		t.Fatalf("expected 1 published changelog, got %d", len(published))
	}

	if err := db.DeleteChangelog(ctx, c.ID); err != nil {
		t.Fatalf("DeleteChangelog: %v", err)
	}
	if err := db.SetChangelogPublished(ctx, c.ID, false); !errors.Is(err, ErrChangelogNotFound) {
		t.Fatalf("expected ErrChangelogNotFound, got %v", err)
	}
}

func TestLoadBoardAndRecordMove(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	a, _ := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "A"})
	b, _ := db.CreateFeedback(ctx, p.ID, NewFeedback{Title: "B", Status: "planned"})

	bd, err := db.LoadBoard(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if bd.Len("open") != 1 || bd.Len("planned") != 1 {
		t.Fatalf("unexpected grouping %v", bd.Grouping())
	}

	move, ok := bd.EndDrag(a.ID, board.KeyFor("Done"))
	if !ok {
		t.Fatal("expected a move")
	}
	if err := NewStatusRecorder(db).Record(ctx, move); err != nil {
		t.Fatalf("Record: %v", err)
	}

	reloaded, err := db.LoadBoard(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("LoadBoard again: %v", err)
	}
	if key, _, _ := reloaded.Locate(a.ID); key != "done" {
		t.Fatalf("moved item reloaded into %q", key)
	}
	if key, _, _ := reloaded.Locate(b.ID); key != "planned" {
		t.Fatalf("untouched item reloaded into %q", key)
	}
}

// TestListFeedbackNoDeadlock guards the single-connection pool: tags must be
// loaded after the feedback cursor is closed.
func TestListFeedbackNoDeadlock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := defaultProject(t, db)

	for i := 0; i < 5; i++ {
		if _, err := db.CreateFeedback(ctx, p.ID, NewFeedback{
			Title:    "Feedback " + string(rune('A'+i)),
			TagNames: []string{"one", "two"},
		}); err != nil {
			t.Fatalf("CreateFeedback: %v", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		items, err := db.ListFeedback(ctx, p.ID, "")
		if err == nil && len(items) != 5 {
			err = errors.New("expected 5 items")
		}
		for _, it := range items {
			if len(it.Tags) != 2 {
				err = errors.New("expected 2 tags on every item")
			}
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}
