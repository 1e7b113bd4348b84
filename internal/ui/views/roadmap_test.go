package views

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/feedhub/internal/board"
	"github.com/dori/feedhub/internal/model"
	log "github.com/sirupsen/logrus"
)

type fakeRecorder struct {
	moves []board.Move
	err   error
}

func (r *fakeRecorder) Record(_ context.Context, move board.Move) error {
	r.moves = append(r.moves, move)
	return r.err
}

// six columns of width 24 (26 with borders) fit exactly in 156 cells
const testWidth = 156

type fakeVotes struct {
	calls int
	err   error
}

func (f *fakeVotes) ToggleUpvote(_ context.Context, _, _ string) (int, bool, error) {
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	return 10, true, nil
}

func newTestRoadmap(t *testing.T) (RoadmapView, *fakeRecorder) {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)

	v := NewRoadmapView(nil, nil, logger, "p1", "me")
	rec := &fakeRecorder{}
	v.recorder = rec
	v = v.SetSize(testWidth, 30)

	b := board.FromItems(model.Statuses(), []model.Feedback{
		{ID: "a", Title: "Dark mode", Status: model.StatusOpen},
		{ID: "b", Title: "Export CSV", Status: model.StatusOpen},
		{ID: "c", Title: "SSO", Status: model.StatusPlanned},
	})
	m, _ := v.Update(roadmapLoadedMsg{board: b})
	return m.(RoadmapView), rec
}

func press(v RoadmapView, keys ...string) (RoadmapView, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var m tea.Model
		m, cmd = v.Update(msg)
		v = m.(RoadmapView)
	}
	return v, cmd
}

func mouse(v RoadmapView, action tea.MouseAction, x, y int) (RoadmapView, tea.Cmd) {
	m, cmd := v.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return m.(RoadmapView), cmd
}

// colX returns an x coordinate inside column i
func colX(i int) int {
	return i*(roadmapMinColWidth+2) + 3
}

func TestKeyboardGrabAndDrop(t *testing.T) {
	v, rec := newTestRoadmap(t)

	v, _ = press(v, " ")
	if v.board.ActiveID() != "a" {
		t.Fatalf("active = %q, want a", v.board.ActiveID())
	}

	v, cmd := press(v, "l", "l", "enter")
	if v.board.ActiveID() != "" {
		t.Fatal("drop should clear the active item")
	}
	key, item, ok := v.board.Locate("a")
	if !ok || key != "planned" || item.Status != model.StatusPlanned {
		t.Fatalf("a is in %q with status %q", key, item.Status)
	}
	if v.currentColumn != 2 {
		t.Errorf("cursor should follow the item, column = %d", v.currentColumn)
	}

	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg := cmd().(roadmapSavedMsg)
	if msg.err != nil || len(rec.moves) != 1 || rec.moves[0].Status != model.StatusPlanned {
		t.Fatalf("unexpected save: %+v %+v", msg, rec.moves)
	}
}

func TestKeyboardCancel(t *testing.T) {
	v, rec := newTestRoadmap(t)

	v, _ = press(v, " ", "l", "esc")
	if v.board.ActiveID() != "" {
		t.Fatal("esc should clear the active item")
	}
	if key, _, _ := v.board.Locate("a"); key != "open" {
		t.Fatalf("a moved to %q", key)
	}
	if len(rec.moves) != 0 {
		t.Fatalf("nothing should be recorded: %+v", rec.moves)
	}
}

func TestDropOnSourceColumnIsNoop(t *testing.T) {
	v, _ := newTestRoadmap(t)

	v, cmd := press(v, " ", "enter")
	if cmd != nil {
		t.Fatal("dropping on the source column should not save")
	}
	if got := v.board.Items("open"); len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("open column changed: %+v", got)
	}
}

func TestQuickMove(t *testing.T) {
	v, rec := newTestRoadmap(t)

	v, cmd := press(v, "j", "L")
	if key, _, _ := v.board.Locate("b"); key != "under review" {
		t.Fatalf("b is in %q", key)
	}
	cmd()

	v, cmd = press(v, "H")
	if key, _, _ := v.board.Locate("b"); key != "open" {
		t.Fatalf("b is in %q", key)
	}
	cmd()

	if len(rec.moves) != 2 {
		t.Fatalf("expected 2 recorded moves, got %d", len(rec.moves))
	}
	if got := v.board.Items("open"); got[len(got)-1].ID != "b" {
		t.Error("moved item should be appended to the end of its column")
	}

	// first column has nothing to its left
	v, _ = press(v, "g")
	if _, cmd = press(v, "H"); cmd != nil {
		t.Error("moving left of the first column should do nothing")
	}
}

func TestCycleStatusUsesApply(t *testing.T) {
	v, _ := newTestRoadmap(t)

	v, cmd := press(v, "s")
	if key, _, _ := v.board.Locate("a"); key != "under review" {
		t.Fatalf("a is in %q", key)
	}
	if cmd == nil {
		t.Fatal("status change should be saved")
	}
}

func TestMouseDrag(t *testing.T) {
	v, rec := newTestRoadmap(t)

	v, _ = mouse(v, tea.MouseActionPress, colX(0), roadmapContentTop+1)
	if v.board.ActiveID() != "b" {
		t.Fatalf("press should grab the second card, got %q", v.board.ActiveID())
	}

	v, _ = mouse(v, tea.MouseActionMotion, colX(3), 10)
	if v.dropTarget != 3 {
		t.Errorf("drop target = %d, want 3", v.dropTarget)
	}

	v, cmd := mouse(v, tea.MouseActionRelease, colX(4), 10)
	if key, item, _ := v.board.Locate("b"); key != "done" || item.Status != model.StatusDone {
		t.Fatalf("b is in %q", key)
	}
	if v.board.ActiveID() != "" {
		t.Fatal("release should clear the active item")
	}

	msg := cmd().(roadmapSavedMsg)
	if msg.move.To != "done" || len(rec.moves) != 1 {
		t.Fatalf("unexpected save: %+v", msg)
	}

	m, _ := v.Update(msg)
	v = m.(RoadmapView)
	if !strings.Contains(v.statusMsg, "Done") {
		t.Errorf("status = %q", v.statusMsg)
	}
}

func TestMouseReleaseOutsideBoard(t *testing.T) {
	v, rec := newTestRoadmap(t)

	v, _ = mouse(v, tea.MouseActionPress, colX(0), roadmapContentTop)
	v, cmd := mouse(v, tea.MouseActionRelease, colX(2), 100)
	if cmd != nil || len(rec.moves) != 0 {
		t.Fatal("release outside the board should not move anything")
	}
	if v.board.ActiveID() != "" {
		t.Fatal("the gesture should still end")
	}
	if key, _, _ := v.board.Locate("a"); key != "open" {
		t.Fatalf("a is in %q", key)
	}
}

func TestMousePressOnEmptyArea(t *testing.T) {
	v, _ := newTestRoadmap(t)

	v, _ = mouse(v, tea.MouseActionPress, colX(5), roadmapContentTop)
	if v.board.ActiveID() != "" {
		t.Fatal("pressing an empty column should not start a drag")
	}
	if v.currentColumn != 5 {
		t.Errorf("column = %d, want 5", v.currentColumn)
	}
}

func TestSaveFailureKeepsBoard(t *testing.T) {
	v, rec := newTestRoadmap(t)
	rec.err = errors.New("database is locked")

	v, cmd := press(v, "L")
	msg := cmd().(roadmapSavedMsg)

	m, _ := v.Update(msg)
	v = m.(RoadmapView)

	if !strings.Contains(v.errMsg, "database is locked") {
		t.Errorf("error not surfaced: %q", v.errMsg)
	}
	if key, _, _ := v.board.Locate("a"); key != "under review" {
		t.Fatalf("board should not roll back, a is in %q", key)
	}
}

func TestSearchFilterLimitsCursor(t *testing.T) {
	v, _ := newTestRoadmap(t)
	v.searchFilter = "export"
	v.clampCursor()

	item, ok := v.currentItem()
	if !ok || item.ID != "b" {
		t.Fatalf("current item = %+v", item)
	}
}

func TestRoadmapRenders(t *testing.T) {
	v, _ := newTestRoadmap(t)
	v, _ = press(v, " ")

	out := v.View()
	for _, want := range []string{"Open", "Planned", "Dark mode", "Moving 'Dark mode'"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestUpvoteSettlesToStoredCount(t *testing.T) {
	v, _ := newTestRoadmap(t)
	votes := &fakeVotes{}
	v.votes = votes

	v, cmd := press(v, "u")
	if _, a, _ := v.board.Locate("a"); a.Upvotes != 1 || !a.HasUpvoted {
		t.Fatalf("optimistic upvote not shown: %+v", a)
	}

	m, _ := v.Update(cmd())
	v = m.(RoadmapView)
	if _, a, _ := v.board.Locate("a"); a.Upvotes != 10 || !a.HasUpvoted {
		t.Fatalf("stored count not applied: %+v", a)
	}
	if votes.calls != 1 {
		t.Fatalf("calls = %d", votes.calls)
	}
}

func TestUpvoteFailureRestoresItem(t *testing.T) {
	v, _ := newTestRoadmap(t)
	v.votes = &fakeVotes{err: errors.New("feedback not found")}

	v, cmd := press(v, "u")
	m, _ := v.Update(cmd())
	v = m.(RoadmapView)

	_, a, _ := v.board.Locate("a")
	if a.Upvotes != 0 || a.HasUpvoted {
		t.Fatalf("upvote should roll back, got upvotes=%d hasUpvoted=%v", a.Upvotes, a.HasUpvoted)
	}
	if !strings.Contains(v.errMsg, "feedback not found") {
		t.Errorf("error not surfaced: %q", v.errMsg)
	}
}
