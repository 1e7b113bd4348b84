package views

import (
	"context"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dori/feedhub/internal/board"
)

// feedbackChangedMsg asks the active view to reload after a write
type feedbackChangedMsg struct{}

// MoveRecorder persists a relocation made on a board
type MoveRecorder interface {
	Record(ctx context.Context, move board.Move) error
}

// VoteToggler flips a viewer's upvote and reports the stored count
type VoteToggler interface {
	ToggleUpvote(ctx context.Context, feedbackID, viewerID string) (int, bool, error)
}

// writeTimeout bounds a single database write issued from a view
const writeTimeout = 5 * time.Second

func writeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), writeTimeout)
}

// truncateTitle shortens s to at most width terminal cells, ending in "..."
// when cut
func truncateTitle(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}
