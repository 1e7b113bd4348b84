package db

import (
	"context"

	"github.com/dori/feedhub/internal/board"
	"github.com/dori/feedhub/internal/model"
)

// LoadBoard builds a roadmap board from a project's feedback, grouped by
// status in the order of model.Statuses()
func (db *DB) LoadBoard(ctx context.Context, projectID, viewerID string) (*board.Board, error) {
	items, err := db.ListFeedback(ctx, projectID, viewerID)
	if err != nil {
		return nil, err
	}
	return board.FromItems(model.Statuses(), items), nil
}

// StatusRecorder persists roadmap moves
type StatusRecorder struct {
	db *DB
}

// NewStatusRecorder returns a recorder writing to db
func NewStatusRecorder(db *DB) *StatusRecorder {
	return &StatusRecorder{db: db}
}

// Record stores the status a move put an item in
func (r *StatusRecorder) Record(ctx context.Context, move board.Move) error {
	return r.db.UpdateFeedbackStatus(ctx, move.ItemID, move.Status)
}
