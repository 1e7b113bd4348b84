package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dori/feedhub/internal/model"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NewFeedback holds the fields accepted when creating feedback
type NewFeedback struct {
	Title       string
	Description string
	Status      string
	UserID      string
	// TagNames are attached, creating missing project tags on the way
	TagNames []string
}

// FeedbackPatch holds optional updates; nil fields are left alone
type FeedbackPatch struct {
	Title       *string
	Description *string
	Status      *string
	TagNames    *[]string
}

const feedbackColumns = `
	f.id, f.project_id, f.title, f.description, f.status, f.upvotes,
	f.comment_count, f.user_id, f.created_at, f.updated_at,
	EXISTS (SELECT 1 FROM feedback_upvoters u WHERE u.feedback_id = f.id AND u.profile_id = ?) as has_upvoted`

// ListFeedback returns a project's feedback, most upvoted first. viewerID
// decides HasUpvoted.
func (db *DB) ListFeedback(ctx context.Context, projectID, viewerID string) ([]model.Feedback, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback f
		WHERE f.project_id = ?
		ORDER BY f.upvotes DESC, f.created_at
	`, viewerID, projectID)
	if err != nil {
		return nil, err
	}

	// Collect rows before loading tags: nested queries on a single
	// connection would block on the open cursor.
	items, err := scanFeedbackRows(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := db.attachTags(ctx, projectID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetFeedback returns a single feedback item
func (db *DB) GetFeedback(ctx context.Context, id, viewerID string) (*model.Feedback, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback f WHERE f.id = ?
	`, viewerID, id)

	f, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}

	tags, err := db.GetFeedbackTags(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Tags = tags
	return f, nil
}

// CreateFeedback creates a feedback post in a project. An empty status means
// open; an unknown one is rejected.
func (db *DB) CreateFeedback(ctx context.Context, projectID string, in NewFeedback) (*model.Feedback, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := model.StatusOpen
	if in.Status != "" {
		info, ok := model.LookupStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
		}
		status = info.Status
	}

	now := time.Now()
	f := model.Feedback{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Title:       title,
		Description: in.Description,
		Status:      status,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO feedback (id, project_id, title, description, status, user_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, f.ID, f.ProjectID, f.Title, f.Description, f.Status, f.UserID, now, now)
		if err != nil {
			return err
		}

		tags, err := linkTagNames(ctx, tx, projectID, f.ID, in.TagNames)
		if err != nil {
			return err
		}
		f.Tags = tags
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	db.log.WithFields(log.Fields{"id": f.ID, "status": f.Status}).Debug("feedback created")
	return &f, nil
}

// UpdateFeedbackStatus records a new status for a feedback item
func (db *DB) UpdateFeedbackStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res, err := db.ExecContext(ctx, `
		UPDATE feedback SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFeedbackNotFound
	}

	db.log.WithFields(log.Fields{"id": id, "status": status}).Debug("feedback status updated")
	return nil
}

// UpdateFeedback applies a patch and returns the updated item
func (db *DB) UpdateFeedback(ctx context.Context, id, viewerID string, patch FeedbackPatch) (*model.Feedback, error) {
	current, err := db.GetFeedback(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		current.Title = title
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Status != nil {
		info, ok := model.LookupStatus(*patch.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		current.Status = info.Status
	}

	err = db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE feedback SET title = ?, description = ?, status = ?, updated_at = ?
			WHERE id = ?
		`, current.Title, current.Description, current.Status, time.Now(), id)
		if err != nil {
			return err
		}

		if patch.TagNames == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM feedback_tag_links WHERE feedback_id = ?`, id); err != nil {
			return err
		}
		_, err = linkTagNames(ctx, tx, current.ProjectID, id, *patch.TagNames)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	return db.GetFeedback(ctx, id, viewerID)
}

// DeleteFeedback deletes a feedback item with its tag links and upvotes
func (db *DB) DeleteFeedback(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// ToggleUpvote adds or removes viewerID's upvote and returns the new count
// and whether the viewer now upvotes the item
func (db *DB) ToggleUpvote(ctx context.Context, feedbackID, viewerID string) (int, bool, error) {
	var upvotes int
	var upvoted bool

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE id = ?`, feedbackID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrFeedbackNotFound
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM feedback_upvoters WHERE feedback_id = ? AND profile_id = ?
		`, feedbackID, viewerID)
		if err != nil {
			return err
		}

		if n, _ := res.RowsAffected(); n > 0 {
			_, err = tx.ExecContext(ctx, `
				UPDATE feedback SET upvotes = MAX(upvotes - 1, 0) WHERE id = ?
			`, feedbackID)
		} else {
			upvoted = true
			_, err = tx.ExecContext(ctx, `
				INSERT INTO feedback_upvoters (feedback_id, profile_id, created_at) VALUES (?, ?, ?)
			`, feedbackID, viewerID, time.Now())
			if err == nil {
				_, err = tx.ExecContext(ctx, `UPDATE feedback SET upvotes = upvotes + 1 WHERE id = ?`, feedbackID)
			}
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, `SELECT upvotes FROM feedback WHERE id = ?`, feedbackID).Scan(&upvotes)
	})
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			return 0, false, err
		}
		return 0, false, fmt.Errorf("failed to toggle upvote: %w", err)
	}

	return upvotes, upvoted, nil
}

// GetUpvoters returns the profile ids that upvoted a feedback item, oldest first
func (db *DB) GetUpvoters(ctx context.Context, feedbackID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT profile_id FROM feedback_upvoters WHERE feedback_id = ? ORDER BY created_at
	`, feedbackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Helper functions

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFeedbackRows(rows *sql.Rows) ([]model.Feedback, error) {
	var items []model.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func scanFeedback(s scanner) (*model.Feedback, error) {
	var f model.Feedback
	var status string
	var upvoted int
	err := s.Scan(
		&f.ID, &f.ProjectID, &f.Title, &f.Description, &status, &f.Upvotes,
		&f.CommentCount, &f.UserID, &f.CreatedAt, &f.UpdatedAt, &upvoted,
	)
	if err != nil {
		return nil, err
	}
	f.Status = model.Status(status)
	f.HasUpvoted = upvoted == 1
	f.Tags = []model.Tag{}
	return &f, nil
}
