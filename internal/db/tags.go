package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/dori/feedhub/internal/model"
	"github.com/google/uuid"
)

// tagPalette is used when a tag is created without a color
var tagPalette = []string{
	"#BF616A", "#D08770", "#EBCB8B", "#A3BE8C",
	"#88C0D0", "#81A1C1", "#5E81AC", "#B48EAD",
}

// DefaultTagColor picks a stable palette color for a tag name
func DefaultTagColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}

// GetTags returns a project's tags
func (db *DB) GetTags(ctx context.Context, projectID string) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, project_id, name, color, created_at
		FROM feedback_tags
		WHERE project_id = ?
		ORDER BY name
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// GetTagByName returns a project's tag by name, ignoring case
func (db *DB) GetTagByName(ctx context.Context, projectID, name string) (*model.Tag, error) {
	return getTagByName(ctx, db, projectID, name)
}

// CreateTag creates a new tag
func (db *DB) CreateTag(ctx context.Context, projectID, name, color string) (*model.Tag, error) {
	return createTag(ctx, db, projectID, name, color)
}

// GetOrCreateTag gets a tag by name or creates it if it doesn't exist
func (db *DB) GetOrCreateTag(ctx context.Context, projectID, name, color string) (*model.Tag, error) {
	tag, err := db.GetTagByName(ctx, projectID, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrTagNotFound) {
		return nil, err
	}
	return db.CreateTag(ctx, projectID, name, color)
}

// UpdateTag renames or recolors a tag
func (db *DB) UpdateTag(ctx context.Context, id, name, color string) error {
	name = model.NormalizeTagName(name)
	if name == "" {
		return ErrTagNameRequired
	}
	res, err := db.ExecContext(ctx, `
		UPDATE feedback_tags SET name = ?, color = ? WHERE id = ?
	`, name, color, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTagNotFound
	}
	return nil
}

// DeleteTag deletes a tag and its feedback associations
func (db *DB) DeleteTag(ctx context.Context, id string) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM feedback_tag_links WHERE tag_id = ?`, id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM feedback_tags WHERE id = ?`, id)
		return err
	})
}

// GetFeedbackTags returns the tags attached to a feedback item
func (db *DB) GetFeedbackTags(ctx context.Context, feedbackID string) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT t.id, t.project_id, t.name, t.color, t.created_at
		FROM feedback_tags t
		JOIN feedback_tag_links l ON t.id = l.tag_id
		WHERE l.feedback_id = ?
		ORDER BY t.name
	`, feedbackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// ToggleFeedbackTag attaches the tag when missing and detaches it otherwise.
// It reports whether the tag is attached afterwards.
func (db *DB) ToggleFeedbackTag(ctx context.Context, feedbackID, tagID string) (bool, error) {
	var attached bool
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM feedback_tag_links WHERE feedback_id = ? AND tag_id = ?
		`, feedbackID, tagID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}

		attached = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO feedback_tag_links (feedback_id, tag_id) VALUES (?, ?)
		`, feedbackID, tagID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle tag: %w", err)
	}
	return attached, nil
}

// attachTags loads the tags of every item in one query
func (db *DB) attachTags(ctx context.Context, projectID string, items []model.Feedback) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT l.feedback_id, t.id, t.project_id, t.name, t.color, t.created_at
		FROM feedback_tag_links l
		JOIN feedback_tags t ON t.id = l.tag_id
		WHERE t.project_id = ?
		ORDER BY t.name
	`, projectID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byFeedback := make(map[string][]model.Tag)
	for rows.Next() {
		var feedbackID string
		var t model.Tag
		if err := rows.Scan(&feedbackID, &t.ID, &t.ProjectID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return err
		}
		byFeedback[feedbackID] = append(byFeedback[feedbackID], t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		if tags, ok := byFeedback[items[i].ID]; ok {
			items[i].Tags = tags
		}
	}
	return nil
}

// querier is satisfied by *DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getTagByName(ctx context.Context, q querier, projectID, name string) (*model.Tag, error) {
	name = model.NormalizeTagName(name)

	var t model.Tag
	err := q.QueryRowContext(ctx, `
		SELECT id, project_id, name, color, created_at
		FROM feedback_tags WHERE project_id = ? AND name = ? COLLATE NOCASE
	`, projectID, name).Scan(&t.ID, &t.ProjectID, &t.Name, &t.Color, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func createTag(ctx context.Context, q querier, projectID, name, color string) (*model.Tag, error) {
	name = model.NormalizeTagName(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}
	if color == "" {
		color = DefaultTagColor(name)
	}

	t := model.Tag{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO feedback_tags (id, project_id, name, color, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID, t.Name, t.Color, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &t, nil
}

// linkTagNames attaches tags by name inside tx, creating missing ones
func linkTagNames(ctx context.Context, tx *sql.Tx, projectID, feedbackID string, names []string) ([]model.Tag, error) {
	tags := []model.Tag{}
	seen := make(map[string]bool)

	for _, name := range names {
		name = model.NormalizeTagName(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		tag, err := getTagByName(ctx, tx, projectID, name)
		if errors.Is(err, ErrTagNotFound) {
			tag, err = createTag(ctx, tx, projectID, name, "")
		}
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO feedback_tag_links (feedback_id, tag_id) VALUES (?, ?)
		`, feedbackID, tag.ID)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func scanTags(rows *sql.Rows) ([]model.Tag, error) {
	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
