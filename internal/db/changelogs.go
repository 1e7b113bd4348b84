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
)

// GetChangelogs returns a project's changelogs, newest first. With
// publishedOnly set, drafts are left out.
func (db *DB) GetChangelogs(ctx context.Context, projectID string, publishedOnly bool) ([]model.Changelog, error) {
	query := `
		SELECT id, project_id, slug, title, summary, content, author_id, published, publish_date, created_at
		FROM changelogs
		WHERE project_id = ?`
	if publishedOnly {
		query += ` AND published = 1`
	}
	query += ` ORDER BY COALESCE(publish_date, created_at) DESC`

	rows, err := db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Changelog
	for rows.Next() {
		c, err := scanChangelog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetChangelog returns a single changelog
func (db *DB) GetChangelog(ctx context.Context, id string) (*model.Changelog, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, project_id, slug, title, summary, content, author_id, published, publish_date, created_at
		FROM changelogs WHERE id = ?
	`, id)
	c, err := scanChangelog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChangelogNotFound
	}
	return c, err
}

// CreateChangelog creates an unpublished changelog
func (db *DB) CreateChangelog(ctx context.Context, projectID, authorID, title, summary string) (*model.Changelog, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	c := model.Changelog{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Slug:      model.Slugify(title),
		Title:     title,
		Summary:   summary,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO changelogs (id, project_id, slug, title, summary, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.ProjectID, c.Slug, c.Title, c.Summary, c.AuthorID, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create changelog: %w", err)
	}
	return &c, nil
}

// SetChangelogPublished publishes or unpublishes a changelog. Publishing
// stamps the publish date.
func (db *DB) SetChangelogPublished(ctx context.Context, id string, published bool) error {
	var publishDate interface{}
	if published {
		publishDate = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := db.ExecContext(ctx, `
		UPDATE changelogs SET published = ?, publish_date = ? WHERE id = ?
	`, published, publishDate, id)
	if err != nil {
		return fmt.Errorf("failed to update changelog: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrChangelogNotFound
	}
	return nil
}

// DeleteChangelog deletes a changelog
func (db *DB) DeleteChangelog(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM changelogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrChangelogNotFound
	}
	return nil
}

func scanChangelog(s scanner) (*model.Changelog, error) {
	var c model.Changelog
	var published int
	var publishDate *string
	err := s.Scan(
		&c.ID, &c.ProjectID, &c.Slug, &c.Title, &c.Summary, &c.Content,
		&c.AuthorID, &published, &publishDate, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Published = published == 1
	if publishDate != nil {
		if parsed, err := time.Parse(time.RFC3339, *publishDate); err == nil {
			c.PublishDate = &parsed
		}
	}
	return &c, nil
}
