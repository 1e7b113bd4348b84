package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dori/feedhub/internal/model"
	"github.com/google/uuid"
)

// GetProjects returns all projects with their feedback counts
func (db *DB) GetProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, p.slug, p.name, p.created_at,
		       (SELECT COUNT(*) FROM feedback WHERE project_id = p.id) as feedback_count,
		       (SELECT COUNT(*) FROM feedback WHERE project_id = p.id AND status = 'done') as done_count
		FROM projects p
		ORDER BY p.created_at, p.slug
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.CreatedAt, &p.FeedbackCount, &p.DoneCount); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// GetProjectBySlug returns a single project by slug
func (db *DB) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	err := db.QueryRowContext(ctx, `
		SELECT id, slug, name, created_at FROM projects WHERE slug = ?
	`, slug).Scan(&p.ID, &p.Slug, &p.Name, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a new project; the slug is derived from the name
// when empty
func (db *DB) CreateProject(ctx context.Context, name, slug string) (*model.Project, error) {
	if slug == "" {
		slug = model.Slugify(name)
	}
	p := model.Project{
		ID:        uuid.New().String(),
		Slug:      slug,
		Name:      name,
		CreatedAt: time.Now(),
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, slug, name, created_at) VALUES (?, ?, ?, ?)
	`, p.ID, p.Slug, p.Name, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &p, nil
}

// EnsureProject returns the project with the given slug, creating it if needed
func (db *DB) EnsureProject(ctx context.Context, slug string) (*model.Project, error) {
	p, err := db.GetProjectBySlug(ctx, slug)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}
	return db.CreateProject(ctx, slug, slug)
}
