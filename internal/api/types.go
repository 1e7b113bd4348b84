package api

import (
	"context"

	"github.com/dori/feedhub/internal/board"
	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
)

// Storage is the persistence the API needs; *db.DB satisfies it.
type Storage interface {
	GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error)
	ListFeedback(ctx context.Context, projectID, viewerID string) ([]model.Feedback, error)
	GetFeedback(ctx context.Context, id, viewerID string) (*model.Feedback, error)
	CreateFeedback(ctx context.Context, projectID string, in db.NewFeedback) (*model.Feedback, error)
	UpdateFeedback(ctx context.Context, id, viewerID string, patch db.FeedbackPatch) (*model.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
	ToggleUpvote(ctx context.Context, feedbackID, viewerID string) (int, bool, error)
	LoadBoard(ctx context.Context, projectID, viewerID string) (*board.Board, error)
	GetUpvoters(ctx context.Context, feedbackID string) ([]string, error)
	GetProjects(ctx context.Context) ([]model.Project, error)
	GetTags(ctx context.Context, projectID string) ([]model.Tag, error)
	GetOrCreateTag(ctx context.Context, projectID, name, color string) (*model.Tag, error)
	UpdateTag(ctx context.Context, id, name, color string) error
	DeleteTag(ctx context.Context, id string) error
	GetChangelogs(ctx context.Context, projectID string, publishedOnly bool) ([]model.Changelog, error)
	GetChangelog(ctx context.Context, id string) (*model.Changelog, error)
}

var _ Storage = (*db.DB)(nil)

type createFeedbackRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
}

type patchFeedbackRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Tags        *[]string `json:"tags"`
}

type feedbackListResponse struct {
	Feedback []model.Feedback `json:"feedback"`
	Total    int              `json:"total"`
}

type upvoteResponse struct {
	Upvotes    int  `json:"upvotes"`
	HasUpvoted bool `json:"has_upvoted"`
}

type upvotersResponse struct {
	Upvoters []string `json:"upvoters"`
	Total    int      `json:"total"`
}

type projectListResponse struct {
	Projects []model.Project `json:"projects"`
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type tagListResponse struct {
	Tags []model.Tag `json:"tags"`
}

type roadmapColumn struct {
	Key   string           `json:"key"`
	Label string           `json:"label"`
	Icon  string           `json:"icon"`
	Color string           `json:"color"`
	Items []model.Feedback `json:"items"`
}

type roadmapResponse struct {
	Columns []roadmapColumn `json:"columns"`
}

type changelogListResponse struct {
	Changelogs []model.Changelog `json:"changelogs"`
}

type errorResponse struct {
	Error string `json:"error"`
}
