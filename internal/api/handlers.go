package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
)

// ViewerHeader carries the profile id of the caller
const ViewerHeader = "X-Viewer-ID"

const titleRequiredMessage = "title is required when creating feedback."

// Register wires up all API routes on the provided Echo instance.
// defaultViewer is used when a request carries no viewer header.
func Register(e *echo.Echo, store Storage, defaultViewer string, logger *log.Logger) {
	h := &handlers{store: store, viewer: defaultViewer, log: logger}

	e.GET("/healthz", h.healthz)
	e.GET("/api/v1/projects", h.listProjects)

	g := e.Group("/api/v1/projects/:slug")
	g.GET("/feedback", h.listFeedback)
	g.POST("/feedback", h.createFeedback)
	g.GET("/feedback/:id", h.getFeedback)
	g.PATCH("/feedback/:id", h.patchFeedback)
	g.DELETE("/feedback/:id", h.deleteFeedback)
	g.POST("/feedback/:id/upvotes", h.toggleUpvote)
	g.GET("/feedback/:id/upvoters", h.upvoters)
	g.GET("/tags", h.listTags)
	g.POST("/tags", h.createTag)
	g.PATCH("/tags/:tagID", h.updateTag)
	g.DELETE("/tags/:tagID", h.deleteTag)
	g.GET("/roadmap", h.roadmap)
	g.GET("/changelogs", h.changelogs)
	g.GET("/changelogs/:id", h.changelog)
}

type handlers struct {
	store  Storage
	viewer string
	log    *log.Logger
}

func (h *handlers) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *handlers) viewerID(c echo.Context) string {
	if v := strings.TrimSpace(c.Request().Header.Get(ViewerHeader)); v != "" {
		return v
	}
	return h.viewer
}

func (h *handlers) project(c echo.Context) (*model.Project, error) {
	return h.store.GetProjectBySlug(c.Request().Context(), c.Param("slug"))
}

// feedbackInProject loads the :id feedback and checks it belongs to the
// :slug project
func (h *handlers) feedbackInProject(c echo.Context) (*model.Project, *model.Feedback, error) {
	project, err := h.project(c)
	if err != nil {
		return nil, nil, err
	}
	f, err := h.store.GetFeedback(c.Request().Context(), c.Param("id"), h.viewerID(c))
	if err != nil {
		return nil, nil, err
	}
	if f.ProjectID != project.ID {
		return nil, nil, db.ErrFeedbackNotFound
	}
	return project, f, nil
}

func (h *handlers) listFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}

	items, err := h.store.ListFeedback(ctx, project.ID, h.viewerID(c))
	if err != nil {
		return h.fail(c, err)
	}

	filter := model.FeedbackFilter{
		Search: c.QueryParam("search"),
		Tags:   c.QueryParam("tags"),
		Status: c.QueryParam("status"),
	}
	items = filter.Apply(items)
	if items == nil {
		items = []model.Feedback{}
	}
	return c.JSON(http.StatusOK, feedbackListResponse{Feedback: items, Total: len(items)})
}

func (h *handlers) createFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req createFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	f, err := h.store.CreateFeedback(ctx, project.ID, db.NewFeedback{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      h.viewerID(c),
		TagNames:    req.Tags,
	})
	if errors.Is(err, db.ErrTitleRequired) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: titleRequiredMessage})
	}
	if err != nil {
		return h.fail(c, err)
	}

	h.log.WithFields(log.Fields{"project": project.Slug, "id": f.ID}).Info("feedback created")
	return c.JSON(http.StatusCreated, f)
}

func (h *handlers) getFeedback(c echo.Context) error {
	_, f, err := h.feedbackInProject(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *handlers) patchFeedback(c echo.Context) error {
	_, f, err := h.feedbackInProject(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req patchFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	updated, err := h.store.UpdateFeedback(c.Request().Context(), f.ID, h.viewerID(c), db.FeedbackPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		TagNames:    req.Tags,
	})
	if err != nil {
		return h.fail(c, err)
	}

	if updated.Status != f.Status {
		h.log.WithFields(log.Fields{
			"id":   f.ID,
			"from": f.Status,
			"to":   updated.Status,
		}).Info("feedback status changed")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteFeedback(c echo.Context) error {
	_, f, err := h.feedbackInProject(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.store.DeleteFeedback(c.Request().Context(), f.ID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) toggleUpvote(c echo.Context) error {
	_, f, err := h.feedbackInProject(c)
	if err != nil {
		return h.fail(c, err)
	}
	upvotes, upvoted, err := h.store.ToggleUpvote(c.Request().Context(), f.ID, h.viewerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, upvoteResponse{Upvotes: upvotes, HasUpvoted: upvoted})
}

func (h *handlers) upvoters(c echo.Context) error {
	_, f, err := h.feedbackInProject(c)
	if err != nil {
		return h.fail(c, err)
	}
	ids, err := h.store.GetUpvoters(c.Request().Context(), f.ID)
	if err != nil {
		return h.fail(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(http.StatusOK, upvotersResponse{Upvoters: ids, Total: len(ids)})
}

func (h *handlers) listProjects(c echo.Context) error {
	projects, err := h.store.GetProjects(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(http.StatusOK, projectListResponse{Projects: projects})
}

func (h *handlers) listTags(c echo.Context) error {
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}
	tags, err := h.store.GetTags(c.Request().Context(), project.ID)
	if err != nil {
		return h.fail(c, err)
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return c.JSON(http.StatusOK, tagListResponse{Tags: tags})
}

// createTag returns the existing tag when the name is already in the catalog
func (h *handlers) createTag(c echo.Context) error {
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	tag, err := h.store.GetOrCreateTag(c.Request().Context(), project.ID, req.Name, req.Color)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tag)
}

// tagInProject finds the :tagID tag in the :slug project's catalog
func (h *handlers) tagInProject(c echo.Context) (*model.Tag, error) {
	project, err := h.project(c)
	if err != nil {
		return nil, err
	}
	tags, err := h.store.GetTags(c.Request().Context(), project.ID)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].ID == c.Param("tagID") {
			return &tags[i], nil
		}
	}
	return nil, db.ErrTagNotFound
}

func (h *handlers) updateTag(c echo.Context) error {
	tag, err := h.tagInProject(c)
	if err != nil {
		return h.fail(c, err)
	}

	req := tagRequest{Name: tag.Name, Color: tag.Color}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if err := h.store.UpdateTag(c.Request().Context(), tag.ID, req.Name, req.Color); err != nil {
		return h.fail(c, err)
	}
	tag.Name = model.NormalizeTagName(req.Name)
	tag.Color = req.Color
	return c.JSON(http.StatusOK, tag)
}

func (h *handlers) deleteTag(c echo.Context) error {
	tag, err := h.tagInProject(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.store.DeleteTag(c.Request().Context(), tag.ID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) roadmap(c echo.Context) error {
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}
	b, err := h.store.LoadBoard(c.Request().Context(), project.ID, h.viewerID(c))
	if err != nil {
		return h.fail(c, err)
	}

	resp := roadmapResponse{Columns: []roadmapColumn{}}
	for _, col := range b.Columns() {
		items := col.Items
		if items == nil {
			items = []model.Feedback{}
		}
		resp.Columns = append(resp.Columns, roadmapColumn{
			Key:   string(col.Key),
			Label: col.Status.Label,
			Icon:  col.Status.Icon,
			Color: col.Status.Color,
			Items: items,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) changelogs(c echo.Context) error {
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}
	logs, err := h.store.GetChangelogs(c.Request().Context(), project.ID, true)
	if err != nil {
		return h.fail(c, err)
	}
	if logs == nil {
		logs = []model.Changelog{}
	}
	return c.JSON(http.StatusOK, changelogListResponse{Changelogs: logs})
}

// changelog serves one published changelog of the :slug project
func (h *handlers) changelog(c echo.Context) error {
	project, err := h.project(c)
	if err != nil {
		return h.fail(c, err)
	}
	entry, err := h.store.GetChangelog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if entry.ProjectID != project.ID || !entry.Published {
		return h.fail(c, db.ErrChangelogNotFound)
	}
	return c.JSON(http.StatusOK, entry)
}

// fail maps storage errors to HTTP responses
func (h *handlers) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, db.ErrTitleRequired),
		errors.Is(err, db.ErrInvalidStatus),
		errors.Is(err, db.ErrTagNameRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, db.ErrProjectNotFound),
		errors.Is(err, db.ErrFeedbackNotFound),
		errors.Is(err, db.ErrTagNotFound),
		errors.Is(err, db.ErrChangelogNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	}

	h.log.WithFields(log.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).WithError(err).Error("request failed")
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
