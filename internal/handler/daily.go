package handler

import (
	"context"
	"net/http"

	"agilemate/internal/logger"
	"agilemate/internal/model"
	"agilemate/internal/service"

	"github.com/gin-gonic/gin"
)

type UpdateStore interface {
	Create(ctx context.Context, caller model.Identity, req model.CreateDailyUpdateRequest) (*model.DailyUpdate, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, projectID, date string, caller model.Identity) (*model.SummaryResponse, error)
}

type DailyHandler struct {
	projects ProjectStore
	updates  UpdateStore
	summary  Summarizer
	mirror   Mirror
}

func NewDailyHandler(projects ProjectStore, updates UpdateStore, summary Summarizer, mirror Mirror) *DailyHandler {
	return &DailyHandler{projects: projects, updates: updates, summary: summary, mirror: mirror}
}

// POST /api/daily-updates  body: {"projectId","whatDidI_Yesterday","whatWillI_Today","blockers"?,"date"?}
func (h *DailyHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateDailyUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	req, err := service.NormalizeDailyUpdate(req)
	if err != nil {
		writeError(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.projects.Authorize(ctx, req.ProjectID, id.ID); err != nil {
		writeError(c, err)
		return
	}
	u, err := h.updates.Create(ctx, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("daily.create", "uid", id.ID, "project_id", u.ProjectID, "date", u.DailyDate)
	if h.mirror != nil {
		go h.mirror.SyncDailyUpdate(context.Background(), u)
	}
	c.JSON(http.StatusCreated, u)
}

// GET /api/daily-updates/summary/:projectId/:date
func (h *DailyHandler) Summary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	projectID, date := c.Param("projectId"), c.Param("date")
	res, err := h.summary.Summarize(c.Request.Context(), projectID, date, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
