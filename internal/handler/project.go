package handler

import (
	"context"
	"net/http"

	"agilemate/internal/logger"
	"agilemate/internal/model"

	"github.com/gin-gonic/gin"
)

type ProjectStore interface {
	Create(ctx context.Context, owner model.Identity, name, description string) (*model.Project, error)
	ListForMember(ctx context.Context, uid string) ([]model.Project, error)
	Authorize(ctx context.Context, projectID, uid string) (*model.Project, error)
}

type ProjectHandler struct {
	projects ProjectStore
	mirror   Mirror
}

func NewProjectHandler(projects ProjectStore, mirror Mirror) *ProjectHandler {
	return &ProjectHandler{projects: projects, mirror: mirror}
}

// POST /api/projects  body: {"name","description"}
func (h *ProjectHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req model.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.projects.Create(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("project.create", "uid", id.ID, "project_id", p.ID)
	if h.mirror != nil {
		go h.mirror.SyncProject(context.Background(), p)
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	projects, err := h.projects.ListForMember(c.Request.Context(), id.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if projects == nil {
		projects = []model.Project{}
	}
	c.JSON(http.StatusOK, projects)
}
