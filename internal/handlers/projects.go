package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/middleware"
	"ndt-portal-backend/internal/mirror"
	"ndt-portal-backend/internal/models"
)

type ProjectMirror = mirror.Mirror[models.Project, models.ProjectFilter, models.NewProject, models.ProjectPatch]

type ProjectsHandler struct {
	store  gateway.ProjectStore
	mirror *ProjectMirror
}

func NewProjectsHandler(store gateway.ProjectStore, m *ProjectMirror) *ProjectsHandler {
	return &ProjectsHandler{store: store, mirror: m}
}

func (h *ProjectsHandler) List(c *gin.Context) {
	var filter models.ProjectFilter
	filtered := false
	if v := c.Query("customer_id"); v != "" {
		filter.CustomerID = &v
		filtered = true
	}
	if v := c.Query("organization_id"); v != "" {
		filter.OrganizationID = &v
		filtered = true
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
		filtered = true
	}

	// Customers only ever see their own projects, whatever they asked for.
	if middleware.CallerRole(c) == models.RoleCustomer {
		id := middleware.CallerID(c)
		filter.CustomerID = &id
		filtered = true
	}

	if !filtered && h.mirror != nil {
		c.JSON(http.StatusOK, h.mirror.Items())
		return
	}

	projects, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectsHandler) Get(c *gin.Context) {
	project, err := h.store.GetByID(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		fail(c, err)
		return
	}
	if middleware.CallerRole(c) == models.RoleCustomer && project.CustomerID != middleware.CallerID(c) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectsHandler) Create(c *gin.Context) {
	var req models.NewProject
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	var (
		project models.Project
		err     error
	)
	if h.mirror != nil {
		project, err = h.mirror.Create(c.Request.Context(), req)
	} else {
		project, err = h.store.Create(c.Request.Context(), req)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectsHandler) Update(c *gin.Context) {
	var patch models.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	id := c.Param("project_id")
	var (
		project models.Project
		err     error
	)
	if h.mirror != nil {
		project, err = h.mirror.Update(c.Request.Context(), id, patch)
	} else {
		project, err = h.store.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectsHandler) Delete(c *gin.Context) {
	id := c.Param("project_id")
	var err error
	if h.mirror != nil {
		err = h.mirror.Delete(c.Request.Context(), id)
	} else {
		err = h.store.Delete(c.Request.Context(), id)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
