package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type JobsHandler struct {
	store gateway.JobStore
}

func NewJobsHandler(store gateway.JobStore) *JobsHandler {
	return &JobsHandler{store: store}
}

func (h *JobsHandler) List(c *gin.Context) {
	var filter models.JobFilter
	if v := c.Query("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := c.Query("method"); v != "" {
		filter.Method = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	jobs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobsHandler) Get(c *gin.Context) {
	job, err := h.store.GetByID(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobsHandler) Create(c *gin.Context) {
	var req models.NewJob
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	job, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobsHandler) Update(c *gin.Context) {
	var patch models.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	job, err := h.store.Update(c.Request.Context(), c.Param("job_id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobsHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("job_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
