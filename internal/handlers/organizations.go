package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type OrganizationsHandler struct {
	store gateway.OrganizationStore
}

func NewOrganizationsHandler(store gateway.OrganizationStore) *OrganizationsHandler {
	return &OrganizationsHandler{store: store}
}

func (h *OrganizationsHandler) List(c *gin.Context) {
	var filter models.OrganizationFilter
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	orgs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (h *OrganizationsHandler) Get(c *gin.Context) {
	org, err := h.store.GetByID(c.Request.Context(), c.Param("organization_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *OrganizationsHandler) Create(c *gin.Context) {
	var req models.NewOrganization
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	org, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *OrganizationsHandler) Update(c *gin.Context) {
	var patch models.OrganizationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	org, err := h.store.Update(c.Request.Context(), c.Param("organization_id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *OrganizationsHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("organization_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
