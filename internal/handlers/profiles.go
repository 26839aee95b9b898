package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type ProfilesHandler struct {
	store gateway.ProfileStore
}

func NewProfilesHandler(store gateway.ProfileStore) *ProfilesHandler {
	return &ProfilesHandler{store: store}
}

func (h *ProfilesHandler) List(c *gin.Context) {
	var filter models.ProfileFilter
	if v := c.Query("role"); v != "" {
		filter.Role = &v
	}
	if v := c.Query("organization_id"); v != "" {
		filter.OrganizationID = &v
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	profiles, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfilesHandler) Get(c *gin.Context) {
	profile, err := h.store.GetByID(c.Request.Context(), c.Param("profile_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfilesHandler) Create(c *gin.Context) {
	var req models.NewProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	profile, err := h.store.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfilesHandler) Update(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	profile, err := h.store.Update(c.Request.Context(), c.Param("profile_id"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfilesHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("profile_id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
