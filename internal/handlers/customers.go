package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/auth"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/mirror"
	"ndt-portal-backend/internal/models"
)

type CustomerMirror = mirror.Mirror[models.Customer, models.CustomerFilter, models.NewCustomer, models.CustomerPatch]

type CustomersHandler struct {
	store  gateway.CustomerStore
	mirror *CustomerMirror
}

func NewCustomersHandler(store gateway.CustomerStore, m *CustomerMirror) *CustomersHandler {
	return &CustomersHandler{store: store, mirror: m}
}

func (h *CustomersHandler) List(c *gin.Context) {
	var filter models.CustomerFilter
	filtered := false
	if v := c.Query("organization_id"); v != "" {
		filter.OrganizationID = &v
		filtered = true
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
		filtered = true
	}

	// The unfiltered back-office listing is served from the warm mirror; the
	// push subscription keeps it converged with out-of-band writes.
	if !filtered && h.mirror != nil {
		c.JSON(http.StatusOK, h.mirror.Items())
		return
	}

	customers, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomersHandler) Get(c *gin.Context) {
	customer, err := h.store.GetByID(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req models.NewCustomer
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	req.PasswordHash = hash
	req.Password = ""

	customer, err := h.create(c, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomersHandler) create(c *gin.Context, req models.NewCustomer) (models.Customer, error) {
	if h.mirror != nil {
		return h.mirror.Create(c.Request.Context(), req)
	}
	return h.store.Create(c.Request.Context(), req)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	var patch models.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			fail(c, err)
			return
		}
		patch.PasswordHash = &hash
		patch.Password = nil
	}

	id := c.Param("customer_id")
	var (
		customer models.Customer
		err      error
	)
	if h.mirror != nil {
		customer, err = h.mirror.Update(c.Request.Context(), id, patch)
	} else {
		customer, err = h.store.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	id := c.Param("customer_id")
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
