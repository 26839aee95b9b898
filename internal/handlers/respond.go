package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

// fail maps the gateway error taxonomy onto HTTP statuses. Gateway and
// storage failures are terminal for the request; nothing retries.
func fail(c *gin.Context, err error) {
	var verr *gateway.ValidationError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed", Message: verr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "operation failed", Message: err.Error()})
	}
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
