package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"ndt-portal-backend/internal/auth"
	"ndt-portal-backend/internal/models"
)

// StaffSignInFunc authenticates a back-office account and returns its profile.
type StaffSignInFunc func(ctx context.Context, email, password string) (models.UserProfile, error)

// CustomerAuthFunc authenticates a portal customer account.
type CustomerAuthFunc func(ctx context.Context, email, password string) (models.Customer, bool)

type AuthHandler struct {
	jwtSecret    string
	staffSignIn  StaffSignInFunc
	customerAuth CustomerAuthFunc
}

func NewAuthHandler(jwtSecret string, staffSignIn StaffSignInFunc, customerAuth CustomerAuthFunc) *AuthHandler {
	return &AuthHandler{
		jwtSecret:    jwtSecret,
		staffSignIn:  staffSignIn,
		customerAuth: customerAuth,
	}
}

// Login signs in a staff account (admin, manager or editor) and issues a
// local bearer token carrying the profile's role.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	profile, err := h.staffSignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}
	if !profile.IsActive {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "account disabled"})
		return
	}

	token, err := auth.Sign(h.jwtSecret, profile.ID, profile.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		Role:  profile.Role,
		ID:    profile.ID,
		Email: profile.Email,
	})
}

// CustomerLogin signs in a portal customer against the customers table (or
// the demo store) and issues a customer-scoped token.
func (h *AuthHandler) CustomerLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	customer, ok := h.customerAuth(c.Request.Context(), req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := auth.Sign(h.jwtSecret, customer.ID, customer.Email, models.RoleCustomer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		Role:  models.RoleCustomer,
		ID:    customer.ID,
		Email: customer.Email,
	})
}
