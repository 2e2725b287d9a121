package handler

import (
	"net/http"

	"user_registry/internal/middleware"
	"user_registry/internal/model"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Login exchanges email and password for an access token.
// Every failure here, missing fields included, is a 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req, http.StatusUnauthorized) {
		return
	}

	_, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, _, _ := middleware.Classify(err)
		if status < http.StatusInternalServerError {
			status = http.StatusUnauthorized
		}
		middleware.RespondErrorStatus(c, status, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"data":   gin.H{"AccessToken": token},
	})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}
