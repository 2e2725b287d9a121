package handler

import (
	"log/slog"
	"net/http"

	"user_registry/internal/middleware"
	"user_registry/internal/model"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles the user resource
type UserHandler struct {
	auth  service.AuthService
	users service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(auth service.AuthService, users service.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

// Register creates a user
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterUserRequest
	if !bindJSON(c, &req, http.StatusBadRequest) {
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Username)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	slog.InfoContext(c.Request.Context(), "user registered", "user_id", user.UserID, "role", user.Role)
	c.JSON(http.StatusCreated, gin.H{
		"message": "successful",
		"data":    []*model.User{user},
	})
}

// ListUsers returns every user. Status 201 is kept for existing clients.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": users})
}

// CheckToken answers once the authentication gate has accepted the caller.
func (h *UserHandler) CheckToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "successful"})
}

// RegisterUserRoutes registers user routes. authMW must run before adminMW.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	rg.POST("/users", h.Register)
	rg.GET("/allUsers", authMW, adminMW, h.ListUsers)
	rg.GET("/check-token", authMW, h.CheckToken)
}
