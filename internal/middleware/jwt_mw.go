package middleware

import (
	"log/slog"
	"strings"

	"user_registry/internal/model"
	"user_registry/internal/observability"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// An absent header yields ""; a header in any other shape is an invalid token.
func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", nil
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", service.ErrInvalidToken
	}
	return parts[1], nil
}

// JWTAuthMiddleware verifies the bearer token and that its user still exists.
func JWTAuthMiddleware(authService service.AuthService, prom *observability.Prom) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			var userID string
			userID, err = authService.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(AuthUserKey, userID)
				c.Next()
				return
			}
		}

		_, code, _ := Classify(err)
		prom.ObserveAuthRejection("authenticate", code)
		slog.DebugContext(c.Request.Context(), "authentication rejected", "reason", code, "err", err)
		RespondError(c, err)
	}
}

// UserIDFromContext returns the id stored by either gate.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(AuthUserKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// IdentityFromContext returns the identity stored by RoleMiddleware.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		return model.Identity{}, false
	}
	v, ok := c.Get(AuthRoleKey)
	if !ok {
		return model.Identity{}, false
	}
	role, ok := v.(model.Role)
	if !ok {
		return model.Identity{}, false
	}
	return model.Identity{UserID: userID, Role: role}, true
}
