package middleware

import (
	"log/slog"

	"user_registry/internal/model"
	"user_registry/internal/observability"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware lets the request through only when the caller's stored role
// is one of allowedRoles. It reads the role from the store on every request.
func RoleMiddleware(authService service.AuthService, prom *observability.Prom, allowedRoles ...model.Role) gin.HandlerFunc {
	allowed := append([]model.Role(nil), allowedRoles...)

	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			var identity model.Identity
			identity, err = authService.Authorize(c.Request.Context(), token, allowed)
			if err == nil {
				c.Set(AuthUserKey, identity.UserID)
				c.Set(AuthRoleKey, identity.Role)
				c.Next()
				return
			}
		}

		_, code, _ := Classify(err)
		prom.ObserveAuthRejection("authorize", code)
		slog.DebugContext(c.Request.Context(), "authorization rejected", "reason", code, "err", err)
		RespondError(c, err)
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware(authService service.AuthService, prom *observability.Prom) gin.HandlerFunc {
	return RoleMiddleware(authService, prom, model.RoleAdmin)
}
