package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"user_registry/internal/middleware"
	"user_registry/internal/observability"
	"user_registry/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps is everything NewRouter needs to build the HTTP surface.
type RouterDeps struct {
	Env         string
	ServiceName string
	CORSOrigins []string

	Logger   *slog.Logger
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     func(ctx context.Context) error

	AuthService service.AuthService
	UserService service.UserService
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", fmt.Sprint(recovered),
			"request_id", middleware.RequestIDFromContext(c),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Internal server error",
		})
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	if d.ServiceName != "" {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middleware.CORS(d.CORSOrigins))

	health := NewHealthHandler(d.Ping)
	r.GET("/", health.Root)
	r.GET("/health", health.Health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	jwtAuthMW := middleware.JWTAuthMiddleware(d.AuthService, d.Prom)
	adminRoleMW := middleware.AdminMiddleware(d.AuthService, d.Prom)

	api := r.Group("/api")
	NewAuthHandler(d.AuthService).RegisterAuthRoutes(api)
	NewUserHandler(d.AuthService, d.UserService).RegisterUserRoutes(api, jwtAuthMW, adminRoleMW)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Not Found"})
	})

	return r
}
