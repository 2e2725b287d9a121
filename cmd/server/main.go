package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_registry/internal/config"
	"user_registry/internal/handler"
	"user_registry/internal/observability"
	"user_registry/internal/repository"
	"user_registry/internal/service"
	"user_registry/internal/utils"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	// --- Configuration ---
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		slog.Error("failed to load app config", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(appCfg.Env)
	slog.SetDefault(log)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Error("failed to load DB config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(ctx, appCfg.ServiceName, appCfg.OTLPEndpoint)
	if err != nil {
		log.Error("failed to init tracer", "err", err)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := config.Migrate(ctx, dbPool); err != nil {
		log.Error("failed to migrate database", "err", err)
		os.Exit(1)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	// --- Wiring ---
	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.TokenTTL)
	userRepo := repository.NewUserRepository(dbPool, prom)
	authService := service.NewAuthService(userRepo, jwtUtil, appCfg.InitialAdminEmail)
	userService := service.NewUserService(userRepo)

	router := handler.NewRouter(handler.RouterDeps{
		Env:         appCfg.Env,
		ServiceName: appCfg.ServiceName,
		CORSOrigins: appCfg.CORSOrigins,
		Logger:      log,
		Prom:        prom,
		Gatherer:    reg,
		Ping:        dbPool.Ping,
		AuthService: authService,
		UserService: userService,
	})

	srv := &http.Server{
		Addr:              ":" + appCfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", appCfg.Port, "env", appCfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return
	}
	log.Info("shutdown complete")
}
