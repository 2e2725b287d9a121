package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds the runtime settings of the API process
type AppConfig struct {
	Env               string
	Port              string
	JWTSecret         string
	TokenTTL          time.Duration
	InitialAdminEmail string
	CORSOrigins       []string
	ServiceName       string
	OTLPEndpoint      string
}

// LoadAppConfig loads application configuration from environment variables
func LoadAppConfig() (*AppConfig, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in environment")
	}

	cfg := &AppConfig{
		Env:               getEnv("APP_ENV", "dev"),
		Port:              getEnv("PORT", "3000"),
		JWTSecret:         jwtSecret,
		TokenTTL:          15 * time.Minute,
		InitialAdminEmail: strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL")),
		CORSOrigins:       splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ServiceName:       getEnv("OTEL_SERVICE_NAME", "user-api"),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if v := os.Getenv("JWT_EXPIRATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			slog.Warn("invalid JWT_EXPIRATION_MINUTES, keeping default", "value", v, "default", cfg.TokenTTL)
		} else {
			cfg.TokenTTL = time.Duration(minutes) * time.Minute
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
