package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.TokenTTL != defaultTokenTTL {
		t.Errorf("expected default token TTL %s, got %s", defaultTokenTTL, cfg.TokenTTL)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.RateLimit.RequestsPerSecond != defaultRateLimitRPS {
		t.Errorf("expected default rate limit rps %v, got %v", defaultRateLimitRPS, cfg.RateLimit.RequestsPerSecond)
	}

	if cfg.RateLimit.Burst != defaultRateLimitBurst {
		t.Errorf("expected default rate limit burst %d, got %d", defaultRateLimitBurst, cfg.RateLimit.Burst)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/wikiprofile.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/wikiprofile.db" {
		t.Errorf("expected DB path %q, got %q", "/tmp/wikiprofile.db", cfg.DBPath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.JWTSecret != "super-secret" {
		t.Errorf("expected JWT secret super-secret, got %q", cfg.JWTSecret)
	}

	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("expected token TTL 2h, got %s", cfg.TokenTTL)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN dsn, got %q", cfg.SentryDSN)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("expected rate limit rps 2.5, got %v", cfg.RateLimit.RequestsPerSecond)
	}

	if cfg.RateLimit.Burst != 7 {
		t.Errorf("expected rate limit burst 7, got %d", cfg.RateLimit.Burst)
	}
}

func TestLoadMissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing, got nil")
	}

	if !strings.Contains(err.Error(), "JWT_SECRET is required") {
		t.Fatalf("expected error to mention JWT_SECRET, got %v", err)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SERVER_PORT value") {
		t.Fatalf("expected error to mention invalid SERVER_PORT value, got %v", err)
	}
}

func TestLoadInvalidTokenTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "soon")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid token TTL, got nil")
	}

	if !strings.Contains(err.Error(), "invalid TOKEN_TTL value") {
		t.Fatalf("expected error to mention invalid TOKEN_TTL value, got %v", err)
	}
}
