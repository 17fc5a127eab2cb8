package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Wikiprofile server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	JWTSecret     string
	TokenTTL      time.Duration
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
}

// RateLimitConfig controls the per-client HTTP rate limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultDBPath        = "./data/wikiprofile.db"
	defaultServerPort    = 8080
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"
	defaultTokenTTL      = 24 * time.Hour
	defaultShutdownGrace = 10 * time.Second

	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 20
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
// The JWT secret has no default: the server must not mint tokens with a guessable key.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   getEnv("ENV", defaultEnvironment),
		TokenTTL:      defaultTokenTTL,
		ShutdownGrace: defaultShutdownGrace,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: defaultRateLimitRPS,
			Burst:             defaultRateLimitBurst,
			ClientTTL:         defaultRateLimitTTL,
		},
	}

	if cfg.JWTSecret == "" {
		return nil, eris.New("JWT_SECRET is required")
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	if ttlValue := os.Getenv("TOKEN_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid TOKEN_TTL value: %s", ttlValue)
		}
		cfg.TokenTTL = ttl
	}

	if rpsValue := os.Getenv("RATE_LIMIT_RPS"); rpsValue != "" {
		rps, err := strconv.ParseFloat(rpsValue, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
		}
		cfg.RateLimit.RequestsPerSecond = rps
	}

	if burstValue := os.Getenv("RATE_LIMIT_BURST"); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
		}
		cfg.RateLimit.Burst = burst
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
