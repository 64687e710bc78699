package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Config holds the process configuration, read once at startup.
type Config struct {
	Port         string
	DatabasePath string
	InferenceURL string

	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration

	CookieSameSite http.SameSite
}

// Load reads configuration from the environment. The signing key has no
// default: a process without JWT_SECRET_KEY must not start.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("LEAFSCAN_PORT", "8080"),
		DatabasePath: getEnv("LEAFSCAN_DB_PATH", "./leafscan.db"),
		InferenceURL: getEnv("LEAFSCAN_INFERENCE_URL", "http://localhost:9000/predict"),
		JWTSecret:    os.Getenv("JWT_SECRET_KEY"),
		JWTAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY not set")
	}

	hours, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %q", os.Getenv("JWT_EXPIRATION_HOURS"))
	}
	cfg.TokenTTL = time.Duration(hours) * time.Hour

	switch getEnv("LEAFSCAN_COOKIE_SAMESITE", "strict") {
	case "strict":
		cfg.CookieSameSite = http.SameSiteStrictMode
	case "lax":
		cfg.CookieSameSite = http.SameSiteLaxMode
	default:
		return nil, fmt.Errorf("invalid LEAFSCAN_COOKIE_SAMESITE: %q (want strict or lax)", os.Getenv("LEAFSCAN_COOKIE_SAMESITE"))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
