package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	errInvalidPort         = errors.New("config: invalid PORT number")
	errTimeoutOutOfRange   = errors.New("config: FETCH_TIMEOUT_SECONDS must be 1-120")
	errProbeTimeoutTooLong = errors.New("config: PROBE_TIMEOUT_SECONDS must not exceed FETCH_TIMEOUT_SECONDS")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port           string
	LogLevel       string
	AllowedOrigins []string
	FetchTimeout   time.Duration
	ProbeTimeout   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "ERROR"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		FetchTimeout:   time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
		ProbeTimeout:   time.Duration(getEnvAsInt("PROBE_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.FetchTimeout < time.Second || c.FetchTimeout > 120*time.Second {
		return fmt.Errorf("%w: got %s", errTimeoutOutOfRange, c.FetchTimeout)
	}

	if c.ProbeTimeout > c.FetchTimeout {
		return fmt.Errorf("%w: got %s", errProbeTimeoutTooLong, c.ProbeTimeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsList(key string, fallback []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}

	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
