// Package config loads runtime configuration from the environment.
//
// An optional .env / .env.local file is read first (never overriding variables
// that are already set), then every setting is resolved from the process
// environment with a default. A missing Gemini API key is not an error here:
// the server still starts and surfaces the problem to the user on the first
// remote call.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fpang/archigen-transform/internal/auth"
)

// Config represents application configuration loaded from environment variables.
// Empty model names select the chat package defaults.
type Config struct {
	APIKey           string
	TextModel        string
	ImageModel       string
	Port             int
	SessionTTL       time.Duration
	MaxUploadBytes   int64
	GeminiPerMinute  int
	RateLimitPerMin  int
	MetricsEnabled   bool
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// Load reads .env files (if present) and resolves the configuration.
func Load() Config {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err == nil {
			log.Debug().Str("file", file).Msg("Loaded environment file")
		}
	}
	return FromEnv()
}

// FromEnv resolves the configuration from the current process environment only.
func FromEnv() Config {
	return Config{
		APIKey:           APIKeyFromEnv(),
		TextModel:        getEnv("ARCHIGEN_TEXT_MODEL", ""),
		ImageModel:       getEnv("ARCHIGEN_IMAGE_MODEL", ""),
		Port:             getEnvInt("PORT", 8080),
		SessionTTL:       getEnvDuration("ARCHIGEN_SESSION_TTL", 2*time.Hour),
		MaxUploadBytes:   int64(getEnvInt("ARCHIGEN_MAX_UPLOAD_MB", 20)) * 1024 * 1024,
		GeminiPerMinute:  getEnvInt("ARCHIGEN_GEMINI_RPM", 10),
		RateLimitPerMin:  getEnvInt("ARCHIGEN_RATE_LIMIT_PER_MIN", 120),
		MetricsEnabled:   getEnvBool("ARCHIGEN_METRICS", false),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
}

// APIKeyFromEnv returns the Gemini credential resolved by auth.GetAPIKey, or
// "" when none is configured.
func APIKeyFromEnv() string {
	key, err := auth.GetAPIKey()
	if err != nil {
		return ""
	}
	return key
}

// HasAPIKey reports whether a credential is configured.
func (c Config) HasAPIKey() bool {
	return c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
			return i
		}
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid integer setting")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid boolean setting")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid duration setting")
	}
	return fallback
}
