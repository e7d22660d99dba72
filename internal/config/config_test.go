package config

import (
	"errors"
	"testing"
	"time"

	"github.com/fpang/archigen-transform/internal/auth"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "ARCHIGEN_TEXT_MODEL", "ARCHIGEN_IMAGE_MODEL",
		"PORT", "ARCHIGEN_SESSION_TTL", "ARCHIGEN_MAX_UPLOAD_MB", "ARCHIGEN_GEMINI_RPM",
		"ARCHIGEN_RATE_LIMIT_PER_MIN", "ARCHIGEN_METRICS",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	if cfg.HasAPIKey() {
		t.Error("expected no API key")
	}
	if cfg.TextModel != "" || cfg.ImageModel != "" {
		t.Errorf("models = %q/%q, want empty", cfg.TextModel, cfg.ImageModel)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 20*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want 20 MiB", cfg.MaxUploadBytes)
	}
	if cfg.MetricsEnabled {
		t.Error("metrics should be off by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", " key-1 ")
	t.Setenv("PORT", "9090")
	t.Setenv("ARCHIGEN_SESSION_TTL", "15m")
	t.Setenv("ARCHIGEN_METRICS", "true")
	t.Setenv("ARCHIGEN_IMAGE_MODEL", "gemini-3-pro-image-preview")

	cfg := FromEnv()
	if cfg.APIKey != "key-1" {
		t.Errorf("APIKey = %q, want key-1", cfg.APIKey)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Errorf("SessionTTL = %v, want 15m", cfg.SessionTTL)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled")
	}
	if cfg.ImageModel != "gemini-3-pro-image-preview" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("ARCHIGEN_SESSION_TTL", "-5m")
	t.Setenv("ARCHIGEN_METRICS", "maybe")

	cfg := FromEnv()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want fallback 8080", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want fallback 2h", cfg.SessionTTL)
	}
	if cfg.MetricsEnabled {
		t.Error("invalid boolean should fall back to false")
	}
}

func TestAPIKeyFromEnv_FallsBackToAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy")
	if got := APIKeyFromEnv(); got != "legacy" {
		t.Errorf("APIKeyFromEnv() = %q, want legacy", got)
	}

	t.Setenv("GEMINI_API_KEY", "primary")
	if got := APIKeyFromEnv(); got != "primary" {
		t.Errorf("APIKeyFromEnv() = %q, want primary", got)
	}
}

func TestFromEnv_APIKeyMatchesAuth(t *testing.T) {
	tests := []struct {
		name   string
		gemini string
		apiKey string
	}{
		{"none", "", ""},
		{"gemini", " g-key ", ""},
		{"api key only", "", "a-key"},
		{"both", "g-key", "a-key"},
		{"blank gemini", "   ", "a-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GEMINI_API_KEY", tt.gemini)
			t.Setenv("API_KEY", tt.apiKey)

			want, err := auth.GetAPIKey()
			if err != nil && !errors.Is(err, auth.ErrMissingAPIKey) {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FromEnv().APIKey; got != want {
				t.Errorf("APIKey = %q, auth.GetAPIKey() = %q", got, want)
			}
		})
	}
}
