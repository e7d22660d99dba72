package auth

import (
	"errors"
	"testing"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "test-api-key-12345")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-api-key-12345" {
		t.Errorf("expected key %q, got %q", "test-api-key-12345", key)
	}
}

func TestGetAPIKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  ")
	t.Setenv("API_KEY", "fallback")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "fallback" {
		t.Errorf("expected fallback key, got %q", key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	_, err := GetAPIKey()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if err.Error() != "API Key is missing. Please check your environment configuration." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "(none)"},
		{"abc", "****"},
		{"AIzaSyExample1234", "****1234"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"invalid key text", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"quota text", errors.New("RESOURCE EXHAUSTED: quota"), ErrTypeQuotaExceeded},
		{"network text", errors.New("dial tcp: no such host"), ErrTypeNetworkError},
		{"other", errors.New("boom"), ErrTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got.Type != tt.want {
				t.Errorf("classifyError() type = %v, want %v", got.Type, tt.want)
			}
		})
	}
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		code int
		want ValidationErrorType
	}{
		{400, ErrTypeInvalidKey},
		{403, ErrTypeInvalidKey},
		{429, ErrTypeQuotaExceeded},
		{503, ErrTypeNetworkError},
		{418, ErrTypeUnknown},
	}
	for _, tt := range tests {
		if got := classifyAPIError(tt.code, "msg", nil); got.Type != tt.want {
			t.Errorf("code %d: type = %v, want %v", tt.code, got.Type, tt.want)
		}
	}
}
