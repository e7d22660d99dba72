package auth

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMissingAPIKey is returned when no Gemini credential is configured. Its
// text is shown to the user verbatim.
var ErrMissingAPIKey = errors.New("API Key is missing. Please check your environment configuration.")

// GetAPIKey retrieves the Gemini API key.
// Priority order:
//  1. GEMINI_API_KEY environment variable
//  2. API_KEY environment variable
func GetAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		log.Debug().Msg("Using API key from GEMINI_API_KEY")
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv("API_KEY")); key != "" {
		log.Debug().Msg("Using API key from API_KEY")
		return key, nil
	}
	return "", ErrMissingAPIKey
}

// Mask returns a log-safe form of a key: the last four characters only.
func Mask(key string) string {
	if key == "" {
		return "(none)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
