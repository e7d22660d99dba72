package cli

import (
	"errors"

	"github.com/fpang/archigen-transform/internal/auth"
)

// DescribeValidationError turns an auth.ValidationError into a one-line hint
// for the operator.
func DescribeValidationError(err error) string {
	var validationErr *auth.ValidationError
	if !errors.As(err, &validationErr) {
		return "API key validation failed"
	}
	switch validationErr.Type {
	case auth.ErrTypeNoKey:
		return "No API key configured. Set GEMINI_API_KEY (or API_KEY) in the environment or a .env file"
	case auth.ErrTypeInvalidKey:
		return "Invalid API key. Please check your API key and try again"
	case auth.ErrTypeNetworkError:
		return "Network error. Please check your internet connection"
	case auth.ErrTypeQuotaExceeded:
		return "API quota exceeded. Please try again later or check your usage limits"
	default:
		return "API key validation failed"
	}
}
