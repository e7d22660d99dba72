package cli

import (
	"context"
	"fmt"

	"github.com/fpang/archigen-transform/internal/auth"
	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// InitClient builds the generation client for cfg. Without an API key it
// returns an unconfigured client whose calls fail with chat.ErrMissingAPIKey;
// the returned genai client is nil in that case.
func InitClient(ctx context.Context, cfg config.Config) (*chat.Client, *genai.Client, error) {
	chatCfg := chat.Config{
		APIKey:            cfg.APIKey,
		TextModel:         cfg.TextModel,
		ImageModel:        cfg.ImageModel,
		RequestsPerMinute: cfg.GeminiPerMinute,
	}
	if !cfg.HasAPIKey() {
		log.Warn().Msg("No Gemini API key configured, remote calls are disabled")
		return chat.NewClient(nil, chatCfg), nil, nil
	}

	gc, err := chat.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create Gemini client: %w", err)
	}
	client := chat.NewClient(chat.NewGenaiModel(gc), chatCfg)
	log.Info().
		Str("api_key", auth.Mask(cfg.APIKey)).
		Str("text_model", client.TextModel()).
		Str("image_model", client.ImageModel()).
		Msg("Gemini client initialized")
	return client, gc, nil
}

// CheckAPIKey runs the key validation call and logs the outcome. It never
// stops startup: an invalid key shows up again on the first real request.
func CheckAPIKey(ctx context.Context, gc *genai.Client, model string) bool {
	if gc == nil {
		return false
	}
	if err := auth.ValidateAPIKey(ctx, gc, model); err != nil {
		log.Warn().Err(err).Msg(DescribeValidationError(err))
		return false
	}
	return true
}
