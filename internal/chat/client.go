// Package chat talks to the Gemini backend: prompt enhancement with the text
// model and image transformation with the image model.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fpang/archigen-transform/internal/assets"
	"github.com/fpang/archigen-transform/internal/auth"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned by every call when no credential is configured.
var ErrMissingAPIKey = auth.ErrMissingAPIKey

// Config configures a Client.
type Config struct {
	APIKey            string
	TextModel         string
	ImageModel        string
	RequestsPerMinute int // 0 disables pacing
}

// Client issues enhancement and transform calls through a Model.
type Client struct {
	model      Model
	hasKey     bool
	textModel  string
	imageModel string
	limiter    *rate.Limiter
}

// NewClient builds a client. model may be nil when no API key is set; every
// call then fails with ErrMissingAPIKey.
func NewClient(model Model, cfg Config) *Client {
	c := &Client{
		model:      model,
		hasKey:     strings.TrimSpace(cfg.APIKey) != "" && model != nil,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
	if c.textModel == "" {
		c.textModel = DefaultTextModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}
	return c
}

// Configured reports whether remote calls can be attempted.
func (c *Client) Configured() bool { return c.hasKey }

// TextModel returns the model used for enhancement.
func (c *Client) TextModel() string { return c.textModel }

// ImageModel returns the model used for transforms.
func (c *Client) ImageModel() string { return c.imageModel }

// Enhance rewrites a short user request into a tighter image prompt. Blank
// input returns "" without a remote call; an empty reply returns the input.
func (c *Client) Enhance(ctx context.Context, text string) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	parts, err := c.call(ctx, "enhance", c.textModel, []Part{TextPart(assets.RenderEnhancePrompt(text))}, nil)
	if err != nil {
		return "", remoteError(err)
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	if out := cleanReply(sb.String()); out != "" {
		return out, nil
	}
	return text, nil
}

// Transform asks the image model to edit source according to prompt, or to
// restyle it after reference when one is given.
func (c *Client) Transform(ctx context.Context, prompt string, source, reference *intake.EncodedImage) (*Outcome, error) {
	if !c.hasKey {
		return nil, ErrMissingAPIKey
	}
	if source == nil {
		return nil, errors.New("transform: source image is required")
	}

	parts := BuildTransformParts(prompt, source, reference)
	log.Info().
		Str("model", c.imageModel).
		Bool("has_reference", reference != nil).
		Int("prompt_length", len(prompt)).
		Msg("Sending image to Gemini for transformation")

	resp, err := c.call(ctx, "transform", c.imageModel, parts, []string{ModalityText, ModalityImage})
	if err != nil {
		return nil, remoteError(err)
	}
	return ParseOutcome(resp)
}

// BuildTransformParts orders the request: source image, optional reference
// image, then the rendered instruction.
func BuildTransformParts(prompt string, source, reference *intake.EncodedImage) []Part {
	parts := []Part{ImagePart(source.MediaType, source.Payload)}
	if reference != nil {
		parts = append(parts, ImagePart(reference.MediaType, reference.Payload))
	}
	return append(parts, TextPart(assets.RenderTransformPrompt(prompt, reference != nil)))
}

func (c *Client) call(ctx context.Context, op, model string, parts []Part, modalities []string) ([]Part, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.model.Generate(ctx, model, parts, modalities)
	elapsed := time.Since(start)

	result := "success"
	if err != nil {
		result = "error"
		log.Error().Err(err).Str("operation", op).Str("model", model).Dur("duration", elapsed).Msg("Gemini call failed")
	} else {
		log.Debug().Str("operation", op).Str("model", model).Int("parts", len(resp)).Dur("duration", elapsed).Msg("Gemini call complete")
	}

	metrics.New(metrics.Namespace).
		Dimension("Operation", op).
		Dimension("Result", result).
		Duration("GeminiLatencyMs", elapsed).
		Count("GeminiCalls").
		Property("model", model).
		Flush()

	return resp, err
}
