package chat

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GenaiModel implements Model over the Gemini API.
type GenaiModel struct {
	client *genai.Client
}

var _ Model = (*GenaiModel)(nil)

// NewGeminiClient creates a Gemini API client for apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// NewGenaiModel wraps an existing client.
func NewGenaiModel(client *genai.Client) *GenaiModel {
	return &GenaiModel{client: client}
}

// Client exposes the underlying SDK client, used for key validation.
func (m *GenaiModel) Client() *genai.Client {
	return m.client
}

// Generate sends parts as a single user turn. Base64 payloads are decoded for
// the SDK, and returned inline data is re-encoded.
func (m *GenaiModel) Generate(ctx context.Context, model string, parts []Part, modalities []string) ([]Part, error) {
	reqParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			data, err := base64.StdEncoding.DecodeString(p.Data)
			if err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", p.MIMEType, err)
			}
			reqParts = append(reqParts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: data},
			})
			continue
		}
		reqParts = append(reqParts, &genai.Part{Text: p.Text})
	}

	var config *genai.GenerateContentConfig
	if len(modalities) > 0 {
		config = &genai.GenerateContentConfig{ResponseModalities: modalities}
	}

	contents := []*genai.Content{genai.NewContentFromParts(reqParts, genai.RoleUser)}
	resp, err := m.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Warn().Str("model", model).Msg("Received empty response from Gemini")
		return nil, nil
	}

	out := make([]Part, 0, len(resp.Candidates[0].Content.Parts))
	for _, p := range resp.Candidates[0].Content.Parts {
		switch {
		case p == nil || p.Thought:
		case p.InlineData != nil && len(p.InlineData.Data) > 0:
			out = append(out, ImagePart(p.InlineData.MIMEType, base64.StdEncoding.EncodeToString(p.InlineData.Data)))
		case p.Text != "":
			out = append(out, TextPart(p.Text))
		}
	}
	return out, nil
}
