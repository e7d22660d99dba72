package chat

import "context"

// Gemini Model IDs
//
// | Model Name                  | API Model ID                | Use Case                      |
// |-----------------------------|-----------------------------|-------------------------------|
// | Gemini 2.5 Flash            | gemini-2.5-flash            | Prompt enhancement (text)     |
// | Gemini 2.5 Flash Image      | gemini-2.5-flash-image      | Image edit / restyle          |
// | Gemini 3 Pro Image          | gemini-3-pro-image-preview  | Higher fidelity image edits   |
const (
	ModelGemini25Flash      = "gemini-2.5-flash"
	ModelGemini25FlashImage = "gemini-2.5-flash-image"
	ModelGemini3ProImage    = "gemini-3-pro-image-preview"
)

// Defaults used when configuration leaves a model name empty.
const (
	DefaultTextModel  = ModelGemini25Flash
	DefaultImageModel = ModelGemini25FlashImage
)

// Response modalities requested from the backend.
const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
)

// Part is one piece of a request or response. Image parts carry a media type
// and a base64 payload; text parts carry Text.
type Part struct {
	MIMEType string
	Data     string
	Text     string
}

// IsImage reports whether p carries inline image data.
func (p Part) IsImage() bool {
	return p.MIMEType != "" && p.Data != ""
}

// ImagePart builds an inline image part from a base64 payload.
func ImagePart(mimeType, payload string) Part {
	return Part{MIMEType: mimeType, Data: payload}
}

// TextPart builds a text part.
func TextPart(s string) Part {
	return Part{Text: s}
}

// Model is a single-turn generation backend. It returns the parts of the
// first candidate only; an empty slice means the backend produced nothing.
type Model interface {
	Generate(ctx context.Context, model string, parts []Part, modalities []string) ([]Part, error)
}
