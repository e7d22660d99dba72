package chat

import (
	"errors"
	"strings"

	"google.golang.org/genai"
)

// Outcome is a successful transform: the result image as a data URI plus
// any note the model returned with it.
type Outcome struct {
	ImageURI string `json:"resultImageUri"`
	Note     string `json:"assistantNote,omitempty"`
}

var (
	// ErrNoImage means the response had neither an image nor text.
	ErrNoImage = errors.New("No image generated.")
	// ErrTransformFailed stands in for a remote failure without a message.
	ErrTransformFailed = errors.New("Failed to generate transformation.")
)

// RefusalError is returned when the model answered with text only.
type RefusalError struct {
	Text string
}

func (e *RefusalError) Error() string {
	return "The model returned text but no image. It might have refused the request: " + e.Text
}

// RemoteError carries the backend's own message for a failed call.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.Err }

// ParseOutcome scans response parts. The first image part is the result; the
// last non-empty text part is the note.
func ParseOutcome(parts []Part) (*Outcome, error) {
	var out Outcome
	for _, p := range parts {
		switch {
		case p.IsImage():
			if out.ImageURI == "" {
				out.ImageURI = "data:" + p.MIMEType + ";base64," + p.Data
			}
		case p.Text != "":
			out.Note = p.Text
		}
	}

	if out.ImageURI == "" {
		if out.Note != "" {
			return nil, &RefusalError{Text: out.Note}
		}
		return nil, ErrNoImage
	}
	return &out, nil
}

// remoteError maps a transport or API failure to a user-facing message.
func remoteError(err error) error {
	if errors.Is(err, ErrMissingAPIKey) {
		return err
	}

	msg := ""
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		msg = apiErr.Message
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		msg = apiErrPtr.Message
	}
	if strings.TrimSpace(msg) == "" {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		msg = ErrTransformFailed.Error()
	}
	return &RemoteError{Message: msg, Err: err}
}
