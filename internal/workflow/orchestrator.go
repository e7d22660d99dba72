// Package workflow sequences a transform request: validation, the remote
// call, and the resulting status and outcome.
package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSourceRequired is the validation message for a missing source image.
	ErrSourceRequired = errors.New("Please upload a source image of the house/model.")
	// ErrPromptOrReference is the validation message when there is nothing to
	// steer the transform.
	ErrPromptOrReference = errors.New("Please provide a prompt or a reference image (or both).")
	// ErrSuperseded is returned to a Generate call whose response arrived
	// after a newer Generate had started. Its result is discarded.
	ErrSuperseded = errors.New("generation superseded by a newer request")
)

// Transformer performs the remote image transform.
type Transformer interface {
	Transform(ctx context.Context, prompt string, source, reference *intake.EncodedImage) (*chat.Outcome, error)
}

// Enhancer rewrites prompt text.
type Enhancer interface {
	Enhance(ctx context.Context, text string) (string, error)
}

// Snapshot is a consistent copy of the orchestrator state.
type Snapshot struct {
	Status       Status        `json:"status"`
	ErrorMessage string        `json:"error,omitempty"`
	Outcome      *chat.Outcome `json:"outcome,omitempty"`
	Token        uint64        `json:"token"`

	// Validation is the last inline validation message. It is cleared when a
	// generate passes validation.
	Validation string `json:"validation,omitempty"`
}

// Orchestrator owns the workflow status, the last outcome and the last error
// for one session.
type Orchestrator struct {
	transformer Transformer
	enhancer    Enhancer

	mu         sync.Mutex
	status     Status
	outcome    *chat.Outcome
	errMsg     string
	validation string
	token      uint64
	// enhancing counts Enhance calls that moved the status to EnhancingPrompt
	// and have not returned yet.
	enhancing int
}

// New creates an idle orchestrator.
func New(t Transformer, e Enhancer) *Orchestrator {
	return &Orchestrator{transformer: t, enhancer: e}
}

// IsValidationError reports whether err is one of the inline validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSourceRequired) || errors.Is(err, ErrPromptOrReference)
}

// Generate validates its inputs and runs one transform. Validation failures
// leave the status untouched. A remote failure moves to Error and is also
// returned; there is no retry.
func (o *Orchestrator) Generate(ctx context.Context, promptText string, source, reference *intake.EncodedImage) (*chat.Outcome, error) {
	o.mu.Lock()
	switch {
	case source == nil:
		o.validation = ErrSourceRequired.Error()
		o.mu.Unlock()
		return nil, ErrSourceRequired
	case strings.TrimSpace(promptText) == "" && reference == nil:
		o.validation = ErrPromptOrReference.Error()
		o.mu.Unlock()
		return nil, ErrPromptOrReference
	}

	o.validation = ""
	o.errMsg = ""
	o.outcome = nil
	o.status = Generating
	o.token++
	token := o.token
	o.mu.Unlock()

	log.Info().Uint64("token", token).Bool("has_reference", reference != nil).Msg("Generation started")
	start := time.Now()
	outcome, err := o.transformer.Transform(ctx, promptText, source, reference)

	o.mu.Lock()
	defer o.mu.Unlock()
	if token != o.token {
		log.Warn().
			Uint64("token", token).
			Uint64("latest", o.token).
			Dur("duration", time.Since(start)).
			Msg("Discarding stale generation response")
		return nil, ErrSuperseded
	}

	if err != nil {
		o.status = Error
		o.errMsg = err.Error()
		log.Error().Err(err).Uint64("token", token).Dur("duration", time.Since(start)).Msg("Generation failed")
		return nil, err
	}
	o.status = Success
	o.outcome = outcome
	log.Info().Uint64("token", token).Dur("duration", time.Since(start)).Msg("Generation succeeded")
	return outcome, nil
}

// Enhance returns an improved version of text. It never fails: a remote error
// is logged and the original text comes back. Blank text returns "" and
// touches nothing; while a generation is running the text is returned as is.
// Only an Idle orchestrator shows EnhancingPrompt. Success and Error are kept
// so the last result stays visible, and the status returns to Idle when the
// last overlapping enhancement finishes.
func (o *Orchestrator) Enhance(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	o.mu.Lock()
	if o.status == Generating {
		o.mu.Unlock()
		return text
	}
	tracked := o.status == Idle || o.status == EnhancingPrompt
	if tracked {
		o.status = EnhancingPrompt
		o.enhancing++
	}
	o.mu.Unlock()

	enhanced, err := o.enhancer.Enhance(ctx, text)

	if tracked {
		o.mu.Lock()
		o.enhancing--
		if o.enhancing == 0 && o.status == EnhancingPrompt {
			o.status = Idle
		}
		o.mu.Unlock()
	}

	if err != nil {
		log.Warn().Err(err).Msg("Prompt enhancement failed, keeping original text")
		return text
	}
	if strings.TrimSpace(enhanced) == "" {
		return text
	}
	return enhanced
}

// ClearValidation drops the inline validation message. Callers invoke it when
// the inputs it complained about change.
func (o *Orchestrator) ClearValidation() {
	o.mu.Lock()
	o.validation = ""
	o.mu.Unlock()
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Status:       o.status,
		ErrorMessage: o.errMsg,
		Outcome:      o.outcome,
		Token:        o.token,
		Validation:   o.validation,
	}
}

// Status returns the current status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}
