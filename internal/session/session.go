// Package session keeps one workspace per browser tab: two image slots, the
// prompt composer and a workflow orchestrator. Sessions live in memory and
// expire after a period of inactivity.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/fpang/archigen-transform/internal/workflow"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Slot names.
const (
	SlotSource    = "source"
	SlotReference = "reference"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrUnknownSlot = errors.New("unknown image slot")
)

// Backend is what a session needs from the generation client.
type Backend interface {
	workflow.Transformer
	workflow.Enhancer
}

// Session is one user's workspace.
type Session struct {
	ID           string
	Created      time.Time
	Source       *intake.Slot
	Reference    *intake.Slot
	Composer     *prompt.Composer
	Orchestrator *workflow.Orchestrator
}

// State is the JSON view of a session.
type State struct {
	ID                string               `json:"sessionId"`
	Source            *intake.EncodedImage `json:"source,omitempty"`
	Reference         *intake.EncodedImage `json:"reference,omitempty"`
	SourceRevision    int                  `json:"sourceRevision"`
	ReferenceRevision int                  `json:"referenceRevision"`
	Prompt            string               `json:"prompt"`
	Workflow          workflow.Snapshot    `json:"workflow"`
}

// Slot returns the named image slot.
func (s *Session) Slot(name string) (*intake.Slot, error) {
	switch name {
	case SlotSource:
		return s.Source, nil
	case SlotReference:
		return s.Reference, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownSlot)
}

// State returns a snapshot of everything the UI renders.
func (s *Session) State() State {
	return State{
		ID:                s.ID,
		Source:            s.Source.Current(),
		Reference:         s.Reference.Current(),
		SourceRevision:    s.Source.Revision(),
		ReferenceRevision: s.Reference.Revision(),
		Prompt:            s.Composer.Text(),
		Workflow:          s.Orchestrator.Snapshot(),
	}
}

// Generate runs the orchestrator with the session's current inputs.
func (s *Session) Generate(ctx context.Context) error {
	_, err := s.Orchestrator.Generate(ctx, s.Composer.Text(), s.Source.Current(), s.Reference.Current())
	return err
}

// Enhance rewrites the current prompt in place and returns the new text.
// Blank prompts are left alone.
func (s *Session) Enhance(ctx context.Context) string {
	text := s.Composer.Text()
	if strings.TrimSpace(text) == "" {
		return text
	}
	enhanced := s.Orchestrator.Enhance(ctx, text)
	s.Composer.SetText(enhanced)
	return enhanced
}

// Store holds sessions with a sliding TTL.
type Store struct {
	cache    *cache.Cache
	ttl      time.Duration
	backend  Backend
	maxBytes int64
}

// NewStore creates a store. Sessions idle for ttl are evicted.
func NewStore(backend Backend, ttl time.Duration, maxUploadBytes int64) *Store {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ any) {
		log.Debug().Str("session_id", id).Msg("Session expired")
	})
	return &Store{cache: c, ttl: ttl, backend: backend, maxBytes: maxUploadBytes}
}

// Create starts a new empty session.
func (st *Store) Create() *Session {
	s := &Session{
		ID:           uuid.NewString(),
		Created:      time.Now(),
		Source:       intake.NewSlot(st.maxBytes),
		Reference:    intake.NewSlot(st.maxBytes),
		Composer:     &prompt.Composer{},
		Orchestrator: workflow.New(st.backend, st.backend),
	}
	st.cache.SetDefault(s.ID, s)
	log.Info().Str("session_id", s.ID).Int("active_sessions", st.cache.ItemCount()).Msg("Session created")
	return s
}

// Get returns a session and extends its lifetime.
func (st *Store) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s := v.(*Session)
	st.cache.SetDefault(id, s)
	return s, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.cache.ItemCount()
}
