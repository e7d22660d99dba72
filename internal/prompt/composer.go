// Package prompt holds the user's editable instruction text.
package prompt

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownShortcut is returned for a preset or quick-edit id not in the catalog.
var ErrUnknownShortcut = errors.New("unknown prompt shortcut")

// Composer stores the current prompt text. Every write overwrites; there is
// no history.
type Composer struct {
	mu   sync.Mutex
	text string
}

// SetText replaces the prompt.
func (c *Composer) SetText(s string) {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
}

// Text returns the current prompt.
func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// ApplyPreset overwrites the prompt with a preset's text.
func (c *Composer) ApplyPreset(id string) (string, error) {
	return c.apply(Presets, "preset", id)
}

// ApplyQuickEdit overwrites the prompt with a quick edit's text.
func (c *Composer) ApplyQuickEdit(id string) (string, error) {
	return c.apply(QuickEdits, "quick edit", id)
}

func (c *Composer) apply(list []Shortcut, kind, id string) (string, error) {
	s, ok := lookup(list, id)
	if !ok {
		return "", fmt.Errorf("%s %q: %w", kind, id, ErrUnknownShortcut)
	}
	c.SetText(s.Prompt)
	return s.Prompt, nil
}

// Resolve returns the text of a preset or quick edit without touching any
// composer. Presets are checked first.
func Resolve(id string) (string, error) {
	if s, ok := lookup(Presets, id); ok {
		return s.Prompt, nil
	}
	if s, ok := lookup(QuickEdits, id); ok {
		return s.Prompt, nil
	}
	return "", fmt.Errorf("shortcut %q: %w", id, ErrUnknownShortcut)
}
