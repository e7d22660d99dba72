// Package presenter shows a transform result with a press-and-hold
// before/after comparison and saves it to disk.
package presenter

//go:generate templ generate

import (
	"strings"
	"sync"

	"github.com/fpang/archigen-transform/internal/chat"
)

// DownloadFileName is the fixed name used for saved results.
const DownloadFileName = "archigen-transform.png"

// Labels shown over the displayed image.
const (
	LabelOriginal    = "ORIGINAL"
	LabelTransformed = "TRANSFORMED"
)

// Event is a pointer or touch input on the result image.
type Event int

const (
	PointerDown Event = iota
	PointerUp
	PointerLeave
	TouchStart
	TouchEnd
)

// ParseEvent maps DOM event names to Events.
func ParseEvent(name string) (Event, bool) {
	switch name {
	case "mousedown", "pointerdown":
		return PointerDown, true
	case "mouseup", "pointerup":
		return PointerUp, true
	case "mouseleave", "pointerleave":
		return PointerLeave, true
	case "touchstart":
		return TouchStart, true
	case "touchend", "touchcancel":
		return TouchEnd, true
	}
	return 0, false
}

// compareEvents are the DOM events the result image listens to.
var compareEvents = []string{"mousedown", "mouseup", "mouseleave", "touchstart", "touchend", "touchcancel"}

// CompareBindings splits the listened DOM events into those that start
// comparing and those that stop it, as space-separated lists.
func CompareBindings() (hold, release string) {
	var holds, releases []string
	for _, name := range compareEvents {
		e, ok := ParseEvent(name)
		if !ok {
			continue
		}
		v := &View{}
		v.Handle(e)
		if v.Comparing() {
			holds = append(holds, name)
		} else {
			releases = append(releases, name)
		}
	}
	return strings.Join(holds, " "), strings.Join(releases, " ")
}

// Frame is the image and label shown in one comparison state.
type Frame struct {
	Image string
	Label string
}

// Compare is everything the result panel needs to render a View.
type Compare struct {
	Original      Frame
	Result        Frame
	Note          string
	HoldEvents    string
	ReleaseEvents string
}

// View is the result panel state: the outcome, the original preview and
// whether the user is currently holding to compare.
type View struct {
	mu        sync.Mutex
	outcome   *chat.Outcome
	original  string
	comparing bool
}

// NewView creates a view for an outcome and the source preview URI.
func NewView(outcome *chat.Outcome, originalPreview string) *View {
	return &View{outcome: outcome, original: originalPreview}
}

// Handle updates the comparing flag. Press starts comparing; release or
// leaving the image stops it.
func (v *View) Handle(e Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch e {
	case PointerDown, TouchStart:
		v.comparing = true
	case PointerUp, PointerLeave, TouchEnd:
		v.comparing = false
	}
}

// Comparing reports whether the original is showing.
func (v *View) Comparing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.comparing
}

// DisplayedImage is the original preview while comparing, else the result.
func (v *View) DisplayedImage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.comparing {
		return v.original
	}
	if v.outcome == nil {
		return ""
	}
	return v.outcome.ImageURI
}

// Label names the displayed image.
func (v *View) Label() string {
	if v.Comparing() {
		return LabelOriginal
	}
	return LabelTransformed
}

// Note returns the assistant note, if any.
func (v *View) Note() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.outcome == nil {
		return ""
	}
	return v.outcome.Note
}

// Compare captures the held and released frames. The view is left released.
func (v *View) Compare() Compare {
	var c Compare
	v.Handle(PointerDown)
	c.Original = Frame{Image: v.DisplayedImage(), Label: v.Label()}
	v.Handle(PointerUp)
	c.Result = Frame{Image: v.DisplayedImage(), Label: v.Label()}
	c.Note = v.Note()
	c.HoldEvents, c.ReleaseEvents = CompareBindings()
	return c
}
