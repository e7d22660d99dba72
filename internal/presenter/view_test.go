package presenter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/workflow"
)

const (
	resultURI   = "data:image/png;base64,UkVTVUxU"
	originalURI = "data:image/jpeg;base64,T1JJRw=="
)

func TestView_CompareSequence(t *testing.T) {
	v := NewView(&chat.Outcome{ImageURI: resultURI, Note: "Applied stucco."}, originalURI)

	steps := []struct {
		event     Event
		wantImage string
		wantLabel string
	}{
		{PointerDown, originalURI, LabelOriginal},
		{PointerUp, resultURI, LabelTransformed},
		{TouchStart, originalURI, LabelOriginal},
		{TouchEnd, resultURI, LabelTransformed},
		{PointerDown, originalURI, LabelOriginal},
		{PointerLeave, resultURI, LabelTransformed},
	}
	if v.DisplayedImage() != resultURI || v.Label() != LabelTransformed {
		t.Fatal("initial view should show the result")
	}
	for i, s := range steps {
		v.Handle(s.event)
		if v.DisplayedImage() != s.wantImage || v.Label() != s.wantLabel {
			t.Errorf("step %d: image=%q label=%q", i, v.DisplayedImage(), v.Label())
		}
	}
	if v.Note() != "Applied stucco." {
		t.Errorf("note = %q", v.Note())
	}
}

func TestParseEvent(t *testing.T) {
	tests := map[string]Event{
		"mousedown":   PointerDown,
		"pointerup":   PointerUp,
		"mouseleave":  PointerLeave,
		"touchstart":  TouchStart,
		"touchcancel": TouchEnd,
	}
	for name, want := range tests {
		if got, ok := ParseEvent(name); !ok || got != want {
			t.Errorf("ParseEvent(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseEvent("click"); ok {
		t.Error("click should not map to an event")
	}
}

func TestView_Compare(t *testing.T) {
	v := NewView(&chat.Outcome{ImageURI: resultURI, Note: "n"}, originalURI)
	c := v.Compare()

	if c.Original != (Frame{Image: originalURI, Label: LabelOriginal}) {
		t.Errorf("original frame = %+v", c.Original)
	}
	if c.Result != (Frame{Image: resultURI, Label: LabelTransformed}) {
		t.Errorf("result frame = %+v", c.Result)
	}
	if c.Note != "n" {
		t.Errorf("note = %q", c.Note)
	}
	if v.Comparing() {
		t.Error("view should be released after Compare")
	}
}

func TestCompareBindings(t *testing.T) {
	hold, release := CompareBindings()
	if hold != "mousedown touchstart" {
		t.Errorf("hold = %q", hold)
	}
	if release != "mouseup mouseleave touchend touchcancel" {
		t.Errorf("release = %q", release)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	uri := intake.DataURI("image/png", []byte("pngdata"))

	path, err := Save(dir, uri)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != DownloadFileName {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "pngdata" {
		t.Errorf("file content = %q, %v", data, err)
	}

	custom := filepath.Join(dir, "house.png")
	if got, err := Save(custom, uri); err != nil || got != custom {
		t.Errorf("Save(custom) = %q, %v", got, err)
	}

	if _, err := Save(dir, "not a data uri"); err == nil {
		t.Error("expected error for malformed URI")
	}
}

func TestResultPanel(t *testing.T) {
	tests := []struct {
		name     string
		snap     workflow.Snapshot
		contains []string
	}{
		{"idle", workflow.Snapshot{Status: workflow.Idle}, []string{"result--empty"}},
		{"generating", workflow.Snapshot{Status: workflow.Generating}, []string{"aria-busy"}},
		{
			"error is escaped",
			workflow.Snapshot{Status: workflow.Error, ErrorMessage: `<script>alert("x")</script>`},
			[]string{"role=\"alert\"", "&lt;script&gt;"},
		},
		{
			"success",
			workflow.Snapshot{Status: workflow.Success, Outcome: &chat.Outcome{ImageURI: resultURI, Note: "Done & dusted"}},
			[]string{
				`src="` + resultURI + `"`,
				`href="` + resultURI + `"`,
				`download="archigen-transform.png"`,
				`<figcaption class="compare__label">` + LabelTransformed + `</figcaption>`,
				"Done &amp; dusted",
				`data-original="` + originalURI + `"`,
				`data-original-label="` + LabelOriginal + `"`,
				`data-result-label="` + LabelTransformed + `"`,
				`data-hold-events="mousedown touchstart"`,
				`data-release-events="mouseup mouseleave touchend touchcancel"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ResultPanel(tt.snap, originalURI).Render(context.Background(), &buf); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
			if strings.Contains(buf.String(), "<script>") {
				t.Error("unescaped markup in output")
			}
		})
	}
}
