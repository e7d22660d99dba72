package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/presenter"
	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/fpang/archigen-transform/internal/workflow"
)

// "RESULT" in base64.
const resultURI = "data:image/png;base64,UkVTVUxU"

type fakeBackend struct {
	prompt       string
	hadReference bool
	enhanced     string
	err          error
}

func (f *fakeBackend) Transform(_ context.Context, p string, _, reference *intake.EncodedImage) (*chat.Outcome, error) {
	f.prompt = p
	f.hadReference = reference != nil
	if f.err != nil {
		return nil, f.err
	}
	return &chat.Outcome{ImageURI: resultURI, Note: "done"}, nil
}

func (f *fakeBackend) Enhance(_ context.Context, text string) (string, error) {
	if f.enhanced == "" {
		return text, nil
	}
	return f.enhanced, nil
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_WritesResult(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{}
	res, err := Run(context.Background(), backend, 1<<20, Request{
		SourcePath: writePNG(t, dir, "house.png"),
		Preset:     "cyberpunk",
		OutPath:    dir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := filepath.Join(dir, presenter.DownloadFileName); res.OutPath != want {
		t.Errorf("expected output %s, got %s", want, res.OutPath)
	}
	data, err := os.ReadFile(res.OutPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "RESULT" {
		t.Errorf("expected decoded result bytes, got %q", data)
	}
	preset, _ := prompt.Resolve("cyberpunk")
	if backend.prompt != preset {
		t.Errorf("expected preset prompt, got %q", backend.prompt)
	}
	if res.Note != "done" {
		t.Errorf("expected note, got %q", res.Note)
	}
}

func TestRun_ReferenceOnly(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{}
	_, err := Run(context.Background(), backend, 1<<20, Request{
		SourcePath:    writePNG(t, dir, "house.png"),
		ReferencePath: writePNG(t, dir, "style.png"),
		OutPath:       filepath.Join(dir, "out.png"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !backend.hadReference {
		t.Error("expected reference to be sent")
	}
}

func TestRun_Enhance(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{enhanced: "Add a glass conservatory on the south side."}
	res, err := Run(context.Background(), backend, 1<<20, Request{
		SourcePath: writePNG(t, dir, "house.png"),
		Prompt:     "glass room",
		Enhance:    true,
		OutPath:    dir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Prompt != backend.enhanced || backend.prompt != backend.enhanced {
		t.Errorf("expected enhanced prompt to be used, got %q / %q", res.Prompt, backend.prompt)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "house.png")
	notImage := filepath.Join(dir, "notes.txt")
	os.WriteFile(notImage, []byte("hello"), 0o644)

	tests := []struct {
		name    string
		req     Request
		backend *fakeBackend
		want    error
	}{
		{"missing source", Request{Prompt: "x"}, &fakeBackend{}, workflow.ErrSourceRequired},
		{"nothing to do", Request{SourcePath: src}, &fakeBackend{}, workflow.ErrPromptOrReference},
		{"conflicting prompts", Request{SourcePath: src, Prompt: "x", Preset: "cyberpunk"}, &fakeBackend{}, ErrConflictingPrompt},
		{"unknown preset", Request{SourcePath: src, Preset: "baroque"}, &fakeBackend{}, prompt.ErrUnknownShortcut},
		{"not an image", Request{SourcePath: notImage, Prompt: "x"}, &fakeBackend{}, intake.ErrNotImage},
		{"remote failure", Request{SourcePath: src, Prompt: "x"}, &fakeBackend{err: chat.ErrNoImage}, chat.ErrNoImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.backend, 1<<20, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadImages_MissingReference(t *testing.T) {
	dir := t.TempDir()
	_, _, err := LoadImages(context.Background(), writePNG(t, dir, "a.png"), filepath.Join(dir, "missing.png"), 0)
	if err == nil {
		t.Fatal("expected error for missing reference")
	}
}

func TestPromptForInstruction(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add solar panels\n", "add solar panels"},
		{"night-mode\n", prompt.QuickEdits[1].Prompt},
		{"\n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := PromptForInstruction(strings.NewReader(tt.input), &out)
		if got != tt.want {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.want, got)
		}
		if !strings.Contains(out.String(), "Instruction") {
			t.Error("expected prompt text on output")
		}
	}
}
