package mcptools

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type fakeBackend struct {
	enhanceErr error
}

func (f *fakeBackend) Transform(context.Context, string, *intake.EncodedImage, *intake.EncodedImage) (*chat.Outcome, error) {
	return &chat.Outcome{ImageURI: "data:image/png;base64,UkVTVUxU", Note: "Swapped the siding for brick."}, nil
}

func (f *fakeBackend) Enhance(_ context.Context, text string) (string, error) {
	if f.enhanceErr != nil {
		return "", f.enhanceErr
	}
	return "Detailed: " + text, nil
}

func connect(t *testing.T, opts Options) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := NewServer(opts).Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return res
}

func structured[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	return out
}

func TestListTools(t *testing.T) {
	cs := connect(t, Options{Backend: &fakeBackend{}})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"enhance_prompt", "transform_image", "list_presets"} {
		if !names[want] {
			t.Errorf("expected tool %s", want)
		}
	}
}

func TestEnhancePrompt(t *testing.T) {
	cs := connect(t, Options{Backend: &fakeBackend{}})

	res := call(t, cs, "enhance_prompt", map[string]any{"prompt": "brick"})
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if got := structured[EnhanceOutput](t, res).Prompt; got != "Detailed: brick" {
		t.Errorf("expected enhanced prompt, got %q", got)
	}

	res = call(t, cs, "enhance_prompt", map[string]any{"prompt": "   "})
	if !res.IsError {
		t.Error("expected tool error for blank prompt")
	}
}

func TestEnhancePrompt_MissingKey(t *testing.T) {
	cs := connect(t, Options{Backend: &fakeBackend{enhanceErr: chat.ErrMissingAPIKey}})
	res := call(t, cs, "enhance_prompt", map[string]any{"prompt": "brick"})
	if !res.IsError {
		t.Error("expected tool error without an API key")
	}
}

func TestTransformImage(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	src := filepath.Join(dir, "house.png")
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cs := connect(t, Options{Backend: &fakeBackend{}, OutputDir: dir, MaxUploadBytes: 1 << 20})
	res := call(t, cs, "transform_image", map[string]any{"sourcePath": src, "preset": "industrial-loft"})
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	out := structured[TransformOutput](t, res)
	if out.OutputPath != filepath.Join(dir, "archigen-transform.png") {
		t.Errorf("unexpected output path %s", out.OutputPath)
	}
	if out.AssistantNote != "Swapped the siding for brick." {
		t.Errorf("unexpected note %q", out.AssistantNote)
	}
	if data, _ := os.ReadFile(out.OutputPath); string(data) != "RESULT" {
		t.Errorf("unexpected file content %q", data)
	}

	res = call(t, cs, "transform_image", map[string]any{"sourcePath": src})
	if !res.IsError {
		t.Error("expected tool error when neither prompt nor reference is given")
	}
}

func TestListPresets(t *testing.T) {
	cs := connect(t, Options{Backend: &fakeBackend{}})
	out := structured[CatalogOutput](t, call(t, cs, "list_presets", map[string]any{}))
	if len(out.Presets) != 4 || len(out.QuickEdits) != 2 {
		t.Errorf("expected 4 presets and 2 quick edits, got %d and %d", len(out.Presets), len(out.QuickEdits))
	}
}
