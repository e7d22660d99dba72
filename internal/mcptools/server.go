// Package mcptools exposes the transform flow as Model Context Protocol
// tools so an assistant can restyle local image files.
package mcptools

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fpang/archigen-transform/internal/cli"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ServerName is the implementation name reported to MCP clients.
const ServerName = "archigen-transform"

var errPromptRequired = errors.New("prompt is required")

// Options configures the tool server.
type Options struct {
	Backend        session.Backend
	MaxUploadBytes int64
	// OutputDir receives results when a call gives no outputPath.
	OutputDir string
	Version   string
}

type EnhanceInput struct {
	Prompt string `json:"prompt" jsonschema:"short description of the architectural change to expand"`
}

type EnhanceOutput struct {
	Prompt string `json:"prompt"`
}

type TransformInput struct {
	SourcePath    string `json:"sourcePath" jsonschema:"path of the photo, sketch or model render to transform"`
	ReferencePath string `json:"referencePath,omitempty" jsonschema:"optional path of an image whose style should be applied"`
	Prompt        string `json:"prompt,omitempty" jsonschema:"free-form edit instruction"`
	Preset        string `json:"preset,omitempty" jsonschema:"style preset id instead of a prompt (see list_presets)"`
	QuickEdit     string `json:"quickEdit,omitempty" jsonschema:"quick edit id instead of a prompt (see list_presets)"`
	Enhance       bool   `json:"enhance,omitempty" jsonschema:"rewrite the prompt with the text model before generating"`
	OutputPath    string `json:"outputPath,omitempty" jsonschema:"file or directory for the generated PNG"`
}

type TransformOutput struct {
	OutputPath    string `json:"outputPath"`
	Prompt        string `json:"prompt"`
	AssistantNote string `json:"assistantNote,omitempty"`
	ElapsedMs     int64  `json:"elapsedMs"`
}

type CatalogOutput struct {
	Presets    []prompt.Shortcut `json:"presets"`
	QuickEdits []prompt.Shortcut `json:"quickEdits"`
}

type tools struct {
	opts Options
}

// NewServer registers enhance_prompt, transform_image and list_presets.
func NewServer(opts Options) *mcp.Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: opts.Version}, nil)
	t := &tools{opts: opts}

	mcp.AddTool(s, &mcp.Tool{
		Name:        "enhance_prompt",
		Description: "Rewrite a short architectural edit request into a precise image-editing prompt.",
	}, t.enhancePrompt)
	mcp.AddTool(s, &mcp.Tool{
		Name: "transform_image",
		Description: "Transform a local architectural image with a prompt, a style reference image, or both. " +
			"Writes the generated PNG to disk and returns its path.",
	}, t.transformImage)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_presets",
		Description: "List the built-in style presets and quick edits.",
	}, t.listPresets)
	return s
}

func (t *tools) enhancePrompt(ctx context.Context, _ *mcp.CallToolRequest, in EnhanceInput) (*mcp.CallToolResult, EnhanceOutput, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, EnhanceOutput{}, errPromptRequired
	}
	defer record("enhance_prompt", time.Now())

	out, err := t.opts.Backend.Enhance(ctx, in.Prompt)
	if err != nil {
		log.Warn().Err(err).Msg("enhance_prompt failed")
		return nil, EnhanceOutput{}, err
	}
	return nil, EnhanceOutput{Prompt: out}, nil
}

func (t *tools) transformImage(ctx context.Context, _ *mcp.CallToolRequest, in TransformInput) (*mcp.CallToolResult, TransformOutput, error) {
	defer record("transform_image", time.Now())

	outPath := in.OutputPath
	if outPath == "" {
		outPath = t.opts.OutputDir
	}
	res, err := cli.Run(ctx, t.opts.Backend, t.opts.MaxUploadBytes, cli.Request{
		SourcePath:    in.SourcePath,
		ReferencePath: in.ReferencePath,
		Prompt:        in.Prompt,
		Preset:        in.Preset,
		QuickEdit:     in.QuickEdit,
		Enhance:       in.Enhance,
		OutPath:       outPath,
	})
	if err != nil {
		log.Warn().Err(err).Str("source", in.SourcePath).Msg("transform_image failed")
		return nil, TransformOutput{}, err
	}
	log.Info().Str("output", res.OutPath).Dur("elapsed", res.Elapsed).Msg("transform_image completed")
	return nil, TransformOutput{
		OutputPath:    res.OutPath,
		Prompt:        res.Prompt,
		AssistantNote: res.Note,
		ElapsedMs:     res.Elapsed.Milliseconds(),
	}, nil
}

func (t *tools) listPresets(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, CatalogOutput, error) {
	return nil, CatalogOutput{Presets: prompt.Presets, QuickEdits: prompt.QuickEdits}, nil
}

func record(tool string, start time.Time) {
	metrics.New(metrics.Namespace).
		Dimension("Tool", tool).
		Duration("ToolLatencyMs", time.Since(start)).
		Count("ToolInvocations").
		Flush()
}

// Run serves the tools over stdin/stdout until the client disconnects or ctx
// is canceled.
func Run(ctx context.Context, opts Options) error {
	log.Info().Str("server", ServerName).Msg("Serving MCP tools on stdio")
	return NewServer(opts).Run(ctx, &mcp.StdioTransport{})
}
