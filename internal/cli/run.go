// Package cli runs file-based transforms for the command-line and MCP
// front-ends: read images from disk, compose the prompt, call the model and
// write the result next to the caller.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/archigen-transform/internal/filehandler"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/presenter"
	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/fpang/archigen-transform/internal/workflow"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrConflictingPrompt is returned when more than one prompt source is set.
var ErrConflictingPrompt = errors.New("use only one of prompt, preset or quick edit")

// Request describes one transform from disk to disk.
type Request struct {
	SourcePath    string
	ReferencePath string
	Prompt        string
	Preset        string
	QuickEdit     string
	// Enhance rewrites the prompt with the text model before generating.
	Enhance bool
	// OutPath is a file or directory; empty writes to the working directory.
	OutPath string
}

// Result is what Run produced.
type Result struct {
	OutPath string        `json:"outputPath"`
	Prompt  string        `json:"prompt"`
	Note    string        `json:"assistantNote,omitempty"`
	Elapsed time.Duration `json:"-"`
}

// Run executes req against backend. maxBytes caps each input image.
func Run(ctx context.Context, backend session.Backend, maxBytes int64, req Request) (*Result, error) {
	start := time.Now()

	text, err := composePrompt(req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SourcePath) == "" {
		return nil, workflow.ErrSourceRequired
	}

	source, reference, err := LoadImages(ctx, req.SourcePath, req.ReferencePath, maxBytes)
	if err != nil {
		return nil, err
	}

	orch := workflow.New(backend, backend)
	if req.Enhance && strings.TrimSpace(text) != "" {
		text = orch.Enhance(ctx, text)
		log.Info().Str("prompt", text).Msg("Prompt enhanced")
	}

	outcome, err := orch.Generate(ctx, text, source, reference)
	if err != nil {
		return nil, err
	}

	path, err := presenter.Save(req.OutPath, outcome.ImageURI)
	if err != nil {
		return nil, err
	}
	return &Result{
		OutPath: path,
		Prompt:  text,
		Note:    outcome.Note,
		Elapsed: time.Since(start),
	}, nil
}

func composePrompt(req Request) (string, error) {
	set := 0
	for _, s := range []string{req.Prompt, req.Preset, req.QuickEdit} {
		if strings.TrimSpace(s) != "" {
			set++
		}
	}
	if set > 1 {
		return "", ErrConflictingPrompt
	}

	c := &prompt.Composer{}
	c.SetText(req.Prompt)
	switch {
	case req.Preset != "":
		if _, err := c.ApplyPreset(req.Preset); err != nil {
			return "", err
		}
	case req.QuickEdit != "":
		if _, err := c.ApplyQuickEdit(req.QuickEdit); err != nil {
			return "", err
		}
	}
	return c.Text(), nil
}

// LoadImages reads and encodes the source and the optional reference in
// parallel. An empty referencePath yields a nil reference.
func LoadImages(ctx context.Context, sourcePath, referencePath string, maxBytes int64) (source, reference *intake.EncodedImage, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source, err = loadImage(gctx, sourcePath, maxBytes)
		return err
	})
	if referencePath != "" {
		g.Go(func() error {
			var err error
			reference, err = loadImage(gctx, referencePath, maxBytes)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return source, reference, nil
}

func loadImage(ctx context.Context, path string, maxBytes int64) (*intake.EncodedImage, error) {
	f, closer, err := filehandler.OpenImage(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	img, err := intake.Encode(ctx, f, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().
		Str("path", path).
		Str("media_type", img.MediaType).
		Int64("size_bytes", img.File.Size).
		Msg("Image loaded")
	return img, nil
}
