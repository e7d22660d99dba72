package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fpang/archigen-transform/internal/cli"
	"github.com/fpang/archigen-transform/internal/config"
	"github.com/fpang/archigen-transform/internal/logging"
	"github.com/fpang/archigen-transform/internal/mcptools"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	outputDirFlag  string
	modelFlag      string
	imageModelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "archigen-mcp",
	Short: "MCP server exposing ArchiGen image transforms",
	Long: `ArchiGen MCP serves the enhance_prompt, transform_image and list_presets
tools over stdio for MCP-capable assistants. Logs go to stderr; stdout
carries the protocol.

Example client configuration:
  {"command": "archigen-mcp", "args": ["--output-dir", "/tmp/renders"]}`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "Directory for results when a call gives no outputPath (default: working directory)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini text model used for enhancement")
	rootCmd.Flags().StringVar(&imageModelFlag, "image-model", "", "Gemini image model used for transforms")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.InitJSON(os.Stderr)

	cfg := config.Load()
	if modelFlag != "" {
		cfg.TextModel = modelFlag
	}
	if imageModelFlag != "" {
		cfg.ImageModel = imageModelFlag
	}
	metrics.SetOutput(os.Stderr)
	metrics.SetEnabled(cfg.MetricsEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, _, err := cli.InitClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	logging.NewStartupLogger("archigen-mcp").
		Mode("stdio").
		Model("text", client.TextModel()).
		Model("image", client.ImageModel()).
		Feature("apiKey", client.Configured()).
		Config("outputDir", outputDirFlag).
		Config("version", version).
		Log()

	err = mcptools.Run(ctx, mcptools.Options{
		Backend:        client,
		MaxUploadBytes: cfg.MaxUploadBytes,
		OutputDir:      outputDirFlag,
		Version:        version,
	})
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server stopped")
	}
}
