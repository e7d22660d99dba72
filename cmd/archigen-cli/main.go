package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fpang/archigen-transform/internal/chat"
	"github.com/fpang/archigen-transform/internal/cli"
	"github.com/fpang/archigen-transform/internal/config"
	"github.com/fpang/archigen-transform/internal/logging"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/fpang/archigen-transform/internal/presenter"
	"github.com/fpang/archigen-transform/internal/workflow"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CLI flags
var (
	sourceFlag     string
	referenceFlag  string
	promptFlag     string
	presetFlag     string
	quickEditFlag  string
	enhanceFlag    bool
	outFlag        string
	modelFlag      string
	imageModelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "archigen-cli",
	Short: "Restyle an architecture photo with Gemini from the command line",
	Long: `ArchiGen CLI transforms one image of a house, sketch or model render and
writes the result as a PNG.

Give an instruction with --prompt, --preset or --quick-edit, a style
reference with --reference, or both. Without any of them the CLI asks for an
instruction interactively.

Presets:     modern-minimalist, industrial-loft, cyberpunk, cottage-core
Quick edits: remove-people-cars, night-mode

Examples:
  archigen-cli --source house.jpg --preset cyberpunk
  archigen-cli -s house.jpg -p "replace the siding with dark timber" --enhance
  archigen-cli -s house.jpg -r villa.jpg -o ./renders/
  archigen-cli -s house.jpg --quick-edit night-mode -o night.png`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Source image (required)")
	rootCmd.Flags().StringVarP(&referenceFlag, "reference", "r", "", "Style reference image")
	rootCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Edit instruction")
	rootCmd.Flags().StringVar(&presetFlag, "preset", "", "Style preset id or label")
	rootCmd.Flags().StringVar(&quickEditFlag, "quick-edit", "", "Quick edit id or label")
	rootCmd.Flags().BoolVar(&enhanceFlag, "enhance", false, "Rewrite the instruction with the text model first")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", presenter.DownloadFileName, "Output file or directory")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini text model used for --enhance")
	rootCmd.Flags().StringVar(&imageModelFlag, "image-model", "", "Gemini image model used for the transform")
	rootCmd.MarkFlagRequired("source")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	cfg := config.Load()
	if modelFlag != "" {
		cfg.TextModel = modelFlag
	}
	if imageModelFlag != "" {
		cfg.ImageModel = imageModelFlag
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, _, err := cli.InitClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}
	if !client.Configured() {
		log.Fatal().Msg(chat.ErrMissingAPIKey.Error())
	}

	instruction := promptFlag
	if instruction == "" && presetFlag == "" && quickEditFlag == "" && referenceFlag == "" {
		instruction = cli.PromptForInstruction(os.Stdin, os.Stdout)
	}

	fmt.Println("Transforming your design...")
	res, err := cli.Run(ctx, client, cfg.MaxUploadBytes, cli.Request{
		SourcePath:    sourceFlag,
		ReferencePath: referenceFlag,
		Prompt:        instruction,
		Preset:        presetFlag,
		QuickEdit:     quickEditFlag,
		Enhance:       enhanceFlag,
		OutPath:       outFlag,
	})
	if err != nil {
		if workflow.IsValidationError(err) || errors.Is(err, cli.ErrConflictingPrompt) {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("Transform failed")
	}

	fmt.Printf("\nSaved %s (%s)\n", res.OutPath, res.Elapsed.Round(100*time.Millisecond))
	if res.Note != "" {
		fmt.Printf("\n%s\n", res.Note)
	}
}
