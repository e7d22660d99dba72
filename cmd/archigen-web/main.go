package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fpang/archigen-transform/internal/cli"
	"github.com/fpang/archigen-transform/internal/config"
	"github.com/fpang/archigen-transform/internal/logging"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/fpang/archigen-transform/internal/webapi"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

// CLI flags
var (
	portFlag         int
	modelFlag        string
	imageModelFlag   string
	nativePickerFlag bool
	skipValidateFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "archigen-web",
	Short: "Web UI for restyling architecture photos with Gemini",
	Long: `ArchiGen Web starts a local web server for transforming photos of houses,
sketches and model renders. Upload a source image, optionally a style
reference, describe the change (or pick a preset) and compare the result
with the original by pressing and holding on it.

Configuration is read from the environment and an optional .env file;
flags override it.

Examples:
  archigen-web
  archigen-web --port 9090
  archigen-web --native-picker
  archigen-web --image-model gemini-2.5-flash-image`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (default from PORT, else 8080)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini text model used for prompt enhancement")
	rootCmd.Flags().StringVar(&imageModelFlag, "image-model", "", "Gemini image model used for transforms")
	rootCmd.Flags().BoolVar(&nativePickerFlag, "native-picker", false, "Enable the OS file dialog for choosing images")
	rootCmd.Flags().BoolVar(&skipValidateFlag, "skip-validate", false, "Skip the API key check at startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()
	logging.Init()

	cfg := config.Load()
	if portFlag != 0 {
		cfg.Port = portFlag
	}
	if modelFlag != "" {
		cfg.TextModel = modelFlag
	}
	if imageModelFlag != "" {
		cfg.ImageModel = imageModelFlag
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	ctx := context.Background()
	client, gc, err := cli.InitClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}
	keyValid := false
	if !skipValidateFlag {
		keyValid = cli.CheckAPIKey(ctx, gc, client.TextModel())
	}

	store := session.NewStore(client, cfg.SessionTTL, cfg.MaxUploadBytes)
	server := webapi.New(webapi.Options{
		Store:           store,
		Configured:      client.Configured(),
		TextModel:       client.TextModel(),
		ImageModel:      client.ImageModel(),
		MaxUploadBytes:  cfg.MaxUploadBytes,
		RateLimitPerMin: cfg.RateLimitPerMin,
		NativePicker:    nativePickerFlag,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      server.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown did not complete cleanly")
		}
	}()

	logging.NewStartupLogger("archigen-web").
		Mode("local").
		Model("text", client.TextModel()).
		Model("image", client.ImageModel()).
		Feature("apiKey", client.Configured()).
		Feature("apiKeyValidated", keyValid).
		Feature("nativePicker", nativePickerFlag).
		Feature("metrics", cfg.MetricsEnabled).
		Config("port", strconv.Itoa(cfg.Port)).
		Config("sessionTTL", cfg.SessionTTL.String()).
		Config("maxUploadBytes", strconv.FormatInt(cfg.MaxUploadBytes, 10)).
		InitDuration(time.Since(initStart)).
		Log()

	fmt.Printf("\n  ArchiGen Transform: http://localhost:%d\n\n", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
