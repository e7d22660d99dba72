// Package main runs the ArchiGen web API and front-end behind API Gateway
// (HTTP API, payload v2). Sessions live in the memory of a warm container,
// so the function is meant to run with a single concurrent instance.
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"

	"github.com/fpang/archigen-transform/internal/cli"
	"github.com/fpang/archigen-transform/internal/config"
	"github.com/fpang/archigen-transform/internal/lambdaboot"
	"github.com/fpang/archigen-transform/internal/logging"
	"github.com/fpang/archigen-transform/internal/metrics"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/fpang/archigen-transform/internal/webapi"
)

var handler http.Handler

func init() {
	initStart := time.Now()
	logging.InitJSON(os.Stdout)
	metrics.SetEnabled(true)

	aws := lambdaboot.InitAWS()
	lambdaboot.LoadGeminiKey(context.Background(), aws.SSM)

	cfg := config.FromEnv()
	client, _, err := cli.InitClient(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	store := session.NewStore(client, cfg.SessionTTL, cfg.MaxUploadBytes)
	server := webapi.New(webapi.Options{
		Store:           store,
		Configured:      client.Configured(),
		TextModel:       client.TextModel(),
		ImageModel:      client.ImageModel(),
		MaxUploadBytes:  cfg.MaxUploadBytes,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	handler = server.Handler()

	lambdaboot.StartupLog("archigen-lambda", initStart).
		Mode("lambda").
		Model("text", client.TextModel()).
		Model("image", client.ImageModel()).
		SSMParam("geminiApiKey", lambdaboot.APIKeyParam()).
		Feature("apiKey", client.Configured()).
		Feature("metrics", true).
		Config("sessionTTL", cfg.SessionTTL.String()).
		Config("maxUploadBytes", strconv.FormatInt(cfg.MaxUploadBytes, 10)).
		Log()
}

func main() {
	adapter := httpadapter.NewV2(handler)
	lambda.Start(adapter.ProxyWithContext)
}
