// Package lambdaboot provides the Lambda cold-start bootstrap: AWS config,
// the Gemini key from SSM Parameter Store, and the startup log line.
package lambdaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/fpang/archigen-transform/internal/config"
	"github.com/fpang/archigen-transform/internal/logging"
)

// DefaultAPIKeyParam is read when SSM_API_KEY_PARAM is unset.
const DefaultAPIKeyParam = "/archigen/prod/gemini-api-key"

// ParameterGetter is the subset of the SSM client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// AWSClients holds the AWS SDK clients used by the Lambda.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// APIKeyParam returns the SSM parameter holding the Gemini key.
func APIKeyParam() string {
	if p := os.Getenv("SSM_API_KEY_PARAM"); p != "" {
		return p
	}
	return DefaultAPIKeyParam
}

// LoadGeminiKey fetches the Gemini API key from SSM Parameter Store unless
// a key (GEMINI_API_KEY or API_KEY) is already set, and exports it to the environment. A failed
// lookup is logged and leaves the key unset: the function still starts and
// reports the missing configuration to callers.
func LoadGeminiKey(ctx context.Context, client ParameterGetter) bool {
	if config.APIKeyFromEnv() != "" {
		return true
	}
	paramName := APIKeyParam()
	ssmStart := time.Now()
	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Error().Err(err).Str("param", paramName).Msg("Failed to read API key from SSM")
		return false
	}
	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		log.Error().Str("param", paramName).Msg("SSM API key parameter is empty")
		return false
	}
	os.Setenv("GEMINI_API_KEY", *result.Parameter.Value)
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(ssmStart)).Msg("Gemini API key loaded from SSM")
	return true
}

// StartupLog is a convenience wrapper for the startup logger.
func StartupLog(name string, initStart time.Time) *logging.StartupLogger {
	return logging.NewStartupLogger(name).InitDuration(time.Since(initStart))
}
