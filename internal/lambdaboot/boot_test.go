package lambdaboot

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type fakeSSM struct {
	value     *string
	err       error
	requested string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.requested = aws.ToString(in.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: f.value}}, nil
}

func TestLoadGeminiKey_FromSSM(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("SSM_API_KEY_PARAM", "/archigen/test/key")
	fake := &fakeSSM{value: aws.String("ssm-secret")}

	if !LoadGeminiKey(context.Background(), fake) {
		t.Fatal("expected key to load")
	}
	if fake.requested != "/archigen/test/key" {
		t.Errorf("expected configured param, got %s", fake.requested)
	}
	if got := os.Getenv("GEMINI_API_KEY"); got != "ssm-secret" {
		t.Errorf("expected key exported, got %q", got)
	}
}

func TestLoadGeminiKey_EnvWins(t *testing.T) {
	tests := []struct {
		name   string
		gemini string
		apiKey string
	}{
		{"GEMINI_API_KEY", "from-env", ""},
		{"API_KEY fallback", "", "from-api-key"},
		{"both", "from-env", "from-api-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.gemini)
			t.Setenv("API_KEY", tt.apiKey)
			fake := &fakeSSM{value: aws.String("ssm-secret")}

			if !LoadGeminiKey(context.Background(), fake) {
				t.Fatal("expected true when env key is present")
			}
			if fake.requested != "" {
				t.Error("expected no SSM call")
			}
			if got := os.Getenv("GEMINI_API_KEY"); got != tt.gemini {
				t.Errorf("GEMINI_API_KEY = %q, want untouched %q", got, tt.gemini)
			}
		})
	}
}

func TestLoadGeminiKey_Failures(t *testing.T) {
	tests := []struct {
		name string
		ssm  *fakeSSM
	}{
		{"ssm error", &fakeSSM{err: errors.New("access denied")}},
		{"empty value", &fakeSSM{value: aws.String("")}},
		{"nil value", &fakeSSM{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("API_KEY", "")
			t.Setenv("SSM_API_KEY_PARAM", "")
			if LoadGeminiKey(context.Background(), tt.ssm) {
				t.Error("expected false")
			}
			if tt.ssm.requested != DefaultAPIKeyParam {
				t.Errorf("expected default param, got %s", tt.ssm.requested)
			}
			if os.Getenv("GEMINI_API_KEY") != "" {
				t.Error("expected key to stay unset")
			}
		})
	}
}
