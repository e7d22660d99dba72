package metrics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(true)
	t.Cleanup(func() {
		SetEnabled(false)
		SetOutput(nil)
	})
	return &buf
}

func TestNew_AutoDimension(t *testing.T) {
	initOnce.Do(func() {})
	functionName = "archigen-api"
	t.Cleanup(func() { functionName = "" })

	r := New(Namespace)
	if r.namespace != "ArchiGen" {
		t.Errorf("expected namespace ArchiGen, got %s", r.namespace)
	}
	if r.dimensions["FunctionName"] != "archigen-api" {
		t.Errorf("expected FunctionName dimension, got %q", r.dimensions["FunctionName"])
	}
}

func TestRecorder_FlushOutput(t *testing.T) {
	buf := capture(t)
	functionName = ""

	New(Namespace).
		Dimension("Operation", "transform").
		Duration("GeminiLatencyMs", 1500*time.Millisecond).
		Count("GeminiCalls").
		Property("model", "gemini-2.5-flash-image").
		Flush()

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse EMF output: %v\nOutput: %s", err, buf.String())
	}

	awsMap, ok := doc["_aws"].(map[string]any)
	if !ok {
		t.Fatal("missing _aws directive")
	}
	if _, ok := awsMap["Timestamp"]; !ok {
		t.Error("missing Timestamp")
	}
	cwArr, ok := awsMap["CloudWatchMetrics"].([]any)
	if !ok || len(cwArr) != 1 {
		t.Fatalf("CloudWatchMetrics = %v", awsMap["CloudWatchMetrics"])
	}
	cw := cwArr[0].(map[string]any)
	if cw["Namespace"] != "ArchiGen" {
		t.Errorf("Namespace = %v", cw["Namespace"])
	}
	if metricsArr := cw["Metrics"].([]any); len(metricsArr) != 2 {
		t.Errorf("expected 2 metric definitions, got %d", len(metricsArr))
	}

	if doc["Operation"] != "transform" {
		t.Errorf("Operation = %v", doc["Operation"])
	}
	if doc["GeminiLatencyMs"] != 1500.0 {
		t.Errorf("GeminiLatencyMs = %v", doc["GeminiLatencyMs"])
	}
	if doc["GeminiCalls"] != 1.0 {
		t.Errorf("GeminiCalls = %v", doc["GeminiCalls"])
	}
	if doc["model"] != "gemini-2.5-flash-image" {
		t.Errorf("model = %v", doc["model"])
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", buf.String())
	}
}

func TestRecorder_FlushDisabled(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)

	New(Namespace).Count("Requests").Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

func TestRecorder_FlushEmpty(t *testing.T) {
	buf := capture(t)

	New(Namespace).Dimension("Operation", "noop").Property("k", "v").Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output without metrics, got %q", buf.String())
	}
}
