package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureUsesJSONInProduction(t *testing.T) {
	logger := logrus.New()
	var output bytes.Buffer

	Configure(logger, &output, "info", "production")
	logger.WithField("user_id", 7).Info("cycle started")

	payload := map[string]any{}
	if err := json.Unmarshal(output.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", output.String(), err)
	}
	if payload["msg"] != "cycle started" {
		t.Fatalf("expected msg field, got %v", payload["msg"])
	}
	if payload["user_id"] != float64(7) {
		t.Fatalf("expected user_id field 7, got %v", payload["user_id"])
	}
}

func TestConfigureUsesTextInDevelopment(t *testing.T) {
	logger := logrus.New()
	var output bytes.Buffer

	Configure(logger, &output, "debug", "development")
	logger.Debug("debug enabled")

	if !strings.Contains(output.String(), "debug enabled") {
		t.Fatalf("expected debug line in output, got %q", output.String())
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestConfigureFallsBackToInfoOnInvalidLevel(t *testing.T) {
	logger := logrus.New()
	var output bytes.Buffer

	Configure(logger, &output, "loud", "development")

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", logger.GetLevel())
	}
	if !strings.Contains(output.String(), "invalid log level") {
		t.Fatalf("expected warning about invalid level, got %q", output.String())
	}
}
