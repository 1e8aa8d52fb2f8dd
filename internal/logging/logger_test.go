// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// restoreDefaults resets the global logger after a test reconfigures it.
func restoreDefaults(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { Init(DefaultConfig()) })
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("hidden")
	Warn().Str("component", "test").Msg("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message written at warn level: %s", output)
	}
	if !strings.Contains(output, `"message":"visible"`) || !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("expected warn message, got: %s", output)
	}
	if strings.Contains(output, `"time"`) {
		t.Errorf("timestamp written with Timestamp=false: %s", output)
	}
}

func TestConsoleFormat(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console message")

	output := buf.String()
	if !strings.Contains(output, "console message") || strings.HasPrefix(output, "{") {
		t.Errorf("expected console output, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})

	logger := WithComponent("snapshot")
	logger.Debug().Msg("saved")

	if !strings.Contains(buf.String(), `"component":"snapshot"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
	if !IsLevelEnabled(zerolog.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestErr(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})

	Err(errors.New("disk full")).Msg("snapshot failed")

	output := buf.String()
	if !strings.Contains(output, `"error":"disk full"`) || !strings.Contains(output, `"level":"error"`) {
		t.Errorf("expected error event, got: %s", output)
	}
}

func TestSetLogger(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	SetLogger(NewTestLogger(&buf))
	Error().Msg("replaced")

	if !strings.Contains(buf.String(), "replaced") {
		t.Errorf("expected output from replaced logger, got: %s", buf.String())
	}
}
