package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/telecom-kpi/pkg/config"
)

func TestNew_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zerolog.Level
	}{
		{"debug level", "debug", zerolog.DebugLevel},
		{"info level", "info", zerolog.InfoLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"}
			if NewWithWriter(cfg, &buf) == nil {
				t.Fatal("Expected logger to be created")
			}
			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestJSONOutputCarriesServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "staging", LogLevel: "debug", LogFormat: "json"}

	NewWithWriter(cfg, &buf).Info("pipeline started")

	entry := decode(t, &buf)
	if entry["service"] != "telecom-kpi" {
		t.Errorf("Expected service telecom-kpi, got %v", entry["service"])
	}
	if entry["env"] != "staging" {
		t.Errorf("Expected env staging, got %v", entry["env"])
	}
	if entry["message"] != "pipeline started" {
		t.Errorf("Expected message, got %v", entry["message"])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}

	NewWithWriter(cfg, &buf).Info("console message")

	if !strings.Contains(buf.String(), "console message") {
		t.Errorf("Expected console output to contain message, got: %s", buf.String())
	}
}

func TestWithFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log := &Logger{zlog: zerolog.New(&buf)}

	log.WithFields(map[string]interface{}{
		"kpi":      "internet",
		"min_year": 2023,
	}).Info("kpi computed")

	entry := decode(t, &buf)
	if entry["kpi"] != "internet" {
		t.Errorf("Expected kpi field, got %v", entry["kpi"])
	}
	if entry["min_year"] != float64(2023) {
		t.Errorf("Expected min_year 2023, got %v", entry["min_year"])
	}

	buf.Reset()
	component := log.Component("pipeline.projector")
	component.Debug().Msg("projected")

	entry = decode(t, &buf)
	if entry["component"] != "pipeline.projector" {
		t.Errorf("Expected component tag, got %v", entry["component"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := &Logger{zlog: zerolog.New(&buf)}

	log.WithError(errors.New("query timed out")).Error("data unavailable")

	entry := decode(t, &buf)
	if entry["error"] != "query timed out" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Info("discarded")
}
