package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{" WARN ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(Config{Level: "info", Format: "json", Service: "billingledger", Output: &buf}), "indexer")

	log.Info().Uint64("block", 42).Msg("batch processed")
	log.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single line at info level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", lines[0], err)
	}

	if entry["message"] != "batch processed" || entry["component"] != "indexer" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["service"] != "billingledger" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["block"] != float64(42) {
		t.Fatalf("expected block field, got %v", entry["block"])
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp field in %v", entry)
	}
}

func TestNewConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "console", Output: &buf})

	log.Debug().Str("event", "TokensAdded").Msg("applied")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("console format must not emit JSON, got %q", out)
	}
	if !strings.Contains(out, "applied") || !strings.Contains(out, "TokensAdded") {
		t.Fatalf("expected message and field in %q", out)
	}
}
