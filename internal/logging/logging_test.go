package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		" WARN ":   zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"off":      zerolog.Disabled,
		"warning":  zerolog.WarnLevel,
		"":         zerolog.InfoLevel,
		"chatty":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesJSONLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pfm.log")

	logger, closer, err := New(Options{Level: "info", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	apiLog := For(logger, ComponentAPI)
	apiLog.Info().Str(FieldMethod, "GET").Msg("request")
	apiLog.Debug().Msg("dropped below level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1:\n%s", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry[FieldComponent] != ComponentAPI || entry[FieldMethod] != "GET" || entry["message"] != "request" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closer, err := New(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.GetLevel() != zerolog.Disabled {
		t.Fatalf("level = %v, want disabled", logger.GetLevel())
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
