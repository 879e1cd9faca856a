package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/pfm/internal/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://money.example.com"
	cfg.General.DefaultPeriod = string(model.Period1Year)
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("mode = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
	if got.Period() != model.Period1Year {
		t.Fatalf("Period = %s", got.Period())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nbase_url = \"http://file:5000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "http://env:6000")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "http://env:6000" {
		t.Fatalf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Level = %q", cfg.Log.Level)
	}
	// Keys missing from the file keep their defaults.
	if cfg.API.TimeoutSec != DefaultConfig().API.TimeoutSec {
		t.Fatalf("TimeoutSec = %d", cfg.API.TimeoutSec)
	}
}

func TestParseErrorIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "ftp://example.com"
	cfg.API.TimeoutSec = 0
	cfg.General.DefaultPeriod = "2weeks"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted bad config")
	}
	for _, want := range []string{"scheme", "timeout_sec", "default_period", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidateAcceptsEveryLoggerLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "warning", "error", "disabled", "off", "WARN"} {
		cfg := DefaultConfig()
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate rejected log level %q: %v", level, err)
		}
	}
}

func TestPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if got := Path(); got != filepath.Join("/tmp/cfg", "pfm", "config.toml") {
		t.Fatalf("Path = %q", got)
	}
	cfg := DefaultConfig()
	if got := cfg.SessionPath(); got != filepath.Join("/tmp/cache", "pfm", "session.db") {
		t.Fatalf("SessionPath = %q", got)
	}
	cfg.Log.File = "/var/log/pfm.log"
	if got := cfg.LogPath(); got != "/var/log/pfm.log" {
		t.Fatalf("LogPath = %q", got)
	}
}
