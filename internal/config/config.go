// Package config loads and saves pfm's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
)

// Environment overrides, applied after the config file.
const (
	EnvAPIURL   = "PFM_API_URL"
	EnvLogLevel = "PFM_LOG_LEVEL"
)

const defaultAPIURL = "http://localhost:5000"

// Config holds all pfm configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig points the client at the finance server.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPeriod string `toml:"default_period"`
	SessionPath   string `toml:"session_path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    defaultAPIURL,
			TimeoutSec: 15,
		},
		General: GeneralConfig{
			DefaultPeriod: string(model.DefaultPeriod),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pfm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pfm")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the directory for session and log files.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pfm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pfm")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating the directory if needed.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api.base_url %q", c.API.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid api.base_url scheme %q: must be http or https", u.Scheme))
	}

	if c.API.TimeoutSec < 1 {
		problems = append(problems, fmt.Sprintf("invalid api.timeout_sec %d: must be at least 1", c.API.TimeoutSec))
	}

	if _, err := model.ParsePeriod(c.General.DefaultPeriod); err != nil {
		problems = append(problems, "general.default_period: "+err.Error())
	}

	if !logging.ValidLevel(c.Log.Level) {
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Timeout returns the per-request API timeout.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSec < 1 {
		return 15 * time.Second
	}
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// Period returns the configured default report period.
func (c Config) Period() model.Period {
	p, err := model.ParsePeriod(c.General.DefaultPeriod)
	if err != nil {
		return model.DefaultPeriod
	}
	return p
}

// SessionPath returns the location of the session database.
func (c Config) SessionPath() string {
	if c.General.SessionPath != "" {
		return c.General.SessionPath
	}
	return filepath.Join(CacheDir(), "session.db")
}

// LogPath returns the location of the log file.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(CacheDir(), "pfm.log")
}
