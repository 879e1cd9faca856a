// Package logging configures the zerolog file logger used across pfm.
//
// The TUI owns stdout, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field names shared by every component.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldOperation = "operation"
	FieldEntity    = "entity"
	FieldEntityID  = "entity_id"
	FieldCount     = "count"
	FieldRoute     = "route"
)

// Component names.
const (
	ComponentAPI        = "api"
	ComponentSession    = "session"
	ComponentStore      = "store"
	ComponentController = "controller"
	ComponentRouter     = "router"
	ComponentTUI        = "tui"
	ComponentCLI        = "cli"
)

// Operation names.
const (
	OpLoad     = "load"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpValidate = "validate"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpRegister = "register"
)

// Options configures New.
type Options struct {
	Level string // debug, info, warn, error, disabled (plus warning, off)
	Path  string // log file; empty discards output
}

// New opens the log file and returns a root logger plus a closer.
// A failure to open the file yields a discarding logger and the error.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)
	if opts.Path == "" || level == zerolog.Disabled {
		return Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
		return Nop(), nopCloser{}, fmt.Errorf("creating log dir: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	f, err := os.OpenFile(opts.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return Nop(), nopCloser{}, fmt.Errorf("opening log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f, nil
}

var levels = map[string]zerolog.Level{
	"":         zerolog.InfoLevel,
	"info":     zerolog.InfoLevel,
	"debug":    zerolog.DebugLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
	"off":      zerolog.Disabled,
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether ParseLevel recognizes s.
func ValidLevel(s string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// For returns a sub-logger tagged with a component name.
func For(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str(FieldComponent, component).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
