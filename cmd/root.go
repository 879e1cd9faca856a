// Package cmd implements the pfm CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/config"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/router"
	"github.com/theirongolddev/pfm/internal/session"
)

var (
	flagAPIURL  string
	flagQuiet   bool
	flagVerbose bool
)

// errNotLoggedIn is returned by commands that need a session.
var errNotLoggedIn = errors.New("not logged in: run `pfm login` first")

// appEnv holds what every command needs once flags are parsed.
type appEnv struct {
	cfg      config.Config
	log      zerolog.Logger
	logFile  io.Closer
	session  *session.Store
	client   *api.Client
	firstRun bool
}

var env *appEnv

var rootCmd = &cobra.Command{
	Use:               "pfm",
	Short:             "Personal finance manager",
	Long:              "Track transactions, budgets and spending reports against your finance server.",
	SilenceUsage:      true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return openEnv() },
	PersistentPostRun: func(_ *cobra.Command, _ []string) { closeEnv() },
	RunE:              runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeEnv()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Finance server URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")
}

// openEnv loads configuration, opens the log file and session store, and
// builds the API client.
func openEnv() error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile, err := logging.New(logging.Options{Level: cfg.Log.Level, Path: cfg.LogPath()})
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Logging disabled: %v\n", err)
	}

	sess, err := session.Open(cfg.SessionPath(), logger)
	if err != nil {
		_ = logFile.Close()
		return err
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)
	if err != nil {
		_ = sess.Close()
		_ = logFile.Close()
		return err
	}

	env = &appEnv{
		cfg:      cfg,
		log:      logging.For(logger, logging.ComponentCLI),
		logFile:  logFile,
		session:  sess,
		client:   client,
		firstRun: !config.Exists(),
	}
	env.log.Debug().Str("api_url", cfg.API.BaseURL).Msg("environment ready")
	return nil
}

func closeEnv() {
	if env == nil {
		return
	}
	if err := env.session.Close(); err != nil {
		env.log.Warn().Err(err).Msg("closing session store")
	}
	_ = env.logFile.Close()
	env = nil
}

// requireRoute fails unless the session may open route.
func requireRoute(route router.Route) error {
	if router.Resolve(string(route), env.session.IsAuthenticated()) != route {
		return errNotLoggedIn
	}
	return nil
}

// progress writes a status line to stderr unless --quiet is set.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

// failed turns a controller's display message into a command error.
func failed(msg string) error {
	if msg == "" {
		msg = "request failed"
	}
	return errors.New(msg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
