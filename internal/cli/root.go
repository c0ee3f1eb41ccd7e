package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/narayanwaraich/bookie-sub004/internal/cleanup"
	"github.com/narayanwaraich/bookie-sub004/internal/config"
	"github.com/narayanwaraich/bookie-sub004/internal/logging"
	"github.com/narayanwaraich/bookie-sub004/internal/version"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	tracker *cleanup.Tracker
	now     func() time.Time

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the bookie command tree.
func NewRootCmd(tracker *cleanup.Tracker) *cobra.Command {
	a := &app{tracker: tracker, now: time.Now}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookie",
		Short: "Duration and token lifetime tooling for the bookie backend",
		Long: `bookie

Converts human-written durations such as "1h 30m" or "7d" into milliseconds,
and computes token expiry times from configured lifetimes.
`,
		Version:           version.Print(),
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	cmd.AddCommand(a.parseCmd(), a.batchCmd(), a.expiryCmd(), a.configCmd())

	// Silence usage output for runtime errors, but show it for flag errors
	// SilenceErrors is true so we can control error output format in main()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})
	return cmd
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	cfg.Log.Level, cfg.Log.Format = level, format

	logger, err := logging.NewWriter(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if a.tracker != nil {
		a.tracker.SetLogger(logger)
	}
	cmd.SetContext(logging.WithContext(contextOf(cmd), logger))
	return nil
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context, tracker *cleanup.Tracker) error {
	root := NewRootCmd(tracker)
	if err := root.ExecuteContext(ctx); err != nil {
		// Show usage for required flag and argument errors
		msg := err.Error()
		if strings.Contains(msg, "required flag") || strings.Contains(msg, "arg(s)") {
			_ = root.Usage()
		}
		return err
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.cfg.YAML()
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
