package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/filemill/cmd/filemill/opts"
	"github.com/walteh/filemill/pkg/config"
	"github.com/walteh/filemill/pkg/operation"
	"github.com/walteh/filemill/pkg/registry"
)

var (
	// Flags
	configFile string
	pluginDir  string
	logLevel   string
	debug      bool
	quiet      bool
)

// newRootOpts loads the config, applies flag overrides, and discovers
// plugins. It returns a context carrying the effective logger.
func newRootOpts(ctx context.Context) (context.Context, *opts.RootOpts, error) {
	// Load config
	cfg, err := config.LoadOrDefault(ctx, configFile)
	if err != nil {
		return ctx, nil, errors.Errorf("loading config: %w", err)
	}
	if pluginDir != "" {
		cfg.PluginDir = pluginDir
	}

	if err := applyLogLevel(cfg); err != nil {
		return ctx, nil, err
	}
	ctx = zerolog.Ctx(ctx).WithContext(ctx)

	// Build registry: builtins plus whatever the plugin dir holds
	reg := registry.New(ctx)
	if err := reg.Discover(ctx, cfg.PluginDir); err != nil {
		return ctx, nil, errors.Errorf("discovering plugins: %w", err)
	}

	op, err := operation.New(operation.Options{Registry: reg, Config: cfg})
	if err != nil {
		return ctx, nil, errors.Errorf("building operator: %w", err)
	}

	return ctx, &opts.RootOpts{
		Config:   cfg,
		Registry: reg,
		Operator: op,
		Quiet:    quiet,
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: search for .filemill)")
	cmd.PersistentFlags().StringVarP(&pluginDir, "plugin-dir", "p", "", "directory scanned for plugin executables")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "zerolog level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "structured logs instead of terminal output")
}

// setupLogging configures zerolog before flags are parsed
func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// applyLogLevel resolves the effective level: --debug wins, then
// --log-level, then the config file.
func applyLogLevel(cfg *config.Config) error {
	switch {
	case debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case logLevel != "":
		lvl, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return errors.Errorf("parsing log level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)
	default:
		zerolog.SetGlobalLevel(cfg.Level())
	}
	return nil
}
