package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sistemamedi/medupload/internal/config"
	"github.com/sistemamedi/medupload/internal/log"
)

// environment is where buildConfig reads the MEDUPLOAD_* overrides.
type environment struct {
	envFile string
	lookup  config.LookupFunc
}

type environmentKey struct{}

// processEnvironment reads the process environment and ./.env.
var processEnvironment = environment{envFile: config.DefaultEnvFile, lookup: os.LookupEnv}

// withEnvironment returns a context whose commands read env instead of
// the process environment.
func withEnvironment(ctx context.Context, env environment) context.Context {
	return context.WithValue(ctx, environmentKey{}, env)
}

// environmentOf returns the environment attached to the command context.
func environmentOf(cmd *cobra.Command) environment {
	if ctx := cmd.Context(); ctx != nil {
		if env, ok := ctx.Value(environmentKey{}).(environment); ok {
			return env
		}
	}
	return processEnvironment
}

// buildConfig creates a Config from defaults, the configuration file,
// the environment and the command flags, in increasing precedence.
// Only flags set explicitly on the command line override other sources.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = getGlobalString(cmd, "config")
	if err != nil {
		return nil, err
	}

	// An explicit config path must exist; otherwise a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	env := environmentOf(cmd)
	if err := config.LoadEnv(cfg, env.envFile, env.lookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg. Flags that a command
// does not define are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if locale, err := getGlobalString(cmd, "locale"); err == nil && locale != "" {
		cfg.Locale = locale
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("endpoint") {
		if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return err
		}
	}
	if changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if changed("max-size") {
		if cfg.MaxPreviewSize, err = flags.GetInt64("max-size"); err != nil {
			return err
		}
	}
	if changed("header") {
		headers, err := flags.GetStringToString("header")
		if err != nil {
			return err
		}
		for k, v := range headers {
			cfg.Headers[k] = v
		}
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getGlobalString retrieves a persistent string flag from the command or its root.
func getGlobalString(cmd *cobra.Command, name string) (string, error) {
	if v, err := cmd.Flags().GetString(name); err == nil {
		return v, nil
	}
	return cmd.Root().PersistentFlags().GetString(name)
}

// setupLogger creates the sanitizing logger used by all commands.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
