package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

// logLevel is shared by the root logger so the config can raise or lower it
// after the logger exists.
var logLevel = new(slog.LevelVar)

var rootCmd = &cobra.Command{
	Use:   "anirange",
	Short: "Match anime releases to the episodes they contain",
	Long: `anirange - episode-aware anime release tools

Parse release names into episode ranges, check whether a release or
torrent holds a given episode, and keep a local catalog of releases
to search by title and episode.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("anirange {{.Version}}\n")
}

// loadConfig loads the config named by --config, or the discovered one.
// Without either the built-in defaults are used.
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			slog.Debug("no config file found, using defaults")
			cfg := config.Default()
			applyLogLevel(cfg)
			return cfg, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	slog.Debug("loaded config", "path", path)
	applyLogLevel(cfg)
	return cfg, path, nil
}

func applyLogLevel(cfg *config.Config) {
	if verbose {
		return
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err == nil {
		logLevel.Set(level)
	}
}
