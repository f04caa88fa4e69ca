package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/internal/config"
	"github.com/vmunix/anirange/internal/danmaku"
)

var danmakuCmd = &cobra.Command{
	Use:   "danmaku",
	Short: "Show or switch danmaku loading",
}

var danmakuStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether danmaku loading is enabled",
	Args:  cobra.NoArgs,
	RunE:  runDanmakuStatus,
}

var danmakuEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable danmaku loading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setDanmakuEnabled(cmd, true)
	},
}

var danmakuDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable danmaku loading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setDanmakuEnabled(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(danmakuCmd)
	danmakuCmd.AddCommand(danmakuStatusCmd, danmakuEnableCmd, danmakuDisableCmd)
}

type danmakuStatusJSON struct {
	Enabled   bool     `json:"enabled"`
	Providers []string `json:"providers,omitempty"`
}

func runDanmakuStatus(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, danmakuStatusJSON{Enabled: cfg.Danmaku.Enabled, Providers: cfg.Danmaku.Providers})
	}

	providers := "all"
	if len(cfg.Danmaku.Providers) > 0 {
		providers = strings.Join(cfg.Danmaku.Providers, ", ")
	}
	_, _ = fmt.Fprintf(out, "Danmaku %s (providers: %s)\n", enabledLabel(cfg.Danmaku.Enabled), providers)
	return nil
}

// setDanmakuEnabled saves the switch to the loaded config file, or to the
// default location when no file exists yet.
func setDanmakuEnabled(cmd *cobra.Command, enabled bool) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if path == "" {
		path = config.DefaultPath()
		slog.Info("creating config", "path", path)
	}

	if err := danmaku.NewSettings(cfg, path).SetEnabled(enabled); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Danmaku %s (saved to %s)\n", enabledLabel(enabled), path)
	return nil
}
