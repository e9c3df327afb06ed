package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/sonroyaalmerol/tubevoice/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var v = config.New()

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	lo.Must0(v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level")))

	pf.String("data-dir", "./data", "Directory for the history database and scratch files")
	lo.Must0(v.BindPFlag(config.KeyDataDir, pf.Lookup("data-dir")))

	pf.String("cookies", "", "Netscape cookie file handed to the extractor")
	lo.Must0(v.BindPFlag(config.KeyCookiesPath, pf.Lookup("cookies")))

	pf.String("secrets", "secrets.json", "JSON secrets file holding youtube.api_key")
	lo.Must0(v.BindPFlag(config.KeySecretsFile, pf.Lookup("secrets")))

	rootCmd.AddCommand(serveCmd, resolveCmd, searchCmd, historyCmd)
}

var rootCmd = &cobra.Command{
	Use:           "tubevoice",
	Short:         "Voice skill backend that turns spoken queries into playable audio streams",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(v.GetString(config.KeyLogLevel))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		handleErr(err)
	}
}

func handleErr(err error) {
	if err != nil {
		slog.Debug("command failed", "err", err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// loadConfig reads configuration and prepares the data directories.
func loadConfig() (*config.Config, error) {
	fs := afero.NewOsFs()
	cfg, err := config.Load(v, fs)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(fs); err != nil {
		return nil, err
	}
	return cfg, nil
}
