package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/sonroyaalmerol/tubevoice/internal/config"
	"github.com/sonroyaalmerol/tubevoice/internal/skill"
	"github.com/sonroyaalmerol/tubevoice/internal/sponsorblock"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().String("listen", ":8080", "Address the skill endpoint listens on")
	lo.Must0(v.BindPFlag(config.KeyListenAddr, serveCmd.Flags().Lookup("listen")))

	serveCmd.Flags().Bool("sponsorblock", false, "Start playback after leading sponsor or intro segments")
	lo.Must0(v.BindPFlag(config.KeyEnableSponsorBlock, serveCmd.Flags().Lookup("sponsorblock")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the voice skill endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		repo, db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		resolver, err := newResolver(ctx, cfg, sources{primary: true, mirror: true}, recorder(repo))
		if err != nil {
			return err
		}

		var searcher skill.Searcher
		if client, err := newSearch(ctx, cfg); err != nil {
			slog.Warn("search disabled", "err", err)
		} else {
			searcher = client
		}

		var offsets skill.OffsetProvider
		if cfg.EnableSponsorBlock {
			offsets = sponsorblock.NewApplier(sponsorblock.NewClient(""), cfg.SponsorBlockTimeoutMin)
		}

		h := skill.NewHandler(searcher, resolver, offsets)
		return skill.NewServer(cfg.ListenAddr, h).Run(ctx)
	},
}
