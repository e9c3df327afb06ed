package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	resolveCmd.Flags().Bool("primary-only", false, "Skip the mirror fallback")
	resolveCmd.Flags().Bool("mirror-only", false, "Skip direct extraction and ask mirrors only")
	resolveCmd.MarkFlagsMutuallyExclusive("primary-only", "mirror-only")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <video-id>",
	Short: "Resolve a video id to a playable audio URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		repo, db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		use := sources{
			primary: !lo.Must(cmd.Flags().GetBool("mirror-only")),
			mirror:  !lo.Must(cmd.Flags().GetBool("primary-only")),
		}
		resolver, err := newResolver(ctx, cfg, use, recorder(repo))
		if err != nil {
			return err
		}

		res, ok := resolver.Resolve(ctx, args[0]).Get()
		if !ok {
			return fmt.Errorf("no playable stream for %q", args[0])
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", res.Source)
		fmt.Fprintln(cmd.OutOrStdout(), res.URL)
		return nil
	},
}
