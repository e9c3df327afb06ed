package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	searchCmd.Flags().Int64P("limit", "n", 5, "Maximum number of results")
	searchCmd.Flags().Bool("resolve", false, "Also resolve the first result to an audio URL")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search videos through the Data API",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := context.Background()

		client, err := newSearch(ctx, cfg)
		if err != nil {
			return err
		}
		videos, err := client.SearchVideos(ctx, strings.Join(args, " "), lo.Must(cmd.Flags().GetInt64("limit")))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCHANNEL")
		for _, vid := range videos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", vid.ID, vid.Title, vid.Channel)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(videos) == 0 || !lo.Must(cmd.Flags().GetBool("resolve")) {
			return nil
		}
		resolver, err := newResolver(ctx, cfg, sources{primary: true, mirror: true}, nil)
		if err != nil {
			return err
		}
		url, ok := resolver.ResolveAudioURL(ctx, videos[0].ID)
		if !ok {
			return fmt.Errorf("no playable stream for %q", videos[0].ID)
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}
