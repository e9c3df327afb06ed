package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of rows to show")
	historyCmd.Flags().Duration("stats", 0, "Show per-source totals for this window instead of rows (e.g. 24h)")
	historyCmd.Flags().Duration("prune", 0, "Delete rows older than this age (e.g. 720h)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent resolutions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		repo, db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if repo == nil {
			return errors.New("history is disabled (ENABLE_HISTORY=false)")
		}
		defer db.Close()

		ctx := context.Background()
		out := cmd.OutOrStdout()

		if age := lo.Must(cmd.Flags().GetDuration("prune")); age > 0 {
			n, err := repo.PruneBefore(ctx, time.Now().Add(-age))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pruned %d rows\n", n)
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		if window := lo.Must(cmd.Flags().GetDuration("stats")); window > 0 {
			stats, err := repo.SourceStats(ctx, time.Now().Add(-window))
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "SOURCE\tCOUNT\tAVG")
			for _, s := range stats {
				src := lo.Ternary(s.Source == "", "(none)", s.Source)
				fmt.Fprintf(w, "%s\t%d\t%s\n", src, s.Count, time.Duration(s.AvgMs*float64(time.Millisecond)).Round(time.Millisecond))
			}
			return w.Flush()
		}

		rows, err := repo.RecentResolutions(ctx, lo.Must(cmd.Flags().GetInt("limit")))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "WHEN\tVIDEO\tSOURCE\tOK\tATTEMPTS\tTOOK")
		for _, r := range rows {
			ago := utils.PrettyTime(int(time.Since(r.CreatedAt).Seconds()))
			fmt.Fprintf(w, "%s ago\t%s\t%s\t%t\t%d\t%s\n", ago, r.VideoID, r.Source, r.OK, r.Attempts, r.Elapsed)
		}
		return w.Flush()
	},
}
