package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/history"
	"github.com/soltixdb/trendlens/internal/report"
)

func historyCmd(c *cli) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.History.Enabled {
				return errors.New("analysis history is disabled (history.enabled)")
			}
			store, err := history.Open(c.cfg.History.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			w := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(w, run)
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(w, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(w, "No analysis runs recorded")
				return nil
			}

			for _, run := range runs {
				maxValue := "-"
				if run.MaxValue != nil {
					maxValue = report.Number(*run.MaxValue)
				}
				fmt.Fprintf(w, "%s  %-14s  %-30s  %3d/%-3d  max %s  %s\n",
					run.ID, humanize.Time(run.CreatedAt), run.Indicator,
					run.Selected, run.TotalCountries, maxValue, run.Source)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")

	return cmd
}
