package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/report"
	"github.com/soltixdb/trendlens/internal/services"
)

func analyzeCmd(c *cli) *cobra.Command {
	var (
		country string
		topN    int
		asJSON  bool
		formats []string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one indicator dataset",
		Long: `Analyze an indicator dataset file and print the report.

Examples:
  trendlens analyze data/population.json
  trendlens analyze data/gdp.json --country Japan
  trendlens analyze data/co2.json --top-n 5 --format json,xlsx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			opts := services.AnalysisOptions{Country: country, TopN: topN}
			if cmd.Flags().Changed("format") {
				opts.Formats = formats
			}
			outcome, err := rt.analysis.AnalyzeFile(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, outcome.Result)
			}
			if err := report.WriteText(w, outcome.Result); err != nil {
				return err
			}
			for _, loc := range outcome.Outputs {
				fmt.Fprintf(w, "Saved: %s\n", loc)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "analyze a single country")
	cmd.Flags().IntVarP(&topN, "top-n", "n", 0, "countries kept in the report (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output formats to store (json, text, xlsx)")

	return cmd
}

func batchCmd(c *cli) *cobra.Command {
	var (
		pattern string
		workers int
		country string
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every dataset in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if pattern == "" {
				pattern = c.cfg.Analysis.Pattern
			}
			if workers <= 0 {
				workers = c.cfg.Analysis.Workers
			}

			batch := services.NewBatchService(c.logger, rt.analysis, workers)
			result, err := batch.AnalyzeDir(cmd.Context(), args[0], pattern, services.AnalysisOptions{Country: country})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, item := range result.Items {
				if item.Err != nil {
					fmt.Fprintf(w, "FAIL  %s: %v\n", filepath.Base(item.File), item.Err)
					continue
				}
				names := item.Outcome.Result.EntityAnalyses.Names()
				fmt.Fprintf(w, "OK    %s: %s (%d countries, top: %s)\n",
					filepath.Base(item.File), item.Outcome.Result.Indicator, item.Outcome.Result.TotalEntities, strings.Join(names, ", "))
			}
			fmt.Fprintf(w, "\n%d succeeded, %d failed\n", result.Succeeded, result.Failed)
			if result.Failed > 0 && result.Succeeded == 0 {
				return fmt.Errorf("all %d files failed", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob of files to analyze (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "files analyzed in parallel (default from config)")
	cmd.Flags().StringVarP(&country, "country", "c", "", "analyze a single country")

	return cmd
}

func forecastCmd(c *cli) *cobra.Command {
	var (
		country string
		horizon int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "forecast <file>",
		Short: "Forecast one country of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			fc, err := rt.analysis.ForecastFile(cmd.Context(), args[0], country, horizon)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, fc)
			}
			fmt.Fprintf(w, "%s - %s\n", fc.Indicator, fc.Entity)
			fmt.Fprintf(w, "Trend: %s (%d observations)\n", fc.Trend, len(fc.History))
			fmt.Fprintf(w, "%d-year forecast:\n", fc.Horizon)
			for _, p := range fc.Forecast {
				fmt.Fprintf(w, "  %d: %s\n", p.Period, report.Number(p.Value))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "country to forecast")
	cmd.Flags().IntVarP(&horizon, "horizon", "H", 0, "periods to project (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the forecast as JSON")
	_ = cmd.MarkFlagRequired("country")

	return cmd
}
