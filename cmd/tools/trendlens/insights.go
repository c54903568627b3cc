package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/services"
	"github.com/soltixdb/trendlens/internal/textanalysis"
)

const (
	defaultPredictionPattern = "prediction_*.txt"
	insightsReportKey        = "prediction_analysis_report.txt"
	insightsJSONKey          = "prediction_analysis.json"
)

func insightsCmd(c *cli) *cobra.Command {
	var (
		pattern string
		asJSON  bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "insights <file|dir>...",
		Short: "Analyze saved model predictions",
		Long: `Extract key points, numeric mentions and tone from saved predictions
and print a comparison report.

Examples:
  trendlens insights output/
  trendlens insights output/prediction_github_population.txt --json
  trendlens insights output/ --save`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args, pattern)
			if err != nil {
				return err
			}

			analyses := make([]textanalysis.Analysis, 0, len(files))
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				analyses = append(analyses, textanalysis.AnalyzeText(filepath.Base(file), string(data)))
			}

			comparison, err := textanalysis.Compare(analyses)
			if err != nil {
				return err
			}
			text := textanalysis.SummaryReport(comparison)

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, comparison); err != nil {
					return err
				}
			} else {
				fmt.Fprint(w, text)
			}

			if !save {
				return nil
			}
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			data, err := json.MarshalIndent(comparison, "", "  ")
			if err != nil {
				return err
			}
			outputs := []struct {
				key  string
				data []byte
			}{
				{insightsReportKey, []byte(text)},
				{insightsJSONKey, data},
			}
			for _, o := range outputs {
				loc, err := rt.sink.Put(cmd.Context(), o.key, o.data)
				if err != nil {
					return err
				}
				if loc != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Saved: %s\n", loc)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", defaultPredictionPattern, "glob of prediction files inside directories")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "store the report and JSON through the output sink")

	return cmd
}

// collectFiles expands directories with pattern and keeps plain files as given
func collectFiles(args []string, pattern string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := services.MatchFiles(arg, pattern)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no prediction files found")
	}
	return files, nil
}
