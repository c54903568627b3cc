package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/fetch"
	"github.com/soltixdb/trendlens/internal/models"
)

func fetchCmd(c *cli) *cobra.Command {
	var (
		dateRange string
		perPage   int
		out       string
	)

	cmd := &cobra.Command{
		Use:   "fetch <country> <indicator>...",
		Short: "Download World Bank indicators into the data directory",
		Long: `Download one or more World Bank indicators for a country code.

Examples:
  trendlens fetch JPN SP.POP.TOTL
  trendlens fetch USA NY.GDP.MKTP.CD EN.ATM.CO2E.PC
  trendlens fetch WLD SP.POP.TOTL --date 1990:2023 --out data/world_population.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			country, indicators := args[0], args[1:]
			if out != "" && len(indicators) > 1 {
				return fmt.Errorf("--out can only be used with a single indicator")
			}

			client := fetch.NewWorldBankClient(c.cfg.Fetch)
			var datasets []*models.IndicatorDataset
			if len(indicators) == 1 {
				ds, err := client.FetchIndicator(cmd.Context(), country, indicators[0], dateRange, perPage)
				if err != nil {
					return err
				}
				datasets = append(datasets, ds)
			} else {
				var err error
				datasets, err = client.FetchIndicators(cmd.Context(), country, indicators)
				if err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			for i, ds := range datasets {
				path := out
				if path == "" {
					path = filepath.Join(c.cfg.Analysis.DataDir, datasetFileName(country, indicators[i]))
				}
				if err := saveDataset(path, ds); err != nil {
					return err
				}
				fmt.Fprintf(w, "Saved %d records of %q to %s\n", len(ds.Records()), ds.IndicatorName(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateRange, "date", "d", "", "date range such as 2000:2023 (default from config)")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "records per request (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <data_dir>/<country>_<indicator>.json)")

	return cmd
}

// datasetFileName turns SP.POP.TOTL into jpn_sp_pop_totl.json
func datasetFileName(country, indicator string) string {
	name := strings.ToLower(country + "_" + indicator)
	return strings.NewReplacer(".", "_", "/", "_").Replace(name) + ".json"
}

func saveDataset(path string, ds *models.IndicatorDataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func weatherCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "weather <city>",
		Short: "Show current weather for a city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := fetch.NewWeatherClient(c.cfg.Fetch)
			data, err := client.Current(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), data)
		},
	}
}
