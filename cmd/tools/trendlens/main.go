package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/logging"
)

var Version = "dev"

// cli holds state shared by every subcommand
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:               "trendlens",
		Short:             "trendlens - indicator trend analysis and forecasting",
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.load,
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "path to configuration file")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd(c))
	rootCmd.AddCommand(batchCmd(c))
	rootCmd.AddCommand(forecastCmd(c))
	rootCmd.AddCommand(fetchCmd(c))
	rootCmd.AddCommand(weatherCmd(c))
	rootCmd.AddCommand(predictCmd(c))
	rootCmd.AddCommand(compareCmd(c))
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(insightsCmd(c))
	rootCmd.AddCommand(historyCmd(c))
	rootCmd.AddCommand(watchCmd(c))
	rootCmd.AddCommand(configCmd(c))

	return rootCmd
}

// load reads the configuration and sets up logging. Logs go to stderr unless a
// file is configured so command output stays clean.
func (c *cli) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	if logCfg.OutputPath == "" || logCfg.OutputPath == "stdout" {
		logCfg.OutputPath = "stderr"
	}
	logger, err := logging.NewFromConfig(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	c.cfg = cfg
	c.logger = logger
	return nil
}
