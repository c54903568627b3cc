package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/predict"
	"github.com/soltixdb/trendlens/internal/services"
)

type predictFlags struct {
	provider string
	model    string
	question string
}

func (f *predictFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "language model provider: github or anthropic (default from config)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model name or alias (see 'trendlens models')")
	cmd.Flags().StringVarP(&f.question, "question", "q", "", "question to ask about the data")
}

func (f *predictFlags) options() services.PredictOptions {
	return services.PredictOptions{Provider: f.provider, Model: f.model, Question: f.question}
}

func predictCmd(c *cli) *cobra.Command {
	var (
		flags   predictFlags
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "predict <file|dir>",
		Short: "Ask a language model about a dataset or every dataset in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			w := cmd.OutOrStdout()
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}

			if info.IsDir() {
				if pattern == "" {
					pattern = c.cfg.Analysis.Pattern
				}
				results, err := rt.predictions.BatchPredict(cmd.Context(), args[0], pattern, flags.options())
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Fprintf(w, "%s\n%s\n%s\n\n", r.File, strings.Repeat("-", 80), r.Prediction)
				}
				return nil
			}

			resp, err := rt.predictions.PredictFile(cmd.Context(), args[0], flags.options())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, services.FormatPrediction(resp.Model, resp.Prediction))
			if resp.Output != "" {
				fmt.Fprintf(w, "\nSaved: %s\n", resp.Output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob of datasets when a directory is given (default from config)")

	return cmd
}

func compareCmd(c *cli) *cobra.Command {
	var flags predictFlags

	cmd := &cobra.Command{
		Use:   "compare <file> <file>...",
		Short: "Ask one question across several datasets",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			text, err := rt.predictions.Compare(cmd.Context(), args, flags.question, flags.options())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List GitHub Models aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, a := range predict.ModelAliases() {
				fmt.Fprintf(w, "  %-22s %s\n", a.Name, a.ID)
			}
			return nil
		},
	}
}
