package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/analytics/forecast"
)

func configCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.cfg.YAML()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, string(data))

			fmt.Fprintln(w, "\n# credentials")
			status := c.cfg.CredentialStatus()
			for _, key := range []string{"github_token", "anthropic_key", "weather_api_key"} {
				state := "not set"
				if status[key] {
					state = "set"
				}
				fmt.Fprintf(w, "# %-16s %s\n", key+":", state)
			}

			fmt.Fprintf(w, "\n# forecasters: %s\n", strings.Join(forecast.ListForecasters(), ", "))
			return nil
		},
	}
}
