package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soltixdb/trendlens/internal/queue"
)

func watchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print analysis events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sub, err := queue.NewSubscriber(c.cfg.Queue)
			if err != nil {
				return err
			}
			defer func() { _ = sub.Close() }()

			subject := queue.CompletedSubject(c.cfg.Queue.SubjectPrefix)
			w := cmd.OutOrStdout()
			err = sub.Subscribe(subject, func(data []byte) error {
				ev, err := queue.DecodeAnalysisEvent(data)
				if err != nil {
					c.logger.Warn("Skipping malformed event", "error", err)
					return nil
				}
				fmt.Fprintf(w, "%s  %s  %s  %d countries  top: %s\n",
					ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.ID, ev.Indicator,
					ev.TotalCountries, strings.Join(ev.Selected, ", "))
				return nil
			})
			if err != nil {
				return err
			}
			c.logger.Info("Watching analysis events", "subject", subject, "type", c.cfg.Queue.Type)

			<-ctx.Done()
			return nil
		},
	}
}
