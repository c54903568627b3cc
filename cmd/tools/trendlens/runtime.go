package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/soltixdb/trendlens/internal/history"
	"github.com/soltixdb/trendlens/internal/queue"
	"github.com/soltixdb/trendlens/internal/services"
	"github.com/soltixdb/trendlens/internal/sink"
)

// runtime wires the services a command needs and releases them on Close
type runtime struct {
	sink        sink.Sink
	analysis    *services.AnalysisService
	predictions *services.PredictionService
	closers     []func() error
}

func (c *cli) open(ctx context.Context) (*runtime, error) {
	rt := &runtime{}

	out, err := sink.New(ctx, c.cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("output sink: %w", err)
	}
	rt.sink = out
	rt.closers = append(rt.closers, out.Close)

	deps := services.AnalysisDeps{Sink: out}

	if c.cfg.History.Enabled {
		store, err := history.Open(c.cfg.History.Path)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("history store: %w", err)
		}
		deps.History = store
		rt.closers = append(rt.closers, store.Close)
	}

	publisher, err := queue.NewPublisher(c.cfg.Queue)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("queue: %w", err)
	}
	if publisher != nil {
		events := queue.NewEventPublisher(publisher, c.cfg.Queue.SubjectPrefix)
		deps.Events = events
		rt.closers = append(rt.closers, events.Close)
	}

	rt.analysis, err = services.NewAnalysisService(c.logger, c.cfg.Analysis, deps)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.predictions = services.NewPredictionService(c.logger, c.cfg.Providers, c.cfg.Analysis.MaxRecords, out, nil)
	return rt, nil
}

// Close releases resources in reverse order of acquisition
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
