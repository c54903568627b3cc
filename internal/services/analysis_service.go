package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soltixdb/trendlens/internal/analytics/extract"
	"github.com/soltixdb/trendlens/internal/analytics/forecast"
	"github.com/soltixdb/trendlens/internal/analytics/ranking"
	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/metrics"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/queue"
	"github.com/soltixdb/trendlens/internal/report"
	"github.com/soltixdb/trendlens/internal/sink"
)

// SourceInline names datasets posted directly instead of read from a file
const SourceInline = "inline"

// RunRecorder stores completed runs
type RunRecorder interface {
	Record(ctx context.Context, run models.AnalysisRun) error
}

// AnalysisDeps are the optional collaborators of AnalysisService. Nil fields
// disable the corresponding side effect.
type AnalysisDeps struct {
	Sink    sink.Sink
	History RunRecorder
	Events  *queue.EventPublisher
	Metrics *metrics.Metrics
}

// AnalysisOptions tune a single run
type AnalysisOptions struct {
	Country string
	TopN    int      // 0 uses the configured default
	Formats []string // nil uses the configured formats for files and none for inline data
}

// AnalysisOutcome is the result of a run plus its side effects
type AnalysisOutcome struct {
	RunID   string
	Result  *models.AnalysisResult
	Outputs []string
	Stats   extract.Stats
}

// AnalysisService analyzes datasets and persists the results
type AnalysisService struct {
	logger     *logging.Logger
	cfg        config.AnalysisConfig
	aggregator *ranking.Aggregator
	deps       AnalysisDeps
	now        func() time.Time
}

// NewAnalysisService resolves the configured forecaster
func NewAnalysisService(logger *logging.Logger, cfg config.AnalysisConfig, deps AnalysisDeps) (*AnalysisService, error) {
	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = "linear"
	}
	f, err := forecast.GetForecaster(algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(forecast.ListForecasters(), ", "))
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &AnalysisService{
		logger:     logger,
		cfg:        cfg,
		aggregator: ranking.NewAggregator(f),
		deps:       deps,
		now:        time.Now,
	}, nil
}

// AnalyzeFile loads and analyzes one dataset file. Load failures are fatal;
// history and event failures are only logged.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path string, opts AnalysisOptions) (*AnalysisOutcome, error) {
	start := time.Now()

	ds, err := models.LoadDataset(path)
	if err != nil {
		s.deps.Metrics.ObserveAnalysis(err, time.Since(start), 0)
		return nil, datasetError(err)
	}

	if opts.Formats == nil {
		opts.Formats = s.cfg.Formats
	}
	return s.run(ctx, path, stem(path), ds, opts, start)
}

// AnalyzeDataset analyzes an in-memory dataset. name is used for output keys.
func (s *AnalysisService) AnalyzeDataset(ctx context.Context, name string, ds *models.IndicatorDataset, opts AnalysisOptions) (*AnalysisOutcome, error) {
	if ds == nil {
		return nil, NewServiceError(CodeInvalidDataset, "dataset is required")
	}
	if name == "" {
		name = SourceInline
	}
	return s.run(ctx, SourceInline, name, ds, opts, time.Now())
}

func (s *AnalysisService) run(ctx context.Context, source, name string, ds *models.IndicatorDataset, opts AnalysisOptions, start time.Time) (*AnalysisOutcome, error) {
	topN := opts.TopN
	if topN == 0 {
		topN = s.cfg.TopN
	}

	set, stats := extract.ExtractWithStats(ds, opts.Country)
	result := s.aggregator.AnalyzeSeries(ds.IndicatorName(), set, opts.Country, topN)
	if source != SourceInline {
		result.Filepath = source
	}

	out := &AnalysisOutcome{
		RunID:   uuid.NewString(),
		Result:  result,
		Outputs: []string{},
		Stats:   stats,
	}
	ctx = logging.WithRunID(ctx, out.RunID)
	logger := s.logger.WithContext(ctx).With("source", source)

	outputs, err := s.writeOutputs(ctx, name, result, opts.Formats)
	if err != nil {
		s.deps.Metrics.ObserveAnalysis(err, time.Since(start), stats.Dropped)
		logger.Error("Failed to write analysis outputs", "error", err)
		return nil, wrapError(CodeOutputFailed, err)
	}
	out.Outputs = outputs

	s.deps.Metrics.ObserveAnalysis(nil, time.Since(start), stats.Dropped)

	createdAt := s.now().UTC()
	if s.deps.History != nil {
		run := models.NewAnalysisRun(out.RunID, source, result, createdAt)
		if err := s.deps.History.Record(ctx, run); err != nil {
			logger.Warn("Failed to record analysis history", "error", err)
		}
	}

	if s.deps.Events != nil {
		event := models.AnalysisEvent{
			ID:             out.RunID,
			Indicator:      result.Indicator,
			Source:         source,
			TotalCountries: result.TotalEntities,
			Selected:       result.EntityAnalyses.Names(),
			GlobalSummary:  result.GlobalSummary,
			CreatedAt:      createdAt,
		}
		if err := s.deps.Events.PublishAnalysis(ctx, event); err != nil {
			s.deps.Metrics.EventPublishFailed()
			logger.Warn("Failed to publish analysis event", "error", err)
		}
	}

	logger.Info("Analysis completed",
		"indicator", result.Indicator,
		"total_countries", result.TotalEntities,
		"selected", len(result.EntityAnalyses),
		"records", stats.Total,
		"dropped", stats.Dropped,
		"duration", time.Since(start))
	return out, nil
}

func (s *AnalysisService) writeOutputs(ctx context.Context, name string, result *models.AnalysisResult, formats []string) ([]string, error) {
	locations := make([]string, 0, len(formats))
	if s.deps.Sink == nil || len(formats) == 0 {
		return locations, nil
	}

	for _, format := range formats {
		data, ext, err := report.Render(format, result)
		if err != nil {
			return nil, err
		}
		loc, err := s.deps.Sink.Put(ctx, "analysis_"+name+ext, data)
		if err != nil {
			return nil, fmt.Errorf("store %s output: %w", format, err)
		}
		if loc != "" {
			locations = append(locations, loc)
		}
	}
	return locations, nil
}

// stem returns the file name without directory and extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
