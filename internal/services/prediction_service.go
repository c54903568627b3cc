package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/logging"
	"github.com/soltixdb/trendlens/internal/metrics"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/predict"
	"github.com/soltixdb/trendlens/internal/sink"
	"github.com/soltixdb/trendlens/internal/utils"
)

const predictionRule = 80

// PredictorFactory builds a predictor for a provider and optional model
type PredictorFactory func(provider, model string) (predict.Predictor, error)

// PredictOptions tune one prediction
type PredictOptions struct {
	Provider   string
	Model      string
	Question   string
	MaxRecords int
}

// BatchPrediction is one file of a batch prediction. Failures carry the
// error text prefixed with "Error: " in Prediction.
type BatchPrediction struct {
	File       string `json:"file"`
	Prediction string `json:"prediction"`
	Output     string `json:"output,omitempty"`
	Err        error  `json:"-"`
}

// PredictionService sends dataset summaries to language models
type PredictionService struct {
	logger     *logging.Logger
	factory    PredictorFactory
	sink       sink.Sink
	metrics    *metrics.Metrics
	maxRecords int
}

// NewPredictionService uses the provider configuration to build predictors
func NewPredictionService(logger *logging.Logger, cfg config.ProvidersConfig, maxRecords int, out sink.Sink, m *metrics.Metrics) *PredictionService {
	return NewPredictionServiceWithFactory(logger, func(provider, model string) (predict.Predictor, error) {
		return predict.New(provider, model, cfg)
	}, maxRecords, out, m)
}

// NewPredictionServiceWithFactory allows substituting the predictor source
func NewPredictionServiceWithFactory(logger *logging.Logger, factory PredictorFactory, maxRecords int, out sink.Sink, m *metrics.Metrics) *PredictionService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if maxRecords <= 0 {
		maxRecords = utils.DefaultMaxRecords
	}
	return &PredictionService{
		logger:     logger,
		factory:    factory,
		sink:       out,
		metrics:    m,
		maxRecords: maxRecords,
	}
}

func (s *PredictionService) predictor(opts PredictOptions) (predict.Predictor, error) {
	p, err := s.factory(opts.Provider, opts.Model)
	if err != nil {
		if errors.Is(err, predict.ErrMissingCredential) {
			return nil, wrapError(CodeProviderUnavailable, err)
		}
		return nil, wrapError(CodeInvalidRequest, err)
	}
	return p, nil
}

// PredictFile summarizes one dataset file, asks the model, and stores the
// reply as prediction_<provider>_<stem>.txt.
func (s *PredictionService) PredictFile(ctx context.Context, path string, opts PredictOptions) (*models.PredictResponse, error) {
	p, err := s.predictor(opts)
	if err != nil {
		return nil, err
	}
	return s.predictFile(ctx, p, path, opts)
}

func (s *PredictionService) predictFile(ctx context.Context, p predict.Predictor, path string, opts PredictOptions) (*models.PredictResponse, error) {
	ds, err := models.LoadDataset(path)
	if err != nil {
		return nil, datasetError(err)
	}

	maxRecords := opts.MaxRecords
	if maxRecords <= 0 {
		maxRecords = s.maxRecords
	}
	prompt := predict.BuildPredictionPrompt(predict.BuildDataSummary(ds, maxRecords), opts.Question)

	text, err := p.Predict(ctx, prompt)
	s.metrics.ObservePrediction(p.Provider(), err)
	if err != nil {
		s.logger.Error("Prediction failed", "provider", p.Provider(), "model", p.Model(), "file", path, "error", err)
		return nil, wrapError(CodePredictionFailed, err)
	}

	resp := &models.PredictResponse{
		Provider:   p.Provider(),
		Model:      p.Model(),
		Source:     path,
		Prediction: text,
	}

	if s.sink != nil {
		key := fmt.Sprintf("prediction_%s_%s.txt", p.Provider(), stem(path))
		loc, err := s.sink.Put(ctx, key, []byte(FormatPrediction(p.Model(), text)))
		if err != nil {
			return nil, wrapError(CodeOutputFailed, err)
		}
		resp.Output = loc
	}

	s.logger.Info("Prediction completed", "provider", p.Provider(), "model", p.Model(), "file", path)
	return resp, nil
}

// FormatPrediction prefixes a reply with the model header read back by
// the text analysis tools.
func FormatPrediction(model, text string) string {
	return "Model: " + model + "\n" + strings.Repeat("=", predictionRule) + "\n" + text
}

// BatchPredict runs PredictFile over every matching file in dir. Per-file
// failures are recorded, not returned.
func (s *PredictionService) BatchPredict(ctx context.Context, dir, pattern string, opts PredictOptions) ([]BatchPrediction, error) {
	files, err := MatchFiles(dir, pattern)
	if err != nil {
		return nil, err
	}
	p, err := s.predictor(opts)
	if err != nil {
		return nil, err
	}

	out := make([]BatchPrediction, 0, len(files))
	for _, file := range files {
		item := BatchPrediction{File: filepath.Base(file)}
		resp, err := s.predictFile(ctx, p, file, opts)
		if err != nil {
			item.Err = err
			item.Prediction = "Error: " + err.Error()
		} else {
			item.Prediction = resp.Prediction
			item.Output = resp.Output
		}
		out = append(out, item)
	}
	return out, nil
}

// Compare asks one question across several datasets
func (s *PredictionService) Compare(ctx context.Context, paths []string, question string, opts PredictOptions) (string, error) {
	if len(paths) < 2 {
		return "", NewServiceError(CodeInvalidRequest, "at least two datasets are required")
	}
	if strings.TrimSpace(question) == "" {
		return "", NewServiceError(CodeInvalidRequest, "a comparison question is required")
	}

	p, err := s.predictor(opts)
	if err != nil {
		return "", err
	}

	summaries := make([]predict.NamedSummary, 0, len(paths))
	for _, path := range paths {
		ds, err := models.LoadDataset(path)
		if err != nil {
			return "", datasetError(err)
		}
		summaries = append(summaries, predict.NamedSummary{
			Name:    filepath.Base(path),
			Summary: predict.BuildDataSummary(ds, utils.ComparisonMaxRecords),
		})
	}

	text, err := p.Predict(ctx, predict.BuildComparisonPrompt(summaries, question),
		predict.WithMaxTokens(utils.ComparisonMaxTokens))
	s.metrics.ObservePrediction(p.Provider(), err)
	if err != nil {
		return "", wrapError(CodePredictionFailed, err)
	}
	return text, nil
}
