package services

import (
	"context"
	"errors"

	"github.com/soltixdb/trendlens/internal/analytics/ranking"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// Forecast projects a single entity. A zero horizon uses the configured one.
func (s *AnalysisService) Forecast(ctx context.Context, ds *models.IndicatorDataset, country string, horizon int) (*ranking.EntityForecast, error) {
	if ds == nil {
		return nil, NewServiceError(CodeInvalidDataset, "dataset is required")
	}
	if country == "" {
		return nil, NewServiceError(CodeInvalidRequest, "country is required")
	}
	if horizon == 0 {
		horizon = s.cfg.Horizon
	}
	if horizon < 1 || horizon > utils.MaxForecastHorizon {
		return nil, NewServiceErrorWithDetails(CodeInvalidRequest, "horizon out of range", map[string]interface{}{
			"horizon": horizon,
			"min":     1,
			"max":     utils.MaxForecastHorizon,
		})
	}

	fc, err := s.aggregator.ForecastEntity(ds, country, horizon)
	if err != nil {
		if errors.Is(err, ranking.ErrEntityNotFound) {
			return nil, wrapError(CodeEntityNotFound, err)
		}
		return nil, wrapError(CodeInvalidRequest, err)
	}

	s.logger.Debug("Forecast computed",
		"indicator", fc.Indicator,
		"country", country,
		"horizon", horizon,
		"points", len(fc.History))
	return fc, nil
}

// ForecastFile loads a dataset file and forecasts one entity
func (s *AnalysisService) ForecastFile(ctx context.Context, path, country string, horizon int) (*ranking.EntityForecast, error) {
	ds, err := models.LoadDataset(path)
	if err != nil {
		return nil, datasetError(err)
	}
	return s.Forecast(ctx, ds, country, horizon)
}
