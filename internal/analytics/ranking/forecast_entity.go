package ranking

import (
	"errors"
	"fmt"

	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/analytics/extract"
	"github.com/soltixdb/trendlens/internal/analytics/forecast"
	"github.com/soltixdb/trendlens/internal/analytics/trend"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// ErrEntityNotFound is returned when the dataset holds no usable points for the entity
var ErrEntityNotFound = errors.New("entity not found")

// EntityForecast is the stand-alone forecast of one entity
type EntityForecast struct {
	Indicator string                 `json:"indicator"`
	Entity    string                 `json:"country"`
	Horizon   int                    `json:"horizon"`
	History   []models.ForecastPoint `json:"history"`
	Trend     string                 `json:"trend"`
	Forecast  []models.ForecastPoint `json:"forecast"`
	Model     forecast.ModelInfo     `json:"model"`
}

// ForecastEntity projects a single entity's series. A zero horizon means the
// default; anything outside 1..100 is rejected.
func (a *Aggregator) ForecastEntity(ds *models.IndicatorDataset, entity string, horizon int) (*EntityForecast, error) {
	if entity == "" {
		return nil, fmt.Errorf("entity is required")
	}
	if horizon == 0 {
		horizon = utils.DefaultForecastHorizon
	}
	if horizon < 1 || horizon > utils.MaxForecastHorizon {
		return nil, fmt.Errorf("horizon must be between 1 and %d, got %d", utils.MaxForecastHorizon, horizon)
	}

	ts, ok := extract.Extract(ds, entity).Get(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
	}

	res, err := a.forecaster.Forecast(ts, forecast.ForecastConfig{Horizon: horizon})
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", entity, err)
	}

	out := &EntityForecast{
		Indicator: ds.IndicatorName(),
		Entity:    entity,
		Horizon:   horizon,
		History:   toPoints(ts),
		Trend:     trend.DetectTrend(ts),
		Forecast:  make([]models.ForecastPoint, 0, len(res.Predictions)),
		Model:     res.ModelInfo,
	}
	for _, p := range res.Predictions {
		out.Forecast = append(out.Forecast, models.ForecastPoint{Period: p.Period, Value: p.Value})
	}
	return out, nil
}

func toPoints(ts analytics.TimeSeriesData) []models.ForecastPoint {
	out := make([]models.ForecastPoint, len(ts))
	for i, p := range ts {
		out[i] = models.ForecastPoint{Period: p.Period, Value: p.Value}
	}
	return out
}
