// Package ranking analyzes every entity of a dataset, ranks them by the
// magnitude of their latest value and summarizes the latest values.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/analytics/extract"
	"github.com/soltixdb/trendlens/internal/analytics/forecast"
	"github.com/soltixdb/trendlens/internal/analytics/trend"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// Aggregator builds AnalysisResults. It holds no per-call state and is safe
// for concurrent use as long as its Forecaster is.
type Aggregator struct {
	forecaster forecast.Forecaster
	horizon    int
}

// NewAggregator creates an aggregator using the given forecaster. A nil
// forecaster falls back to linear regression.
func NewAggregator(f forecast.Forecaster) *Aggregator {
	if f == nil {
		f = forecast.NewLinearRegressionForecaster()
	}
	return &Aggregator{
		forecaster: f,
		horizon:    utils.DefaultForecastHorizon,
	}
}

// Analyze extracts, analyzes and ranks the entities of a dataset.
// A non-empty entityFilter restricts the result to that entity; otherwise the
// topN entities with the largest absolute latest value are kept.
func (a *Aggregator) Analyze(ds *models.IndicatorDataset, entityFilter string, topN int) *models.AnalysisResult {
	set := extract.Extract(ds, entityFilter)
	return a.AnalyzeSeries(ds.IndicatorName(), set, entityFilter, topN)
}

// AnalyzeSeries is Analyze over an already extracted set
func (a *Aggregator) AnalyzeSeries(indicator string, set *extract.SeriesSet, entityFilter string, topN int) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Indicator:      indicator,
		TotalEntities:  set.Len(),
		EntityAnalyses: models.EntityAnalyses{},
	}

	var analyses models.EntityAnalyses
	set.Each(func(entity string, ts analytics.TimeSeriesData) {
		if len(ts) < utils.MinSeriesPoints {
			return
		}
		analyses = append(analyses, a.analyzeEntity(entity, ts))
	})

	result.GlobalSummary = summarize(analyses)

	sort.SliceStable(analyses, func(i, j int) bool {
		return math.Abs(analyses[i].LatestValue) > math.Abs(analyses[j].LatestValue)
	})

	if entityFilter != "" {
		for _, ea := range analyses {
			if ea.Entity == entityFilter {
				result.EntityAnalyses = append(result.EntityAnalyses, ea)
				break
			}
		}
		return result
	}

	if topN > len(analyses) {
		topN = len(analyses)
	}
	if topN > 0 {
		result.EntityAnalyses = append(result.EntityAnalyses, analyses[:topN]...)
	}
	return result
}

func (a *Aggregator) analyzeEntity(entity string, ts analytics.TimeSeriesData) models.EntityAnalysis {
	first, _ := ts.First()
	last, _ := ts.Last()

	return models.EntityAnalysis{
		Entity:        entity,
		DataPoints:    len(ts),
		FirstPeriod:   first.Period,
		LastPeriod:    last.Period,
		TimeRange:     fmt.Sprintf("%d-%d", first.Period, last.Period),
		LatestValue:   last.Value,
		EarliestValue: first.Value,
		Trend:         trend.DetectTrend(ts),
		GrowthRate:    utils.Round(trend.GrowthRate(ts), utils.SummaryDecimals),
		Volatility:    utils.Round(trend.Volatility(ts), utils.SummaryDecimals),
		Forecast:      a.project(ts, a.horizon),
	}
}

func (a *Aggregator) project(ts analytics.TimeSeriesData, horizon int) []models.ForecastPoint {
	points := []models.ForecastPoint{}
	res, err := a.forecaster.Forecast(ts, forecast.ForecastConfig{Horizon: horizon})
	if err != nil || res == nil {
		return points
	}
	for _, p := range res.Predictions {
		points = append(points, models.ForecastPoint{Period: p.Period, Value: utils.Finite(p.Value)})
	}
	return points
}

// summarize aggregates the latest values of all analyzed entities.
// Returns nil when there is nothing to summarize.
func summarize(analyses models.EntityAnalyses) *models.GlobalSummary {
	if len(analyses) == 0 {
		return nil
	}

	latest := make([]float64, len(analyses))
	for i, ea := range analyses {
		latest[i] = ea.LatestValue
	}

	lo, hi := analytics.MinMax(latest)
	return &models.GlobalSummary{
		MaxValue:    hi,
		MinValue:    lo,
		MeanValue:   utils.Round(utils.Finite(analytics.Mean(latest)), utils.SummaryDecimals),
		MedianValue: utils.Round(utils.Finite(analytics.Median(latest)), utils.SummaryDecimals),
	}
}
