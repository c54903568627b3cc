// Package trend computes growth, volatility and direction for a single series.
package trend

import (
	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// GrowthRate returns the mean period-over-period percentage change.
// Transitions from a zero value are skipped; 0 is returned when no
// transition is usable. Overflowing results are clamped to finite values.
func GrowthRate(ts analytics.TimeSeriesData) float64 {
	if len(ts) < utils.MinSeriesPoints {
		return 0
	}

	var changes []float64
	for i := 1; i < len(ts); i++ {
		prev := ts[i-1].Value
		if prev == 0 {
			continue
		}
		changes = append(changes, (ts[i].Value-prev)/prev*100)
	}
	return utils.Finite(analytics.Mean(changes))
}

// DetectTrend classifies the series direction from the OLS slope. The slope
// must exceed 1% of the population standard deviation of the values to count
// as increasing or decreasing.
func DetectTrend(ts analytics.TimeSeriesData) string {
	if len(ts) < utils.MinTrendPoints {
		return models.TrendInsufficient
	}

	fit, ok := analytics.FitLinear(ts)
	if !ok {
		return models.TrendStable
	}

	threshold := ts.PopStdDev() * utils.TrendThresholdFactor
	switch {
	case fit.Slope > threshold:
		return models.TrendIncreasing
	case fit.Slope < -threshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// Volatility is the coefficient of variation in percent, using the sample
// standard deviation, clamped to a finite value.
func Volatility(ts analytics.TimeSeriesData) float64 {
	if len(ts) == 0 {
		return 0
	}
	mean := ts.Mean()
	if mean == 0 {
		return 0
	}
	return utils.Finite(ts.StdDev() / mean * 100)
}
