// Package forecast extrapolates entity series into future periods.
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/utils"
)

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

// ForecastPoint is a single projected period
type ForecastPoint struct {
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

// ModelInfo contains metadata about the fitted model
type ModelInfo struct {
	Algorithm  string                 `json:"algorithm"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	MAPE       float64                `json:"mape"` // Mean Absolute Percentage Error
	MAE        float64                `json:"mae"`  // Mean Absolute Error
	RMSE       float64                `json:"rmse"` // Root Mean Squared Error
	DataPoints int                    `json:"data_points"`
}

// ForecastResult contains the predictions and model information.
// Predictions is empty (never nil) when no model could be fitted.
type ForecastResult struct {
	Predictions []ForecastPoint `json:"predictions"`
	Fitted      []float64       `json:"fitted,omitempty"`
	Residuals   []float64       `json:"residuals,omitempty"`
	ModelInfo   ModelInfo       `json:"model_info"`
}

// ForecastConfig holds configuration for forecasting
type ForecastConfig struct {
	Horizon int // Number of periods to forecast
}

// DefaultForecastConfig returns default forecast configuration
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		Horizon: utils.DefaultForecastHorizon,
	}
}

// Validate checks the horizon bounds
func (c ForecastConfig) Validate() error {
	if c.Horizon < 0 || c.Horizon > utils.MaxForecastHorizon {
		return fmt.Errorf("horizon must be between 0 and %d, got %d", utils.MaxForecastHorizon, c.Horizon)
	}
	return nil
}

// Forecaster interface for forecasting algorithms
type Forecaster interface {
	// Name returns the algorithm name
	Name() string
	// Forecast generates predictions for the periods after the last data point
	Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error)
}

var forecasterRegistry = make(map[string]Forecaster)

// RegisterForecaster adds a forecaster to the registry
func RegisterForecaster(name string, forecaster Forecaster) {
	forecasterRegistry[name] = forecaster
}

// GetForecaster returns a forecaster by name
func GetForecaster(name string) (Forecaster, error) {
	if forecaster, ok := forecasterRegistry[name]; ok {
		return forecaster, nil
	}
	return nil, fmt.Errorf("unknown forecaster: %s", name)
}

// ListForecasters returns the registered forecaster names, sorted
func ListForecasters() []string {
	names := make([]string, 0, len(forecasterRegistry))
	for name := range forecasterRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CalculateMAPE calculates Mean Absolute Percentage Error
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
