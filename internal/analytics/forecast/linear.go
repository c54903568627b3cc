package forecast

import (
	"github.com/soltixdb/trendlens/internal/analytics"
	"github.com/soltixdb/trendlens/internal/utils"
)

// LinearRegressionForecaster extrapolates an ordinary least squares line
// fitted with the periods as x values.
type LinearRegressionForecaster struct{}

// NewLinearRegressionForecaster creates a new Linear Regression forecaster
func NewLinearRegressionForecaster() *LinearRegressionForecaster {
	return &LinearRegressionForecaster{}
}

func init() {
	RegisterForecaster("linear", NewLinearRegressionForecaster())
}

// Name returns the algorithm name
func (f *LinearRegressionForecaster) Name() string {
	return "linear"
}

// Forecast projects periods last+1 .. last+Horizon. Fewer than two points or
// a series where every period is equal produce an empty prediction list.
func (f *LinearRegressionForecaster) Forecast(data []DataPoint, config ForecastConfig) (*ForecastResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result := &ForecastResult{
		Predictions: []ForecastPoint{},
		ModelInfo: ModelInfo{
			Algorithm:  f.Name(),
			DataPoints: len(data),
		},
	}

	ts := analytics.TimeSeriesData(data)
	fit, ok := analytics.FitLinear(ts)
	if !ok {
		return result, nil
	}

	actual := ts.Values()
	fitted := make([]float64, len(data))
	residuals := make([]float64, len(data))
	for i, p := range data {
		fitted[i] = fit.At(p.Period)
		residuals[i] = p.Value - fitted[i]
	}

	last := data[len(data)-1].Period
	for i := 1; i <= config.Horizon; i++ {
		period := last + i
		result.Predictions = append(result.Predictions, ForecastPoint{
			Period: period,
			Value:  utils.Finite(fit.At(period)),
		})
	}

	result.Fitted = fitted
	result.Residuals = residuals
	result.ModelInfo.Parameters = map[string]interface{}{
		"slope":     utils.Finite(fit.Slope),
		"intercept": utils.Finite(fit.Intercept),
	}
	result.ModelInfo.MAPE = utils.Finite(CalculateMAPE(actual, fitted))
	result.ModelInfo.MAE = utils.Finite(CalculateMAE(actual, fitted))
	result.ModelInfo.RMSE = utils.Finite(CalculateRMSE(actual, fitted))
	return result, nil
}
