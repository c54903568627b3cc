package forecast

import (
	"testing"
)

// generateLinearData creates yearly data with y = slope * period + intercept
func generateLinearData(n, start int, slope, intercept float64) []DataPoint {
	data := make([]DataPoint, n)
	for i := 0; i < n; i++ {
		period := start + i
		data[i] = DataPoint{
			Period: period,
			Value:  slope*float64(period) + intercept,
		}
	}
	return data
}

func TestLinearRegressionForecaster_BasicForecast(t *testing.T) {
	data := generateLinearData(10, 2000, 2.0, -3000.0)

	forecaster := NewLinearRegressionForecaster()
	result, err := forecaster.Forecast(data, DefaultForecastConfig())
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(result.Predictions) != 5 {
		t.Fatalf("Expected 5 predictions, got %d", len(result.Predictions))
	}

	for i, p := range result.Predictions {
		wantPeriod := 2010 + i
		if p.Period != wantPeriod {
			t.Errorf("Prediction %d: expected period %d, got %d", i, wantPeriod, p.Period)
		}
		want := 2.0*float64(wantPeriod) - 3000.0
		if diff := p.Value - want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Prediction %d: expected %v, got %v", i, want, p.Value)
		}
	}

	if result.ModelInfo.Algorithm != "linear" {
		t.Errorf("Expected algorithm 'linear', got '%s'", result.ModelInfo.Algorithm)
	}
	if result.ModelInfo.DataPoints != 10 {
		t.Errorf("Expected 10 data points, got %d", result.ModelInfo.DataPoints)
	}
}

func TestLinearRegressionForecaster_ThreePointSeries(t *testing.T) {
	data := []DataPoint{{Period: 2000, Value: 100}, {Period: 2001, Value: 110}, {Period: 2002, Value: 121}}

	result, err := NewLinearRegressionForecaster().Forecast(data, ForecastConfig{Horizon: 1})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(result.Predictions) != 1 {
		t.Fatalf("Expected 1 prediction, got %d", len(result.Predictions))
	}
	// slope 10.5, intercept at mean period 2001 is 110.333
	if got := result.Predictions[0].Value; got < 131.33 || got > 131.34 {
		t.Errorf("Expected ~131.333, got %v", got)
	}
}

func TestLinearRegressionForecaster_InsufficientData(t *testing.T) {
	forecaster := NewLinearRegressionForecaster()

	for _, data := range [][]DataPoint{nil, {{Period: 2000, Value: 1}}} {
		result, err := forecaster.Forecast(data, DefaultForecastConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Predictions == nil || len(result.Predictions) != 0 {
			t.Errorf("Expected empty predictions, got %v", result.Predictions)
		}
	}
}

func TestLinearRegressionForecaster_DuplicatePeriods(t *testing.T) {
	data := []DataPoint{{Period: 2000, Value: 1}, {Period: 2000, Value: 2}}

	result, err := NewLinearRegressionForecaster().Forecast(data, DefaultForecastConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Predictions) != 0 {
		t.Errorf("Expected empty forecast for zero period variance, got %v", result.Predictions)
	}
	if result.ModelInfo.Parameters != nil {
		t.Errorf("Expected no parameters, got %v", result.ModelInfo.Parameters)
	}
}

func TestLinearRegressionForecaster_ZeroHorizon(t *testing.T) {
	data := generateLinearData(5, 2000, 1, 0)
	result, err := NewLinearRegressionForecaster().Forecast(data, ForecastConfig{Horizon: 0})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(result.Predictions) != 0 {
		t.Errorf("Expected no predictions, got %d", len(result.Predictions))
	}
}

func TestLinearRegressionForecaster_InvalidHorizon(t *testing.T) {
	data := generateLinearData(5, 2000, 1, 0)
	forecaster := NewLinearRegressionForecaster()

	if _, err := forecaster.Forecast(data, ForecastConfig{Horizon: -1}); err == nil {
		t.Error("Expected error for negative horizon")
	}
	if _, err := forecaster.Forecast(data, ForecastConfig{Horizon: 101}); err == nil {
		t.Error("Expected error for horizon above limit")
	}
}

func TestLinearRegressionForecaster_Metrics(t *testing.T) {
	data := []DataPoint{
		{Period: 2000, Value: 1},
		{Period: 2001, Value: 3},
		{Period: 2002, Value: 2},
		{Period: 2003, Value: 4},
	}

	result, err := NewLinearRegressionForecaster().Forecast(data, DefaultForecastConfig())
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(result.Fitted) != len(data) || len(result.Residuals) != len(data) {
		t.Fatalf("Expected fitted and residuals for every point")
	}
	if result.ModelInfo.MAE <= 0 || result.ModelInfo.RMSE <= 0 {
		t.Errorf("Expected positive in-sample error, got MAE=%v RMSE=%v", result.ModelInfo.MAE, result.ModelInfo.RMSE)
	}
	if result.ModelInfo.RMSE < result.ModelInfo.MAE {
		t.Errorf("RMSE %v should not be below MAE %v", result.ModelInfo.RMSE, result.ModelInfo.MAE)
	}
	if _, ok := result.ModelInfo.Parameters["slope"]; !ok {
		t.Error("Expected slope parameter")
	}
}
