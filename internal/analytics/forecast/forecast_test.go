package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetForecaster(t *testing.T) {
	f, err := GetForecaster("linear")
	require.NoError(t, err)
	assert.Equal(t, "linear", f.Name())

	_, err = GetForecaster("arima")
	assert.Error(t, err)
}

func TestListForecasters(t *testing.T) {
	assert.Contains(t, ListForecasters(), "linear")
}

func TestForecastConfig_Defaults(t *testing.T) {
	cfg := DefaultForecastConfig()
	assert.Equal(t, 5, cfg.Horizon)
	assert.NoError(t, cfg.Validate())
}

func TestCalculateMAPE(t *testing.T) {
	actual := []float64{100, 200, 0}
	predicted := []float64{110, 180, 5}
	// zero actual is skipped: (10% + 10%) / 2
	assert.InDelta(t, 10.0, CalculateMAPE(actual, predicted), 1e-9)
}

func TestCalculateMAE(t *testing.T) {
	assert.InDelta(t, 1.5, CalculateMAE([]float64{1, 2}, []float64{2, 4}), 1e-9)
}

func TestCalculateRMSE(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2.5), CalculateRMSE([]float64{1, 2}, []float64{2, 4}), 1e-9)
}

func TestCalculateMetrics_MismatchedLength(t *testing.T) {
	assert.Equal(t, 0.0, CalculateMAPE([]float64{1}, nil))
	assert.Equal(t, 0.0, CalculateMAE([]float64{1}, nil))
	assert.Equal(t, 0.0, CalculateRMSE(nil, nil))
}
