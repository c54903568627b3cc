package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func series(pairs ...float64) TimeSeriesData {
	ts := make(TimeSeriesData, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ts = append(ts, TimeSeriesPoint{Period: int(pairs[i]), Value: pairs[i+1]})
	}
	return ts
}

func TestTimeSeriesData_Accessors(t *testing.T) {
	ts := series(2000, 1, 2001, 2, 2002, 3)

	assert.Equal(t, []float64{1, 2, 3}, ts.Values())
	assert.Equal(t, []int{2000, 2001, 2002}, ts.Periods())
	assert.Equal(t, 3, ts.Len())

	first, ok := ts.First()
	assert.True(t, ok)
	assert.Equal(t, 2000, first.Period)

	last, ok := ts.Last()
	assert.True(t, ok)
	assert.Equal(t, 3.0, last.Value)

	_, ok = TimeSeriesData{}.Last()
	assert.False(t, ok)
}

func TestStatistics(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(values), 1e-12)
	assert.InDelta(t, 2.0, PopulationStdDev(values), 1e-12)
	assert.InDelta(t, 2.138089935299395, SampleStdDev(values), 1e-12)
	assert.InDelta(t, 4.5, Median(values), 1e-12)

	lo, hi := MinMax(values)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 9.0, hi)
}

func TestStatistics_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, PopulationStdDev(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{3, 1, 5}))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestFitLinear(t *testing.T) {
	fit, ok := FitLinear(series(2000, 100, 2001, 110, 2002, 120))
	assert.True(t, ok)
	assert.InDelta(t, 10.0, fit.Slope, 1e-9)
	assert.InDelta(t, 130.0, fit.At(2003), 1e-6)
}

func TestFitLinear_Degenerate(t *testing.T) {
	_, ok := FitLinear(series(2000, 1))
	assert.False(t, ok)

	_, ok = FitLinear(series(2000, 1, 2000, 2, 2000, 3))
	assert.False(t, ok)
}
