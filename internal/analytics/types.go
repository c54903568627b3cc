// Package analytics provides common types and statistics shared by the
// extraction, trend, forecast and ranking packages.
package analytics

import (
	"math"
	"sort"
)

// TimeSeriesPoint is a single (period, value) observation of an entity
type TimeSeriesPoint struct {
	Period int
	Value  float64
}

// TimeSeriesData is an ordered series of observations for one entity.
// Extraction keeps it sorted ascending by period.
type TimeSeriesData []TimeSeriesPoint

// Values extracts just the values from the time series
func (ts TimeSeriesData) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Periods extracts just the periods from the time series
func (ts TimeSeriesData) Periods() []int {
	periods := make([]int, len(ts))
	for i, p := range ts {
		periods[i] = p.Period
	}
	return periods
}

// Len returns the number of data points
func (ts TimeSeriesData) Len() int {
	return len(ts)
}

// First returns the earliest observation
func (ts TimeSeriesData) First() (TimeSeriesPoint, bool) {
	if len(ts) == 0 {
		return TimeSeriesPoint{}, false
	}
	return ts[0], true
}

// Last returns the latest observation
func (ts TimeSeriesData) Last() (TimeSeriesPoint, bool) {
	if len(ts) == 0 {
		return TimeSeriesPoint{}, false
	}
	return ts[len(ts)-1], true
}

// Mean calculates the mean of all values
func (ts TimeSeriesData) Mean() float64 {
	return Mean(ts.Values())
}

// StdDev calculates the sample standard deviation of all values
func (ts TimeSeriesData) StdDev() float64 {
	return SampleStdDev(ts.Values())
}

// PopStdDev calculates the population standard deviation of all values
func (ts TimeSeriesData) PopStdDev() float64 {
	return PopulationStdDev(ts.Values())
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev uses n-1 in the denominator; fewer than 2 values yield 0
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(sumSquaredDiff(values) / float64(len(values)-1))
}

// PopulationStdDev uses n in the denominator; an empty slice yields 0
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Sqrt(sumSquaredDiff(values) / float64(len(values)))
}

// Median returns the middle value (mean of the two middle values for even
// lengths). The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MinMax returns the smallest and largest value
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func sumSquaredDiff(values []float64) float64 {
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq
}
