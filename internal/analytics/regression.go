package analytics

// LinearFit is an ordinary least squares fit of value against period
type LinearFit struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line at a period
func (f LinearFit) At(period int) float64 {
	return f.Slope*float64(period) + f.Intercept
}

// FitLinear computes the OLS line with x = period and y = value.
// ok is false when there are fewer than 2 points or every period is equal.
func FitLinear(ts TimeSeriesData) (fit LinearFit, ok bool) {
	if len(ts) < 2 {
		return LinearFit{}, false
	}

	n := float64(len(ts))
	meanX, meanY := 0.0, 0.0
	for _, p := range ts {
		meanX += float64(p.Period)
		meanY += p.Value
	}
	meanX /= n
	meanY /= n

	num, den := 0.0, 0.0
	for _, p := range ts {
		dx := float64(p.Period) - meanX
		num += dx * (p.Value - meanY)
		den += dx * dx
	}
	if den == 0 {
		return LinearFit{}, false
	}

	slope := num / den
	return LinearFit{Slope: slope, Intercept: meanY - slope*meanX}, true
}
