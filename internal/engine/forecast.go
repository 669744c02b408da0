package engine

// LinearForecast extends a least-squares trend over history for the given
// number of years. Negative projections are clipped to zero.
func LinearForecast(history []float64, years int) []float64 {
	h := float64(len(history))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range history {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope := 0.0
	if denom := h*sumXX - sumX*sumX; denom != 0 {
		slope = (h*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / h

	forecast := make([]float64, years)
	for k := range forecast {
		v := intercept + slope*(h+float64(k))
		if v < 0 {
			v = 0
		}
		forecast[k] = v
	}
	return forecast
}
