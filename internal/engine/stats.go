package engine

import (
	"math"
	"sort"

	"npv-risk-web/internal/models"
)

// summarize computes the distribution statistics of the simulated NPVs
func summarize(npvs []float64) *models.SimulationResult {
	n := len(npvs)
	sorted := make([]float64, n)
	copy(sorted, npvs)
	sort.Float64s(sorted)

	sum, losses := 0.0, 0
	for _, v := range sorted {
		sum += v
		if v < 0 {
			losses++
		}
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n)

	return &models.SimulationResult{
		HistogramData:  histogram(sorted, histogramBins),
		CumulativeData: cumulative(sorted, cumulativeSteps),
		MeanNPV:        mean,
		MedianNPV:      percentile(sorted, 0.5),
		MinNPV:         sorted[0],
		MaxNPV:         sorted[n-1],
		StdDev:         math.Sqrt(variance),
		ProbLoss:       float64(losses) / float64(n),
		ConfidenceInterval: [2]float64{
			percentile(sorted, 0.025),
			percentile(sorted, 0.975),
		},
	}
}

// percentile interpolates linearly between the closest ranks of sorted
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// histogram buckets sorted values into equal-width bins keyed by bucket centre
func histogram(sorted []float64, bins int) []models.Point {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		return []models.Point{{X: lo, Y: float64(len(sorted))}}
	}

	bins = min(bins, len(sorted))
	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range sorted {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	points := make([]models.Point, bins)
	for i, c := range counts {
		points[i] = models.Point{X: lo + (float64(i)+0.5)*width, Y: c}
	}
	return points
}

// cumulative samples the empirical CDF at up to steps points
func cumulative(sorted []float64, steps int) []models.Point {
	n := len(sorted)
	steps = min(steps, n)

	points := make([]models.Point, steps)
	for k := 0; k < steps; k++ {
		idx := (k+1)*n/steps - 1
		points[k] = models.Point{X: sorted[idx], Y: float64(idx+1) / float64(n)}
	}
	return points
}
