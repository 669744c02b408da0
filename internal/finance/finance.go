package finance

import "math"

const (
	irrLowerBound    = -0.99
	irrUpperBound    = 1.0
	irrInitialGuess  = 0.1
	irrTolerance     = 1e-4
	irrMaxIterations = 100
)

// NPV discounts cashFlows[t] by (1+rate)^t and sums them.
// rate is a decimal; results are non-finite when rate <= -1.
func NPV(cashFlows []float64, rate float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// IRR searches [-0.99, 1] by bisection for the rate where NPV is zero.
// The bracket is not checked for a sign change: when NPV keeps one sign the
// search drifts to a bound and ok is false.
func IRR(cashFlows []float64) (rate float64, ok bool) {
	lower, upper := irrLowerBound, irrUpperBound
	guess := irrInitialGuess
	current := NPV(cashFlows, guess)

	for i := 0; i < irrMaxIterations && math.Abs(current) > irrTolerance; i++ {
		if current > 0 {
			lower = guess
		} else {
			upper = guess
		}
		guess = (lower + upper) / 2
		current = NPV(cashFlows, guess)
	}

	if math.Abs(current) < irrTolerance {
		return guess, true
	}
	return 0, false
}
