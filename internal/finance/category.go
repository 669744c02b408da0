package finance

import (
	"fmt"
	"math"
)

// Category is the investment profile derived from loss probability and spread
type Category string

const (
	CategoryAvoid        Category = "Avoid"
	CategorySafe         Category = "Safe"
	CategoryConservative Category = "Conservative"
	CategoryBalanced     Category = "Balanced"
	CategoryGrowth       Category = "Growth"
	CategorySpeculative  Category = "Speculative"
)

type categoryRule struct {
	category    Category
	maxProbLoss float64
	maxCV       float64
}

// evaluated in order, first match wins
var categoryRules = []categoryRule{
	{CategorySafe, 0.05, 0.3},
	{CategoryConservative, 0.15, 0.5},
	{CategoryBalanced, 0.3, 1},
	{CategoryGrowth, 0.4, math.Inf(1)},
}

// Categorize maps the NPV distribution to a Category. A non-positive mean NPV
// is always Avoid; otherwise the coefficient of variation |stdDev/meanNpv| and
// probLoss are checked against the rule cascade.
func Categorize(meanNPV, probLoss, stdDev float64) Category {
	if meanNPV <= 0 {
		return CategoryAvoid
	}

	cv := math.Abs(stdDev / meanNPV)
	for _, r := range categoryRules {
		if probLoss < r.maxProbLoss && (math.IsInf(r.maxCV, 1) || cv < r.maxCV) {
			return r.category
		}
	}
	return CategorySpeculative
}

// RiskLevel maps a category to its RiskDisplay key
func RiskLevel(c Category) string {
	switch c {
	case CategorySafe:
		return "very_low"
	case CategoryConservative:
		return "low"
	case CategoryBalanced:
		return "moderate"
	case CategoryGrowth:
		return "high"
	case CategorySpeculative, CategoryAvoid:
		return "very_high"
	default:
		return ""
	}
}

// Display is a label and CSS class pair
type Display struct {
	Text  string
	Class string
}

// RiskDisplay translates a risk level key into text and styling
func RiskDisplay(level string) Display {
	switch level {
	case "very_low":
		return Display{"Very Low Risk", "text-success"}
	case "low":
		return Display{"Low Risk", "text-success"}
	case "moderate":
		return Display{"Moderate Risk", "text-primary"}
	case "high":
		return Display{"High Risk", "text-warning"}
	case "very_high":
		return Display{"Very High Risk", "text-danger"}
	default:
		return Display{"Unknown", "text-secondary"}
	}
}

// ProbabilityBlocks splits ten blocks into red (loss) and green (success)
type ProbabilityBlocks struct {
	Percent int
	Red     int
	Green   int
}

// Title is the hover text of the block strip
func (b ProbabilityBlocks) Title() string {
	return fmt.Sprintf("%d%% probability of loss", b.Percent)
}

// NewProbabilityBlocks builds the block strip for a 0-1 loss probability
func NewProbabilityBlocks(probability float64) ProbabilityBlocks {
	red := int(math.Round(probability * 10))
	return ProbabilityBlocks{
		Percent: int(math.Round(probability * 100)),
		Red:     red,
		Green:   10 - red,
	}
}

// ConfidenceBand positions the zero and mean markers on an interval bar, in percent
type ConfidenceBand struct {
	Lower        float64
	Upper        float64
	ZeroPosition float64
	MeanPosition float64
}

// NewConfidenceBand lays out interval [lower, upper] around meanNPV
func NewConfidenceBand(interval [2]float64, meanNPV float64) ConfidenceBand {
	lower, upper := interval[0], interval[1]
	width := upper - lower

	var zero float64
	switch {
	case lower < 0 && upper > 0:
		zero = math.Abs(lower) / width * 100
	case lower >= 0:
		zero = 0
	default:
		zero = 100
	}

	mean := 0.0
	if width != 0 {
		mean = (meanNPV - lower) / width * 100
	}

	return ConfidenceBand{
		Lower:        lower,
		Upper:        upper,
		ZeroPosition: zero,
		MeanPosition: mean,
	}
}
