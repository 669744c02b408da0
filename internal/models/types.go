package models

import "time"

// SimulationRequest is the payload posted to the simulation service
type SimulationRequest struct {
	InitialInvestment  float64   `json:"initialInvestment" yaml:"initialInvestment" firestore:"initialInvestment"`
	Duration           int       `json:"duration" yaml:"duration" firestore:"duration"`
	MinRevenue         float64   `json:"minRevenue" yaml:"minRevenue" firestore:"minRevenue"`
	MaxRevenue         float64   `json:"maxRevenue" yaml:"maxRevenue" firestore:"maxRevenue"`
	MinCost            float64   `json:"minCost" yaml:"minCost" firestore:"minCost"`
	MaxCost            float64   `json:"maxCost" yaml:"maxCost" firestore:"maxCost"`
	DiscountRate       float64   `json:"discountRate" yaml:"discountRate" firestore:"discountRate"` // percent, 0-100
	NumSimulations     int       `json:"numSimulations" yaml:"numSimulations" firestore:"numSimulations"`
	HistoricalRevenues []float64 `json:"historicalRevenues,omitempty" yaml:"historicalRevenues" firestore:"historicalRevenues,omitempty"`
}

// Point is a single {x,y} pair of a histogram or cumulative curve
type Point struct {
	X float64 `json:"x" firestore:"x"`
	Y float64 `json:"y" firestore:"y"`
}

// Recommendation is the investment verdict returned with a result
type Recommendation struct {
	Text       string `json:"text" firestore:"text"`
	Color      string `json:"color" firestore:"color"`           // bootstrap contextual colour: success, warning, danger...
	Confidence string `json:"confidence" firestore:"confidence"` // High, Medium, Low
}

// SimulationResult is the statistics payload returned by the simulation service
type SimulationResult struct {
	HistogramData      []Point        `json:"histogramData" firestore:"histogramData"`
	CumulativeData     []Point        `json:"cumulativeData" firestore:"cumulativeData"`
	SampleCashFlows    [][]float64    `json:"sampleCashFlows" firestore:"-"`
	MeanNPV            float64        `json:"meanNpv" firestore:"meanNpv"`
	MedianNPV          float64        `json:"medianNpv" firestore:"medianNpv"`
	MinNPV             float64        `json:"minNpv" firestore:"minNpv"`
	MaxNPV             float64        `json:"maxNpv" firestore:"maxNpv"`
	StdDev             float64        `json:"stdDev" firestore:"stdDev"`
	ProbLoss           float64        `json:"probLoss" firestore:"probLoss"`
	ConfidenceInterval [2]float64     `json:"confidenceInterval" firestore:"confidenceInterval"`
	Recommendation     Recommendation `json:"recommendation" firestore:"recommendation"`
	RevenuesForecast   []float64      `json:"revenuesForecast,omitempty" firestore:"revenuesForecast,omitempty"`
}

// SimulationForm holds the raw form field values as submitted by the page
type SimulationForm struct {
	InitialInvestment  string `form:"initialInvestment" json:"initialInvestment"`
	Duration           string `form:"duration" json:"duration"`
	MinRevenue         string `form:"minRevenue" json:"minRevenue"`
	MaxRevenue         string `form:"maxRevenue" json:"maxRevenue"`
	MinCost            string `form:"minCost" json:"minCost"`
	MaxCost            string `form:"maxCost" json:"maxCost"`
	DiscountRate       string `form:"discountRate" json:"discountRate"`
	NumSimulations     string `form:"numSimulations" json:"numSimulations"`
	HistoricalRevenues string `form:"historicalRevenues" json:"historicalRevenues"`
}

// Assessment is a completed simulation kept in the history store
type Assessment struct {
	ID        string            `json:"id" firestore:"id"`
	Request   SimulationRequest `json:"request" firestore:"request"`
	Result    SimulationResult  `json:"result" firestore:"result"`
	CreatedAt time.Time         `json:"createdAt" firestore:"createdAt"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
