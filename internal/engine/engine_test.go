package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/finance"
	"npv-risk-web/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func sampleRequest() models.SimulationRequest {
	return models.SimulationRequest{
		InitialInvestment: 1000,
		Duration:          5,
		MinRevenue:        200,
		MaxRevenue:        400,
		MinCost:           50,
		MaxCost:           100,
		DiscountRate:      5,
		NumSimulations:    1000,
	}
}

func TestRun_SampleRequest(t *testing.T) {
	result, err := New(100000, 4, quietLogger(), WithSeed(42)).Run(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !(result.MinNPV <= result.MedianNPV && result.MedianNPV <= result.MaxNPV) {
		t.Errorf("min %v <= median %v <= max %v violated", result.MinNPV, result.MedianNPV, result.MaxNPV)
	}
	if result.ConfidenceInterval[0] > result.ConfidenceInterval[1] {
		t.Errorf("interval %v is inverted", result.ConfidenceInterval)
	}
	if result.ProbLoss < 0 || result.ProbLoss > 1 {
		t.Errorf("ProbLoss = %v out of range", result.ProbLoss)
	}
	if len(result.SampleCashFlows) != sampleRuns {
		t.Errorf("sample runs = %d, want %d", len(result.SampleCashFlows), sampleRuns)
	}
	for _, run := range result.SampleCashFlows {
		if len(run) != 6 || run[0] != -1000 {
			t.Fatalf("sample run %v, want 6 flows starting at -1000", run)
		}
	}
	if len(result.HistogramData) != histogramBins {
		t.Errorf("histogram buckets = %d, want %d", len(result.HistogramData), histogramBins)
	}

	total := 0.0
	for _, p := range result.HistogramData {
		total += p.Y
	}
	if total != 1000 {
		t.Errorf("histogram counts sum to %v, want 1000", total)
	}

	last := result.CumulativeData[len(result.CumulativeData)-1]
	if last.Y != 1 {
		t.Errorf("cumulative curve ends at %v, want 1", last.Y)
	}
	if result.RevenuesForecast != nil {
		t.Error("no forecast expected without historical revenues")
	}
	if result.Recommendation.Confidence != "Medium" {
		t.Errorf("confidence = %q, want Medium", result.Recommendation.Confidence)
	}
}

func TestRun_SameSeedIsReproducible(t *testing.T) {
	eng := New(100000, 3, quietLogger(), WithSeed(9))

	a, err := eng.Run(context.Background(), sampleRequest())
	if err != nil {
		t.Fatal(err)
	}
	b, err := eng.Run(context.Background(), sampleRequest())
	if err != nil {
		t.Fatal(err)
	}

	if a.MeanNPV != b.MeanNPV || a.StdDev != b.StdDev || a.ProbLoss != b.ProbLoss {
		t.Errorf("seeded runs differ: %v/%v vs %v/%v", a.MeanNPV, a.StdDev, b.MeanNPV, b.StdDev)
	}
}

func TestRun_CashFlowsStayInRange(t *testing.T) {
	req := sampleRequest()
	result, err := New(0, 2, quietLogger(), WithSeed(1)).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	lo := req.MinRevenue - req.MaxCost
	hi := req.MaxRevenue - req.MinCost
	for _, run := range result.SampleCashFlows {
		for year, cf := range run[1:] {
			if cf < lo || cf > hi {
				t.Errorf("year %d flow %v outside [%v, %v]", year+1, cf, lo, hi)
			}
		}
	}

	// every NPV lies between the discounted extremes
	worst := make([]float64, req.Duration+1)
	best := make([]float64, req.Duration+1)
	worst[0], best[0] = -req.InitialInvestment, -req.InitialInvestment
	for i := 1; i <= req.Duration; i++ {
		worst[i], best[i] = lo, hi
	}
	rate := req.DiscountRate / 100
	if result.MinNPV < finance.NPV(worst, rate)-1e-6 || result.MaxNPV > finance.NPV(best, rate)+1e-6 {
		t.Errorf("NPV range [%v, %v] exceeds bounds", result.MinNPV, result.MaxNPV)
	}
}

func TestRun_WithHistoricalRevenues(t *testing.T) {
	req := sampleRequest()
	req.HistoricalRevenues = []float64{200, 250, 300}

	result, err := New(100000, 4, quietLogger(), WithSeed(3)).Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.RevenuesForecast) != req.Duration {
		t.Fatalf("forecast length = %d, want %d", len(result.RevenuesForecast), req.Duration)
	}
	if math.Abs(result.RevenuesForecast[0]-350) > 1e-9 {
		t.Errorf("first forecast year = %v, want 350", result.RevenuesForecast[0])
	}
}

func TestRun_Rejections(t *testing.T) {
	eng := New(5000, 2, quietLogger())

	invalid := sampleRequest()
	invalid.Duration = 0
	_, err := eng.Run(context.Background(), invalid)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Run(duration 0) error = %v, want *ValidationError", err)
	}

	tooMany := sampleRequest()
	tooMany.NumSimulations = 5001
	if _, err := eng.Run(context.Background(), tooMany); !errors.Is(err, ErrSimulationLimit) {
		t.Errorf("Run(5001 sims) error = %v, want ErrSimulationLimit", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0, 2, quietLogger()).Run(ctx, sampleRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestLinearForecast(t *testing.T) {
	tests := []struct {
		name     string
		history  []float64
		years    int
		expected []float64
	}{
		{"rising trend", []float64{100, 110, 120}, 2, []float64{130, 140}},
		{"flat", []float64{50, 50}, 3, []float64{50, 50, 50}},
		{"clipped at zero", []float64{30, 10}, 3, []float64{0, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LinearForecast(tc.history, tc.years)
			for i := range tc.expected {
				if math.Abs(got[i]-tc.expected[i]) > 1e-9 {
					t.Errorf("year %d = %v, want %v", i+1, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestRecommend_Confidence(t *testing.T) {
	tests := []struct {
		runs     int
		expected string
	}{
		{999, "Low"},
		{1000, "Medium"},
		{10000, "High"},
	}

	for _, tc := range tests {
		if got := Recommend(finance.CategorySafe, tc.runs).Confidence; got != tc.expected {
			t.Errorf("Recommend(%d runs) confidence = %q, want %q", tc.runs, got, tc.expected)
		}
	}
	if got := Recommend(finance.CategoryAvoid, 10).Color; got != "danger" {
		t.Errorf("Avoid colour = %q, want danger", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	if got := percentile(sorted, 0.5); got != 3 {
		t.Errorf("median = %v, want 3", got)
	}
	if got := percentile(sorted, 0.25); got != 2 {
		t.Errorf("p25 = %v, want 2", got)
	}
	if got := percentile([]float64{7}, 0.975); got != 7 {
		t.Errorf("single value percentile = %v, want 7", got)
	}
}
