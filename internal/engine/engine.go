// Package engine runs the Monte Carlo NPV simulation behind POST /api/simulate.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/finance"
	"npv-risk-web/internal/models"
)

const (
	sampleRuns      = 10
	histogramBins   = 50
	cumulativeSteps = 100
	cancelCheck     = 1024
)

// ErrSimulationLimit is returned when a request asks for more runs than allowed
var ErrSimulationLimit = errors.New("too many simulations")

type Engine struct {
	maxSimulations int
	workers        int
	seed           int64
	logger         *logrus.Logger
}

type Option func(*Engine)

// WithSeed makes runs reproducible for a given seed and worker count
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

func New(maxSimulations, workers int, logger *logrus.Logger, opts ...Option) *Engine {
	if workers < 1 {
		workers = 1
	}
	e := &Engine{
		maxSimulations: maxSimulations,
		workers:        workers,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the request and simulates NumSimulations cash flow paths
func (e *Engine) Run(ctx context.Context, req models.SimulationRequest) (*models.SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if e.maxSimulations > 0 && req.NumSimulations > e.maxSimulations {
		return nil, fmt.Errorf("%w: numSimulations must not exceed %d", ErrSimulationLimit, e.maxSimulations)
	}

	start := time.Now()

	var forecast []float64
	if len(req.HistoricalRevenues) >= 2 {
		forecast = LinearForecast(req.HistoricalRevenues, req.Duration)
	}

	npvs, samples, err := e.simulate(ctx, req, forecast)
	if err != nil {
		return nil, err
	}

	result := summarize(npvs)
	result.SampleCashFlows = samples
	result.RevenuesForecast = forecast
	result.Recommendation = Recommend(
		finance.Categorize(result.MeanNPV, result.ProbLoss, result.StdDev),
		req.NumSimulations,
	)

	e.logger.WithFields(logrus.Fields{
		"simulations": req.NumSimulations,
		"duration":    req.Duration,
		"meanNpv":     result.MeanNPV,
		"probLoss":    result.ProbLoss,
		"elapsed":     time.Since(start).String(),
	}).Info("Simulation completed")

	return result, nil
}

func (e *Engine) simulate(ctx context.Context, req models.SimulationRequest, forecast []float64) ([]float64, [][]float64, error) {
	n := req.NumSimulations
	npvs := make([]float64, n)
	samples := make([][]float64, min(n, sampleRuns))
	rate := req.DiscountRate / 100

	seed := e.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := min(e.workers, n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for g := 0; g < workers; g++ {
		lo, hi := g*chunk, min((g+1)*chunk, n)
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int, rng *rand.Rand) {
			defer wg.Done()

			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheck == 0 && ctx.Err() != nil {
					return
				}
				flows := cashFlows(req, forecast, rng)
				npvs[i] = finance.NPV(flows, rate)
				if i < len(samples) {
					samples[i] = flows
				}
			}
		}(lo, hi, rand.New(rand.NewSource(seed+int64(g))))
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return npvs, samples, nil
}

// cashFlows draws one path: -investment at year 0, revenue minus cost after
func cashFlows(req models.SimulationRequest, forecast []float64, rng *rand.Rand) []float64 {
	flows := make([]float64, req.Duration+1)
	flows[0] = -req.InitialInvestment

	revenueSpread := req.MaxRevenue - req.MinRevenue
	for t := 1; t <= req.Duration; t++ {
		var revenue float64
		if forecast != nil {
			revenue = forecast[t-1] + (rng.Float64()-0.5)*revenueSpread
			if revenue < 0 {
				revenue = 0
			}
		} else {
			revenue = req.MinRevenue + rng.Float64()*revenueSpread
		}
		cost := req.MinCost + rng.Float64()*(req.MaxCost-req.MinCost)
		flows[t] = revenue - cost
	}
	return flows
}

// Recommend turns a category into the verdict shown to the user.
// Confidence grows with the number of runs.
func Recommend(category finance.Category, runs int) models.Recommendation {
	confidence := "Low"
	switch {
	case runs >= 10000:
		confidence = "High"
	case runs >= 1000:
		confidence = "Medium"
	}

	rec := models.Recommendation{Confidence: confidence}
	switch category {
	case finance.CategoryAvoid:
		rec.Text = "Not recommended: the expected NPV is negative and the investment is likely to destroy value."
		rec.Color = "danger"
	case finance.CategorySafe:
		rec.Text = "Strongly recommended: positive expected NPV with a very low risk of loss."
		rec.Color = "success"
	case finance.CategoryConservative:
		rec.Text = "Recommended: positive expected NPV with a low risk of loss."
		rec.Color = "success"
	case finance.CategoryBalanced:
		rec.Text = "Recommended with caution: positive expected NPV with a moderate risk of loss."
		rec.Color = "primary"
	case finance.CategoryGrowth:
		rec.Text = "Consider carefully: positive expected NPV but a substantial risk of loss."
		rec.Color = "warning"
	default:
		rec.Text = "Speculative: positive expected NPV but a high probability of loss."
		rec.Color = "warning"
	}
	return rec
}
