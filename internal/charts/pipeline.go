package charts

import (
	"errors"

	"npv-risk-web/internal/format"
	"npv-risk-web/internal/models"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Pipeline turns a simulation result into the chart set held by its Registry
type Pipeline struct {
	registry *Registry
	opts     Options
}

// NewPipeline renders into registry. Zero sizes fall back to the defaults.
func NewPipeline(registry *Registry, opts Options) *Pipeline {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Money == nil {
		opts.Money = format.CurrencyCompact
	}
	return &Pipeline{registry: registry, opts: opts}
}

// Registry returns the registry this pipeline renders into
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Render destroys every existing chart, then builds the histogram, cumulative
// and cash flow charts, and the forecast chart when the result carries one.
// historical is the revenue series the forecast continues from.
// A chart that fails to build leaves its slot empty; the others are still built.
func (p *Pipeline) Render(result *models.SimulationResult, duration int, historical []float64) error {
	p.registry.DestroyAll()

	var errs []error
	add := func(_ *Chart, err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(p.registry.Replace(KindHistogram, func() (*Chart, error) {
		d := BuildHistogram(result.HistogramData, p.opts.Money)
		img, err := renderHistogram(d, p.opts)
		if err != nil {
			return nil, err
		}
		return newChart(KindHistogram, "NPV Distribution", d, img), nil
	}))

	add(p.registry.Replace(KindCumulative, func() (*Chart, error) {
		d := BuildCumulative(result.CumulativeData)
		img, err := renderCumulative(d, p.opts)
		if err != nil {
			return nil, err
		}
		return newChart(KindCumulative, "Cumulative Probability", d, img), nil
	}))

	add(p.registry.Replace(KindCashFlows, func() (*Chart, error) {
		d := BuildCashFlows(result.SampleCashFlows, duration)
		img, err := renderCashFlows(d, p.opts)
		if err != nil {
			return nil, err
		}
		return newChart(KindCashFlows, "Sample Cash Flows", d, img), nil
	}))

	if result.RevenuesForecast != nil {
		add(p.registry.Replace(KindForecast, func() (*Chart, error) {
			d := BuildForecast(historical, result.RevenuesForecast)
			img, err := renderForecast(d, p.opts)
			if err != nil {
				return nil, err
			}
			return newChart(KindForecast, "Revenue Forecast", d, img), nil
		}))
	}

	return errors.Join(errs...)
}
