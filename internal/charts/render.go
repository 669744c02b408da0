package charts

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// maxAxisLabels keeps category labels from overlapping
	maxAxisLabels = 12
	// zero selects go-chart's default spacing, so it is always set explicitly
	barSpacing = 2
)

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}}
}

// paddedRange spans values (and zero when asked), widened when flat
func paddedRange(values []float64, includeZero bool) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	if hi-lo == 0 {
		pad := math.Max(math.Abs(hi)*0.1, 1)
		lo, hi = lo-pad, hi+pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// labelStep returns the stride that keeps at most maxAxisLabels visible
func labelStep(n int) int {
	if n <= maxAxisLabels {
		return 1
	}
	return int(math.Ceil(float64(n) / maxAxisLabels))
}

func indexTicks(labels []string) []chart.Tick {
	step := labelStep(len(labels))
	ticks := make([]chart.Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}

func formatter(f func(float64) string) chart.ValueFormatter {
	return func(v interface{}) string {
		if x, ok := v.(float64); ok {
			return f(x)
		}
		return fmt.Sprintf("%v", v)
	}
}

func percentAxis(v interface{}) string {
	if x, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f%%", x*100)
	}
	return ""
}

func indexes(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// Options controls image size and axis label formatting
type Options struct {
	Width  int
	Height int
	Money  func(float64) string // compact currency for axis labels
}

func renderHistogram(d HistogramData, opts Options) ([]byte, error) {
	if len(d.Counts) == 0 {
		return nil, fmt.Errorf("histogram: no buckets")
	}

	step := labelStep(len(d.Counts))
	bars := make([]chart.Value, len(d.Counts))
	maxCount := 0.0
	for i, count := range d.Counts {
		label := ""
		if i%step == 0 {
			label = d.Labels[i]
		}
		bars[i] = chart.Value{
			Value: count,
			Label: label,
			Style: chart.Style{
				StrokeColor: color(d.Colors[i]),
				FillColor:   color(d.Colors[i]).WithAlpha(128),
				StrokeWidth: 1,
			},
		}
		maxCount = math.Max(maxCount, count)
	}

	barWidth := (opts.Width-120)/len(bars) - barSpacing
	if barWidth < 1 {
		barWidth = 1
	}

	bc := chart.BarChart{
		Title:      "NPV Distribution",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Name:  "Frequency",
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(maxCount, 1)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCumulative(d CumulativeData, opts Options) ([]byte, error) {
	zeroStyle := chart.Style{
		StrokeColor:     color(colorRed).WithAlpha(128),
		StrokeWidth:     2,
		StrokeDashArray: []float64{5, 5},
	}

	series := []chart.Series{}
	if len(d.X) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Cumulative Probability",
			XValues: d.X,
			YValues: d.Y,
			Style: chart.Style{
				StrokeColor: color(colorBlue),
				StrokeWidth: 2,
			},
		})
	}
	series = append(series,
		chart.ContinuousSeries{
			Name:    "NPV = 0",
			XValues: []float64{0, 0},
			YValues: []float64{0, 1},
			Style:   zeroStyle,
		},
		chart.ContinuousSeries{
			Name:    "Probability of loss",
			XValues: []float64{d.Marker.X},
			YValues: []float64{d.Marker.Y},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    color(colorRed).WithAlpha(204),
			},
		},
		chart.AnnotationSeries{
			Annotations: []chart.Value2{{XValue: 0, YValue: 1, Label: "NPV = 0"}},
		},
	)

	graph := chart.Chart{
		Title:      "Cumulative Probability",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:           "Net Present Value (€)",
			Range:          paddedRange(d.X, true),
			ValueFormatter: formatter(opts.Money),
		},
		YAxis: chart.YAxis{
			Name:           "Cumulative Probability",
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: percentAxis,
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("cumulative: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCashFlows(d CashFlowData, opts Options) ([]byte, error) {
	if len(d.Series) == 0 {
		return nil, fmt.Errorf("cash flows: no runs")
	}

	var all []float64
	series := make([]chart.Series, 0, len(d.Series))
	for _, s := range d.Series {
		if len(s.Values) == 0 {
			continue
		}
		all = append(all, s.Values...)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: indexes(len(s.Values)),
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: color(s.Color),
				StrokeWidth: 2,
				DotColor:    color(s.Color),
				DotWidth:    3,
			},
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("cash flows: runs are empty")
	}

	graph := chart.Chart{
		Title:      "Sample Cash Flows",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  "Time Period",
			Range: paddedRange(indexes(len(d.Years)), false),
			Ticks: indexTicks(d.Years),
		},
		YAxis: chart.YAxis{
			Name:           "Cash Flow (€)",
			Range:          paddedRange(all, false),
			ValueFormatter: formatter(opts.Money),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("cash flows: %w", err)
	}
	return buf.Bytes(), nil
}

// present drops nil gaps, keeping the label index as x
func present(values []*float64) (xs, ys []float64) {
	for i, v := range values {
		if v == nil {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, *v)
	}
	return xs, ys
}

func renderForecast(d ForecastData, opts Options) ([]byte, error) {
	hx, hy := present(d.Historical)
	fx, fy := present(d.Forecast)
	if len(hx) == 0 && len(fx) == 0 {
		return nil, fmt.Errorf("forecast: no values")
	}

	series := []chart.Series{}
	if len(hx) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Historical Revenue",
			XValues: hx,
			YValues: hy,
			Style: chart.Style{
				StrokeColor: color(colorBlue),
				StrokeWidth: 2,
				DotColor:    color(colorBlue),
				DotWidth:    5,
			},
		})
	}
	if len(fx) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Forecasted Revenue",
			XValues: fx,
			YValues: fy,
			Style: chart.Style{
				StrokeColor:     color(colorOrange),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
				DotColor:        color(colorOrange),
				DotWidth:        5,
			},
		})
	}

	graph := chart.Chart{
		Title:      "Revenue Forecast",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  "Time Period",
			Range: paddedRange(indexes(len(d.Labels)), false),
			Ticks: indexTicks(d.Labels),
		},
		YAxis: chart.YAxis{
			Name:           "Revenue (€)",
			Range:          paddedRange(append(hy, fy...), true),
			ValueFormatter: formatter(opts.Money),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	return buf.Bytes(), nil
}
