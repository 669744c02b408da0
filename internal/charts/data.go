package charts

import (
	"fmt"

	"npv-risk-web/internal/models"
)

const (
	colorBlue   = "#0d6efd"
	colorGreen  = "#198754"
	colorRed    = "#dc3545"
	colorOrange = "#fd7e14"
)

// palette is cycled by run index on the cash flow chart
var palette = []string{
	"#0d6efd", "#198754", "#dc3545", "#fd7e14", "#6f42c1",
	"#20c997", "#0dcaf0", "#6610f2", "#d63384", "#ffc107",
}

// SeriesColor returns the palette colour for a run index
func SeriesColor(index int) string {
	return palette[index%len(palette)]
}

// HistogramData is a bar per NPV bucket
type HistogramData struct {
	X      []float64
	Counts []float64
	Labels []string
	Colors []string // green for x >= 0, red below
}

// BuildHistogram maps histogram points to coloured bars
func BuildHistogram(points []models.Point, label func(float64) string) HistogramData {
	d := HistogramData{
		X:      make([]float64, len(points)),
		Counts: make([]float64, len(points)),
		Labels: make([]string, len(points)),
		Colors: make([]string, len(points)),
	}
	for i, p := range points {
		d.X[i] = p.X
		d.Counts[i] = p.Y
		d.Labels[i] = label(p.X)
		if p.X < 0 {
			d.Colors[i] = colorRed
		} else {
			d.Colors[i] = colorGreen
		}
	}
	return d
}

// CumulativeData is the cumulative probability curve with its zero annotations
type CumulativeData struct {
	X         []float64
	Y         []float64
	ZeroIndex int
	Marker    models.Point // drawn at NPV = 0
}

// ZeroCrossingIndex returns the first index whose NPV is >= 0.
// When no such point exists index 0 is returned.
func ZeroCrossingIndex(points []models.Point) int {
	for i, p := range points {
		if p.X >= 0 {
			return i
		}
	}
	return 0
}

// BuildCumulative prepares the cumulative curve and the probability-of-loss marker
func BuildCumulative(points []models.Point) CumulativeData {
	d := CumulativeData{
		X: make([]float64, len(points)),
		Y: make([]float64, len(points)),
	}
	for i, p := range points {
		d.X[i] = p.X
		d.Y[i] = p.Y
	}

	d.ZeroIndex = ZeroCrossingIndex(points)
	if d.ZeroIndex < len(d.Y) {
		d.Marker = models.Point{X: 0, Y: d.Y[d.ZeroIndex]}
	}
	return d
}

// LineSeries is one named line
type LineSeries struct {
	Name   string
	Color  string
	Values []float64
}

// CashFlowData is one line per simulated run over Year 0..duration
type CashFlowData struct {
	Years  []string
	Series []LineSeries
}

// BuildCashFlows labels the years and assigns palette colours
func BuildCashFlows(runs [][]float64, duration int) CashFlowData {
	d := CashFlowData{
		Years:  make([]string, duration+1),
		Series: make([]LineSeries, len(runs)),
	}
	for i := range d.Years {
		d.Years[i] = fmt.Sprintf("Year %d", i)
	}
	for i, run := range runs {
		d.Series[i] = LineSeries{
			Name:   fmt.Sprintf("Simulation %d", i+1),
			Color:  SeriesColor(i),
			Values: run,
		}
	}
	return d
}

// ForecastData aligns historical and forecast revenue on one label axis.
// Nil entries are gaps.
type ForecastData struct {
	Labels     []string
	Historical []*float64
	Forecast   []*float64
}

// BuildForecast places historical values first and the forecast immediately
// after the last historical point. The forecast series is padded with nil over
// the historical range.
func BuildForecast(historical, forecast []float64) ForecastData {
	h, n := len(historical), len(forecast)
	d := ForecastData{
		Labels:     make([]string, 0, h+n),
		Historical: make([]*float64, h),
		Forecast:   make([]*float64, h+n),
	}

	for i := range historical {
		d.Labels = append(d.Labels, fmt.Sprintf("Year -%d", h-i))
		v := historical[i]
		d.Historical[i] = &v
	}
	for i := range forecast {
		d.Labels = append(d.Labels, fmt.Sprintf("Year %d", i+1))
		v := forecast[i]
		d.Forecast[h+i] = &v
	}
	return d
}
