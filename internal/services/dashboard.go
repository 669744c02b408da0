package services

import (
	"fmt"
	"sync"

	"npv-risk-web/internal/charts"
	"npv-risk-web/internal/finance"
	"npv-risk-web/internal/format"
	"npv-risk-web/internal/models"
)

// chartElementIDs are the image ids the page template binds charts to
var chartElementIDs = map[charts.Kind]string{
	charts.KindHistogram:  "npv-histogram-chart",
	charts.KindCumulative: "cumulative-chart",
	charts.KindCashFlows:  "cash-flows-chart",
	charts.KindForecast:   "revenue-forecast-chart",
}

// Field is a formatted summary value with its CSS class
type Field struct {
	Text  string
	Class string
}

type Summary struct {
	MeanNPV            Field
	MedianNPV          Field
	MinNPV             Field
	MaxNPV             Field
	StdDev             Field
	ProbLoss           Field
	Risk               Field
	ConfidenceInterval string
}

type RecommendationView struct {
	Text        string
	HeaderClass string
	BadgeClass  string
	Badge       string
}

type ChartView struct {
	Kind      charts.Kind
	ElementID string
	Title     string
	URL       string
}

// View is everything the page template needs to draw the dashboard
type View struct {
	Form              models.SimulationForm
	WelcomeVisible    bool
	ResultsVisible    bool
	Loading           bool
	ForecastAvailable bool
	Alert             string
	AssessmentID      string

	Summary        Summary
	Recommendation RecommendationView
	LossBlocks     finance.ProbabilityBlocks
	Band           finance.ConfidenceBand
	BandLower      string
	BandUpper      string
	Charts         []ChartView
}

// Dashboard owns the displayed results and the chart registry.
// Every update runs to completion under its lock.
type Dashboard struct {
	mu        sync.Mutex
	pipeline  *charts.Pipeline
	formatter *format.Formatter

	view      View
	pending   int
	everShown bool
	version   int
	request   *models.SimulationRequest
	result    *models.SimulationResult
}

func NewDashboard(pipeline *charts.Pipeline, formatter *format.Formatter) *Dashboard {
	return &Dashboard{
		pipeline:  pipeline,
		formatter: formatter,
		view:      View{WelcomeVisible: true},
	}
}

// Snapshot returns a copy of the current view
func (d *Dashboard) Snapshot() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() View {
	v := d.view
	v.Loading = d.pending > 0
	v.Charts = append([]ChartView(nil), d.view.Charts...)
	return v
}

// SetForm replaces the field values shown in the form
func (d *Dashboard) SetForm(form models.SimulationForm) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.Form = form
}

// BeginLoading shows the loading indicator and hides welcome and results
func (d *Dashboard) BeginLoading() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending++
	d.view.Alert = ""
	d.view.WelcomeVisible = false
	d.view.ResultsVisible = false
}

// EndLoading hides the loading indicator once no call is outstanding
func (d *Dashboard) EndLoading() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending > 0 {
		d.pending--
	}
}

// Fail records the alert and returns to the pre-submission state: the last
// results when any were ever shown, the welcome card otherwise.
func (d *Dashboard) Fail(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.view.Alert = "Error: " + message
	if d.everShown {
		d.view.ResultsVisible = true
	} else {
		d.view.WelcomeVisible = true
	}
}

// Display replaces the shown results with result, rebuilding every chart.
// A later call always wins; responses are not checked for staleness.
// Chart build errors are returned after the summary has been updated.
func (d *Dashboard) Display(req models.SimulationRequest, result *models.SimulationResult) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.request = &req
	d.result = result
	d.everShown = true
	d.version++

	d.view.WelcomeVisible = false
	d.view.ResultsVisible = true
	d.view.Alert = ""
	d.view.AssessmentID = ""
	d.view.Summary = d.summary(result)
	d.view.Recommendation = recommendationView(result.Recommendation)
	d.view.LossBlocks = finance.NewProbabilityBlocks(result.ProbLoss)
	d.view.Band = finance.NewConfidenceBand(result.ConfidenceInterval, result.MeanNPV)
	d.view.BandLower = d.formatter.Currency(result.ConfidenceInterval[0])
	d.view.BandUpper = d.formatter.Currency(result.ConfidenceInterval[1])
	d.view.ForecastAvailable = result.RevenuesForecast != nil

	err := d.pipeline.Render(result, req.Duration, req.HistoricalRevenues)

	d.view.Charts = d.view.Charts[:0]
	for _, kind := range charts.Kinds {
		c, ok := d.pipeline.Registry().Get(kind)
		if !ok {
			continue
		}
		d.view.Charts = append(d.view.Charts, ChartView{
			Kind:      kind,
			ElementID: chartElementIDs[kind],
			Title:     c.Title,
			URL:       fmt.Sprintf("/charts/%s.png?v=%d", kind, d.version),
		})
	}

	return err
}

// SetAssessmentID links the shown results to their stored assessment
func (d *Dashboard) SetAssessmentID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.AssessmentID = id
}

// Chart returns the PNG of a live chart. It waits for a running Display to finish.
func (d *Dashboard) Chart(kind charts.Kind) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chartLocked(kind)
}

func (d *Dashboard) chartLocked(kind charts.Kind) ([]byte, bool) {
	c, ok := d.pipeline.Registry().Get(kind)
	if !ok {
		return nil, false
	}
	return c.PNG()
}

// ChartSet holds chart images taken at one point in time
type ChartSet map[charts.Kind][]byte

func (s ChartSet) Chart(kind charts.Kind) ([]byte, bool) {
	img, ok := s[kind]
	return img, ok
}

// Export returns the displayed request, result and chart images, all from the same run
func (d *Dashboard) Export() (models.SimulationRequest, models.SimulationResult, ChartSet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.result == nil {
		return models.SimulationRequest{}, models.SimulationResult{}, nil, false
	}

	images := make(ChartSet, len(charts.Kinds))
	for _, kind := range charts.Kinds {
		if img, ok := d.chartLocked(kind); ok {
			images[kind] = img
		}
	}
	return *d.request, *d.result, images, true
}

// LiveCharts counts chart instances holding resources
func (d *Dashboard) LiveCharts() int {
	return d.pipeline.Registry().Live()
}

func signed(text string, nonNegative bool) Field {
	if nonNegative {
		return Field{Text: text, Class: "text-positive mb-0"}
	}
	return Field{Text: text, Class: "text-negative mb-0"}
}

func (d *Dashboard) summary(r *models.SimulationResult) Summary {
	f := d.formatter
	risk := finance.RiskDisplay(finance.RiskLevel(finance.Categorize(r.MeanNPV, r.ProbLoss, r.StdDev)))
	return Summary{
		MeanNPV:   signed(f.Currency(r.MeanNPV), r.MeanNPV >= 0),
		MedianNPV: signed(f.Currency(r.MedianNPV), r.MedianNPV >= 0),
		MinNPV:    signed(f.Currency(r.MinNPV), r.MinNPV >= 0),
		MaxNPV:    signed(f.Currency(r.MaxNPV), r.MaxNPV >= 0),
		StdDev:    Field{Text: f.Currency(r.StdDev)},
		ProbLoss:  signed(f.Percent(r.ProbLoss), r.ProbLoss < 0.25),
		Risk:      Field{Text: risk.Text, Class: risk.Class + " mb-0"},
		ConfidenceInterval: fmt.Sprintf("%s to %s",
			f.Currency(r.ConfidenceInterval[0]), f.Currency(r.ConfidenceInterval[1])),
	}
}

func recommendationView(rec models.Recommendation) RecommendationView {
	header := "card-header bg-" + rec.Color
	if rec.Color == "warning" {
		header += " text-dark"
	}
	return RecommendationView{
		Text:        rec.Text,
		HeaderClass: header,
		BadgeClass:  "badge bg-" + rec.Color,
		Badge:       rec.Confidence + " Confidence",
	}
}
