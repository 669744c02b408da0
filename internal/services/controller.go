package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/models"
	"npv-risk-web/pkg/simapi"
)

// Simulator is the remote simulation service
type Simulator interface {
	Simulate(ctx context.Context, req models.SimulationRequest) (*models.SimulationResult, error)
	Demo(ctx context.Context) (*models.SimulationRequest, error)
}

// AssessmentRecorder keeps completed simulations
type AssessmentRecorder interface {
	Save(ctx context.Context, req models.SimulationRequest, result models.SimulationResult) (*models.Assessment, error)
}

// FormController validates form input, calls the simulation service and
// hands results to the dashboard
type FormController struct {
	simulator Simulator
	dashboard *Dashboard
	recorder  AssessmentRecorder
	logger    *logrus.Logger
}

func NewFormController(simulator Simulator, dashboard *Dashboard, recorder AssessmentRecorder, logger *logrus.Logger) *FormController {
	return &FormController{
		simulator: simulator,
		dashboard: dashboard,
		recorder:  recorder,
		logger:    logger,
	}
}

// Dashboard returns the view state this controller updates
func (fc *FormController) Dashboard() *Dashboard {
	return fc.dashboard
}

// Submit handles a form submission and returns the resulting view
func (fc *FormController) Submit(ctx context.Context, form models.SimulationForm) View {
	fc.dashboard.SetForm(form)
	fc.dashboard.BeginLoading()
	fc.submit(ctx, form)
	fc.dashboard.EndLoading()
	return fc.dashboard.Snapshot()
}

func (fc *FormController) submit(ctx context.Context, form models.SimulationForm) {
	req, err := ParseForm(form)
	if err != nil {
		fc.logger.WithError(err).Debug("Rejected form input")
		fc.dashboard.Fail(userMessage(err))
		return
	}

	if err := fc.run(ctx, req); err != nil {
		fc.dashboard.Fail(userMessage(err))
	}
}

// LoadDemo fetches the demo scenario, fills the form with it and runs it
func (fc *FormController) LoadDemo(ctx context.Context) View {
	fc.dashboard.BeginLoading()
	fc.loadDemo(ctx)
	fc.dashboard.EndLoading()
	return fc.dashboard.Snapshot()
}

func (fc *FormController) loadDemo(ctx context.Context) {
	demo, err := fc.simulator.Demo(ctx)
	if err != nil {
		fc.dashboard.Fail("Failed to load demo data: " + userMessage(err))
		return
	}

	fc.dashboard.SetForm(FormFromRequest(*demo))

	if err := fc.run(ctx, *demo); err != nil {
		fc.dashboard.Fail("Failed to load demo data: " + userMessage(err))
	}
}

func (fc *FormController) run(ctx context.Context, req models.SimulationRequest) error {
	result, err := fc.simulator.Simulate(ctx, req)
	if err != nil {
		fc.logger.WithError(err).Error("Error running simulation")
		return err
	}

	if err := fc.dashboard.Display(req, result); err != nil {
		fc.logger.WithError(err).Warn("Some charts could not be rendered")
	}

	if fc.recorder != nil {
		assessment, err := fc.recorder.Save(ctx, req, *result)
		if err != nil {
			fc.logger.WithError(err).Warn("Failed to store assessment")
		}
		if assessment != nil {
			fc.dashboard.SetAssessmentID(assessment.ID)
		}
	}
	return nil
}

// userMessage picks the text shown to the user for a failed submission
func userMessage(err error) string {
	var validationErr *models.ValidationError
	var apiErr *simapi.APIError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, simapi.ErrTransport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return "Failed to run simulation: " + err.Error()
	default:
		return err.Error()
	}
}

// ParseForm converts raw form values into a validated SimulationRequest
func ParseForm(form models.SimulationForm) (models.SimulationRequest, error) {
	var req models.SimulationRequest
	var err error

	floats := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{"initialInvestment", form.InitialInvestment, &req.InitialInvestment},
		{"minRevenue", form.MinRevenue, &req.MinRevenue},
		{"maxRevenue", form.MaxRevenue, &req.MaxRevenue},
		{"minCost", form.MinCost, &req.MinCost},
		{"maxCost", form.MaxCost, &req.MaxCost},
		{"discountRate", form.DiscountRate, &req.DiscountRate},
	}
	for _, f := range floats {
		if *f.dst, err = parseFloat(f.field, f.raw); err != nil {
			return req, err
		}
	}

	if req.Duration, err = parseInt("duration", form.Duration); err != nil {
		return req, err
	}
	if req.NumSimulations, err = parseInt("numSimulations", form.NumSimulations); err != nil {
		return req, err
	}

	req.HistoricalRevenues = parseHistorical(form.HistoricalRevenues)

	return req, req.Validate()
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &models.ValidationError{Field: field, Message: models.MsgInvalidInput}
	}
	return v, nil
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &models.ValidationError{Field: field, Message: models.MsgInvalidInput}
	}
	return v, nil
}

// parseHistorical splits a comma separated list, dropping entries that are not
// numbers. An empty field yields nil; a non-empty one always yields a non-nil slice.
func parseHistorical(raw string) []float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	values := make([]float64, 0)
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// FormFromRequest renders a request back into form field values
func FormFromRequest(req models.SimulationRequest) models.SimulationForm {
	historical := make([]string, len(req.HistoricalRevenues))
	for i, v := range req.HistoricalRevenues {
		historical[i] = formatField(v)
	}

	return models.SimulationForm{
		InitialInvestment:  formatField(req.InitialInvestment),
		Duration:           strconv.Itoa(req.Duration),
		MinRevenue:         formatField(req.MinRevenue),
		MaxRevenue:         formatField(req.MaxRevenue),
		MinCost:            formatField(req.MinCost),
		MaxCost:            formatField(req.MaxCost),
		DiscountRate:       formatField(req.DiscountRate),
		NumSimulations:     strconv.Itoa(req.NumSimulations),
		HistoricalRevenues: strings.Join(historical, ", "),
	}
}

func formatField(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
