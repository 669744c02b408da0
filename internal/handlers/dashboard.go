package handlers

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"npv-risk-web/internal/charts"
	"npv-risk-web/internal/format"
	"npv-risk-web/internal/models"
	"npv-risk-web/internal/report"
	"npv-risk-web/internal/services"
)

// AssessmentReader looks up stored assessments by id
type AssessmentReader interface {
	Get(ctx context.Context, id string) (*models.Assessment, error)
}

type DashboardHandler struct {
	controller *services.FormController
	store      AssessmentReader
	page       *template.Template
	formatter  *format.Formatter
	timeout    time.Duration
	logger     *logrus.Logger
}

func NewDashboardHandler(
	controller *services.FormController,
	store AssessmentReader,
	page *template.Template,
	formatter *format.Formatter,
	timeout time.Duration,
	logger *logrus.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		controller: controller,
		store:      store,
		page:       page,
		formatter:  formatter,
		timeout:    timeout,
		logger:     logger,
	}
}

// Index handles GET /
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, h.controller.Dashboard().Snapshot())
}

// Assess handles POST /assess
func (h *DashboardHandler) Assess(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	var form models.SimulationForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form submission")
	}

	view := h.controller.Submit(ctx, form)
	return h.render(c, viewStatus(view), view)
}

// Demo handles POST /demo
func (h *DashboardHandler) Demo(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	view := h.controller.LoadDemo(ctx)
	return h.render(c, viewStatus(view), view)
}

// Chart handles GET /charts/:kind.png
func (h *DashboardHandler) Chart(c *fiber.Ctx) error {
	kind, ok := charts.ParseKind(strings.TrimSuffix(c.Params("kind"), ".png"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Unknown chart")
	}

	img, ok := h.controller.Dashboard().Chart(kind)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Chart not rendered")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(img)
}

// Report handles GET /report.pdf
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	req, result, images, ok := h.controller.Dashboard().Export()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "No results to export")
	}

	pdf, err := report.NewPDFReport(h.formatter).Generate(req, result, images)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate report")
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="npv-risk-report.pdf"`)
	return c.Send(pdf)
}

// Assessment handles GET /api/assessments/:id
func (h *DashboardHandler) Assessment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	assessment, err := h.store.Get(ctx, c.Params("id"))
	if errors.Is(err, services.ErrAssessmentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Assessment not found",
			Code:  fiber.StatusNotFound,
		})
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load assessment")
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to load assessment",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}

	return c.JSON(assessment)
}

func (h *DashboardHandler) render(c *fiber.Ctx, status int, view services.View) error {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, view); err != nil {
		h.logger.WithError(err).Error("Failed to render page")
		return err
	}

	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// viewStatus is 400 for a page carrying an alert
func viewStatus(view services.View) int {
	if view.Alert != "" {
		return fiber.StatusBadRequest
	}
	return fiber.StatusOK
}
