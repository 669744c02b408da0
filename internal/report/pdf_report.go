package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"npv-risk-web/internal/charts"
	"npv-risk-web/internal/finance"
	"npv-risk-web/internal/format"
	"npv-risk-web/internal/models"
)

const (
	pageMargin   = 15.0
	contentWidth = 210.0 - 2*pageMargin
	chartHeight  = contentWidth / 2
)

// ChartSource supplies rendered chart images by kind
type ChartSource interface {
	Chart(kind charts.Kind) ([]byte, bool)
}

// pdfText maps text to the cp1252 encoding of the core PDF fonts
func pdfText(s string) string {
	s = strings.ReplaceAll(s, "\u20ac", "\x80")
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// PDFReport lays out an assessment summary with its charts on A4 pages
type PDFReport struct {
	pdf       *fpdf.Fpdf
	formatter *format.Formatter
}

func NewPDFReport(formatter *format.Formatter) *PDFReport {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	return &PDFReport{pdf: pdf, formatter: formatter}
}

// Generate writes the report for req/result and returns the PDF bytes
func (r *PDFReport) Generate(req models.SimulationRequest, result models.SimulationResult, source ChartSource) ([]byte, error) {
	r.pdf.AddPage()
	r.title()
	r.inputs(req)
	r.summary(result)
	r.recommendation(result.Recommendation)
	r.charts(source)

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFReport) title() {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.CellFormat(contentWidth, 12, "Investment Risk Assessment", "", 1, "C", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006 15:04")), "", 1, "C", false, 0, "")
	r.pdf.Ln(4)
}

func (r *PDFReport) section(name string) {
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetFillColor(233, 236, 239)
	r.pdf.CellFormat(contentWidth, 8, name, "1", 1, "L", true, 0, "")
	r.pdf.SetFont("Arial", "", 10)
}

func (r *PDFReport) row(label, value string) {
	r.pdf.CellFormat(contentWidth*0.5, 7, pdfText(label), "LRB", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth*0.5, 7, pdfText(value), "RB", 1, "R", false, 0, "")
}

func (r *PDFReport) inputs(req models.SimulationRequest) {
	f := r.formatter
	r.section("Inputs")
	r.row("Initial investment", f.Currency(req.InitialInvestment))
	r.row("Duration", fmt.Sprintf("%d years", req.Duration))
	r.row("Annual revenue", fmt.Sprintf("%s to %s", f.Currency(req.MinRevenue), f.Currency(req.MaxRevenue)))
	r.row("Annual cost", fmt.Sprintf("%s to %s", f.Currency(req.MinCost), f.Currency(req.MaxCost)))
	r.row("Discount rate", f.Percent(req.DiscountRate/100))
	r.row("Simulations", format.Number(float64(req.NumSimulations), 0))
	if len(req.HistoricalRevenues) > 0 {
		values := make([]string, len(req.HistoricalRevenues))
		for i, v := range req.HistoricalRevenues {
			values[i] = f.CurrencyCompact(v)
		}
		r.row("Historical revenues", strings.Join(values, ", "))
	}
	r.pdf.Ln(4)
}

func (r *PDFReport) summary(result models.SimulationResult) {
	f := r.formatter
	r.section("Results")
	r.row("Mean NPV", f.Currency(result.MeanNPV))
	r.row("Median NPV", f.Currency(result.MedianNPV))
	r.row("Minimum NPV", f.Currency(result.MinNPV))
	r.row("Maximum NPV", f.Currency(result.MaxNPV))
	r.row("Standard deviation", f.Currency(result.StdDev))
	r.row("Probability of loss", f.Percent(result.ProbLoss))
	r.row("95% confidence interval", fmt.Sprintf("%s to %s",
		f.Currency(result.ConfidenceInterval[0]), f.Currency(result.ConfidenceInterval[1])))
	r.row("IRR of mean sample cash flow", r.irr(result.SampleCashFlows))
	risk := finance.RiskDisplay(finance.RiskLevel(finance.Categorize(result.MeanNPV, result.ProbLoss, result.StdDev)))
	r.row("Risk level", risk.Text)
	r.pdf.Ln(4)
}

// irr formats the IRR of the year-by-year mean of runs, "n/a" when it does not converge
func (r *PDFReport) irr(runs [][]float64) string {
	flows := meanCashFlows(runs)
	if len(flows) == 0 {
		return "n/a"
	}
	rate, ok := finance.IRR(flows)
	if !ok {
		return "n/a"
	}
	return r.formatter.Percent(rate)
}

func meanCashFlows(runs [][]float64) []float64 {
	if len(runs) == 0 {
		return nil
	}
	mean := make([]float64, len(runs[0]))
	for _, run := range runs {
		for t := range mean {
			if t < len(run) {
				mean[t] += run[t]
			}
		}
	}
	for t := range mean {
		mean[t] /= float64(len(runs))
	}
	return mean
}

func (r *PDFReport) recommendation(rec models.Recommendation) {
	r.section(fmt.Sprintf("Recommendation (%s Confidence)", rec.Confidence))
	r.pdf.MultiCell(contentWidth, 6, pdfText(rec.Text), "LRB", "L", false)
	r.pdf.Ln(4)
}

func (r *PDFReport) charts(source ChartSource) {
	if source == nil {
		return
	}
	for _, kind := range charts.Kinds {
		img, ok := source.Chart(kind)
		if !ok || len(img) == 0 {
			continue
		}

		name := "chart-" + string(kind)
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		if r.pdf.Err() {
			// a broken image must not spoil the rest of the report
			r.pdf.ClearError()
			continue
		}

		if r.pdf.GetY()+chartHeight > 297-pageMargin {
			r.pdf.AddPage()
		}
		r.pdf.ImageOptions(name, pageMargin, r.pdf.GetY(), contentWidth, chartHeight, false, opts, 0, "")
		r.pdf.SetY(r.pdf.GetY() + chartHeight + 4)
	}
}
