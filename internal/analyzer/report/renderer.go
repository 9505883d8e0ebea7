package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/utils"

	"github.com/go-pdf/fpdf"
)

// Renderer assembles the final client PDF from the aggregated report text,
// the extracted recommendations and any charts already rendered into the
// charts directory. Every section is optional; a report with missing
// headers still renders.
type Renderer struct {
	reportsDir string
	chartsDir  string
	log        *logger.Logger
}

// NewRenderer creates a renderer writing PDFs under reportsDir and reading
// chart PNGs from chartsDir.
func NewRenderer(reportsDir, chartsDir string, log *logger.Logger) (*Renderer, error) {
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &Renderer{reportsDir: reportsDir, chartsDir: chartsDir, log: log}, nil
}

// parsedReport holds the markdown report split into "## " sections,
// preserving their order of appearance.
type parsedReport struct {
	order    []string
	sections map[string][]string
}

func parseSections(content string) *parsedReport {
	p := &parsedReport{sections: map[string][]string{}}
	current := "Introduction"
	p.order = append(p.order, current)
	p.sections[current] = nil

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## "):
			// Main title, rendered separately.
		case strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "### "):
			current = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if _, seen := p.sections[current]; !seen {
				p.order = append(p.order, current)
			}
			p.sections[current] = nil
		default:
			p.sections[current] = append(p.sections[current], line)
		}
	}
	return p
}

// text returns the joined body of the section with the exact name.
func (p *parsedReport) text(name string) (string, bool) {
	lines, ok := p.sections[name]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}

// textMatching returns the first section whose name contains all the given
// words, in order of appearance.
func (p *parsedReport) textMatching(words ...string) (string, string, bool) {
	for _, name := range p.order {
		matched := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				matched = false
				break
			}
		}
		if matched {
			body, _ := p.text(name)
			return name, body, true
		}
	}
	return "", "", false
}

// tickerAnalysis finds the per-ticker summary, either as a dedicated
// section or as a "### TICKER" subsection of Individual Stock Analyses.
func (p *parsedReport) tickerAnalysis(ticker string) (string, bool) {
	for _, name := range p.order {
		if name != "Individual Stock Analyses" && strings.Contains(name, ticker) {
			body, _ := p.text(name)
			return body, true
		}
	}

	body, ok := p.text("Individual Stock Analyses")
	if !ok {
		return "", false
	}
	for _, block := range strings.Split(body, "### ") {
		header := firstLine(block)
		if strings.Contains(header, ticker) {
			return strings.TrimSpace(strings.TrimPrefix(block, header)), true
		}
	}
	return "", false
}

// RenderPDF writes the report PDF and returns its path.
func (r *Renderer) RenderPDF(content string, tickers []string, recs []entity.Recommendation, at time.Time) (string, error) {
	tickersStr := strings.Join(tickers, "_")
	if len(tickersStr) > 20 {
		tickersStr = tickersStr[:20] + "..."
	}
	filename := fmt.Sprintf("SBIA_Investment_Report_%s_%s.pdf", utils.SanitizeFilename(tickersStr), utils.FileTimestamp(at))
	path := filepath.Join(r.reportsDir, filename)

	parsed := parseSections(content)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 59, 134)
	pdf.CellFormat(0, 10, tr("Sam Butler Investment Agency"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Investment Analysis Report"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 6, tr("Date: "+at.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Tickers: "+strings.Join(tickers, ", ")), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	if body, ok := parsed.text("Executive Summary"); ok {
		r.writeSection(pdf, tr, "Executive Summary", body)
	}
	if name, body, ok := parsed.textMatching("Market", "Overview"); ok {
		r.writeSection(pdf, tr, name, body)
	}

	r.embedChart(pdf, tr, "Comparative Performance", filepath.Join(r.chartsDir, "comparative_performance.png"))

	if len(recs) > 0 {
		r.embedChart(pdf, tr, "Investment Recommendations", filepath.Join(r.chartsDir, "recommendations_summary.png"))
		r.writeRecommendationTable(pdf, tr, recs)
	}

	if name, body, ok := parsed.textMatching("Portfolio", "Strategy"); ok {
		r.writeSection(pdf, tr, name, body)
	}

	r.writeSectionHeading(pdf, tr, "Individual Stock Analyses")
	for _, ticker := range tickers {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(224, 109, 16)
		pdf.CellFormat(0, 8, tr(ticker+" Analysis"), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		r.embedImage(pdf, filepath.Join(r.chartsDir, fmt.Sprintf("%s_price_chart.png", utils.SanitizeFilename(ticker))))

		body, ok := parsed.tickerAnalysis(ticker)
		if !ok {
			body = fmt.Sprintf("No detailed analysis available for %s.", ticker)
		}
		r.writeBody(pdf, tr, body)
	}

	if name, body, ok := parsed.textMatching("Risk", "Management"); ok {
		pdf.AddPage()
		r.writeSection(pdf, tr, name, body)
	}
	if name, body, ok := parsed.textMatching("Performance", "Expectations"); ok {
		r.writeSection(pdf, tr, name, body)
	}
	if body, ok := parsed.text("Conclusion"); ok {
		r.writeSection(pdf, tr, "Conclusion", body)
	}

	// Disclaimer and signature.
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(58, 102, 176)
	pdf.CellFormat(0, 7, tr("Disclaimer"), "", 1, "L", false, 0, "")
	r.writeBody(pdf, tr, "This report is provided for informational purposes only and does not constitute investment advice. "+
		"Past performance is not indicative of future results. Investors should conduct their own research "+
		"and consult with a financial advisor before making investment decisions.")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, line := range []string{"Prepared by:", "Sam Butler, CFA", "Chief Investment Officer", "Sam Butler Investment Agency"} {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf report: %w", err)
	}
	return path, nil
}

func (r *Renderer) writeSectionHeading(pdf *fpdf.Fpdf, tr func(string) string, name string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(20, 59, 134)
	pdf.CellFormat(0, 8, tr(name), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (r *Renderer) writeSection(pdf *fpdf.Fpdf, tr func(string) string, name, body string) {
	r.writeSectionHeading(pdf, tr, name)
	r.writeBody(pdf, tr, body)
	pdf.Ln(4)
}

func (r *Renderer) writeBody(pdf *fpdf.Fpdf, tr func(string) string, body string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, paragraph := range strings.Split(body, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		pdf.MultiCell(0, 5, tr(paragraph), "", "L", false)
		pdf.Ln(2)
	}
}

func (r *Renderer) embedChart(pdf *fpdf.Fpdf, tr func(string) string, heading, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(58, 102, 176)
	pdf.CellFormat(0, 7, tr(heading), "", 1, "L", false, 0, "")
	r.embedImage(pdf, path)
}

func (r *Renderer) embedImage(pdf *fpdf.Fpdf, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	pdf.ImageOptions(path, 20, pdf.GetY(), 170, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)
}

func (r *Renderer) writeRecommendationTable(pdf *fpdf.Fpdf, tr func(string) string, recs []entity.Recommendation) {
	widths := []float64{25, 38, 42, 30, 40}
	headers := []string{"Ticker", "Recommendation", "Expected Return", "Confidence", "Position Size"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(20, 59, 134)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFillColor(255, 255, 255)
	for _, rec := range recs {
		cells := []string{
			rec.Ticker,
			rec.Action,
			rec.ExpectedReturn,
			rec.Confidence,
			rec.PositionSize,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(utils.TruncateText(c, 26)), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}
