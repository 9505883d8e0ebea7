package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/utils"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Corporate palette shared by all charts and the PDF renderer.
var (
	colorPrimary   = drawing.ColorFromHex("143b86")
	colorSecondary = drawing.ColorFromHex("3a66b0")
	colorAccent    = drawing.ColorFromHex("e06d10")
	colorPositive  = drawing.ColorFromHex("157f3d")
	colorNegative  = drawing.ColorFromHex("c42f30")
)

var comparativePalette = []drawing.Color{
	colorPrimary,
	colorAccent,
	colorPositive,
	colorSecondary,
	colorNegative,
}

// ChartGenerator renders PNG charts into a directory for embedding in the
// PDF report. Chart failures are reported but never abort report
// generation.
type ChartGenerator struct {
	dir string
	log *logger.Logger
}

// NewChartGenerator creates a generator writing charts under dir.
func NewChartGenerator(dir string, log *logger.Logger) (*ChartGenerator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts directory: %w", err)
	}
	return &ChartGenerator{dir: dir, log: log}, nil
}

// PriceChart renders the price history of one ticker with moving average
// overlays and the period return in the title.
func (g *ChartGenerator) PriceChart(ticker string, bars []entity.PriceBar) (string, error) {
	if len(bars) < 2 {
		return "", fmt.Errorf("not enough price data for %s chart", ticker)
	}

	xs, ys := barSeries(bars)
	priceSeries := chart.TimeSeries{
		Name:    "Price",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: colorSecondary,
			StrokeWidth: 2,
		},
	}

	pctChange := (ys[len(ys)-1] - ys[0]) / ys[0] * 100
	title := fmt.Sprintf("%s - Price History (%+.1f%%)", ticker, pctChange)

	series := []chart.Series{priceSeries}
	if len(bars) > 20 {
		series = append(series, &chart.SMASeries{
			Name:        "20-day MA",
			Period:      20,
			InnerSeries: priceSeries,
			Style: chart.Style{
				StrokeColor:     colorAccent,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{4, 2},
			},
		})
	}
	if len(bars) > 50 {
		series = append(series, &chart.SMASeries{
			Name:        "50-day MA",
			Period:      50,
			InnerSeries: priceSeries,
			Style: chart.Style{
				StrokeColor:     colorNegative,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{4, 2},
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		YAxis: chart.YAxis{
			Name: "Price ($)",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	path := filepath.Join(g.dir, fmt.Sprintf("%s_price_chart.png", utils.SanitizeFilename(ticker)))
	return path, g.render(&graph, path)
}

// ComparativeChart renders all tickers normalized to a starting value of
// 100 so their relative performance is directly comparable.
func (g *ChartGenerator) ComparativeChart(tickers []string, histories map[string][]entity.PriceBar) (string, error) {
	var series []chart.Series
	for i, ticker := range tickers {
		bars := histories[ticker]
		if len(bars) < 2 {
			continue
		}
		xs, ys := barSeries(bars)
		base := ys[0]
		normalized := make([]float64, len(ys))
		for j, v := range ys {
			normalized[j] = v / base * 100
		}
		series = append(series, chart.TimeSeries{
			Name:    ticker,
			XValues: xs,
			YValues: normalized,
			Style: chart.Style{
				StrokeColor: comparativePalette[i%len(comparativePalette)],
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return "", fmt.Errorf("no price data for comparative chart")
	}

	graph := chart.Chart{
		Title:  "Comparative Performance (Base = 100)",
		Width:  800,
		Height: 480,
		YAxis: chart.YAxis{
			Name: "Normalized Price",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	path := filepath.Join(g.dir, "comparative_performance.png")
	return path, g.render(&graph, path)
}

// RecommendationChart renders a bar per ticker: BUY up in green, SELL down
// in red, HOLD flat in blue.
func (g *ChartGenerator) RecommendationChart(recs []entity.Recommendation) (string, error) {
	if len(recs) == 0 {
		return "", fmt.Errorf("no recommendations for summary chart")
	}

	bars := make([]chart.Value, 0, len(recs))
	for _, rec := range recs {
		var value float64
		color := colorSecondary
		switch rec.Action {
		case entity.ActionBuy:
			value = 1
			color = colorPositive
		case entity.ActionSell:
			value = -1
			color = colorNegative
		}
		bars = append(bars, chart.Value{
			Value: value,
			Label: fmt.Sprintf("%s (%s)", rec.Ticker, rec.Action),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Investment Recommendations",
		Width:    800,
		Height:   400,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -1.5, Max: 1.5},
		},
		Bars: bars,
	}

	path := filepath.Join(g.dir, "recommendations_summary.png")
	return path, g.renderBars(&graph, path)
}

func (g *ChartGenerator) render(graph *chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		g.log.Error("Failed to render chart", logger.ErrorField(err), logger.StringField("path", path))
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func (g *ChartGenerator) renderBars(graph *chart.BarChart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		g.log.Error("Failed to render chart", logger.ErrorField(err), logger.StringField("path", path))
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func barSeries(bars []entity.PriceBar) ([]time.Time, []float64) {
	xs := make([]time.Time, len(bars))
	ys := make([]float64, len(bars))
	for i, b := range bars {
		xs[i] = b.Time
		ys[i] = b.Close
	}
	return xs, ys
}
