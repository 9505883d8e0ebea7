package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `# Sam Butler Investment Agency: Investment Report

## Executive Summary
The portfolio is positioned for moderate growth.

## Market Overview
Indices are range-bound.

## Portfolio Strategy
Allocate 40% AAPL, 35% MSFT, 25% cash.

## Individual Stock Analyses

### AAPL
Strong services momentum.

### MSFT
Cloud growth continues.

## Risk Management
Diversify across sectors.

## Performance Expectations
8-12% over twelve months.

## Conclusion
Stay the course.
`

func newTestRenderer(t *testing.T) (*Renderer, string) {
	t.Helper()
	reportsDir := t.TempDir()
	renderer, err := NewRenderer(reportsDir, t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return renderer, reportsDir
}

func TestParseSections(t *testing.T) {
	parsed := parseSections(sampleReport)

	body, ok := parsed.text("Executive Summary")
	require.True(t, ok)
	assert.Equal(t, "The portfolio is positioned for moderate growth.", body)

	name, _, ok := parsed.textMatching("Market", "Overview")
	require.True(t, ok)
	assert.Equal(t, "Market Overview", name)

	body, ok = parsed.tickerAnalysis("AAPL")
	require.True(t, ok)
	assert.Contains(t, body, "Strong services momentum.")

	_, ok = parsed.tickerAnalysis("TSLA")
	assert.False(t, ok)
}

func TestParseSectionsDedicatedTickerSection(t *testing.T) {
	parsed := parseSections("## NVDA Analysis\nGPU demand is insatiable.\n")
	body, ok := parsed.tickerAnalysis("NVDA")
	require.True(t, ok)
	assert.Contains(t, body, "GPU demand is insatiable.")
}

func TestRenderPDFFullReport(t *testing.T) {
	renderer, reportsDir := newTestRenderer(t)

	recs := []entity.Recommendation{
		ExtractRecommendation("AAPL", "## RECOMMENDATION: BUY\n## CONFIDENCE: High"),
		ExtractRecommendation("MSFT", ""),
	}
	path, err := renderer.RenderPDF(sampleReport, []string{"AAPL", "MSFT"}, recs, time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(reportsDir, "SBIA_Investment_Report_AAPL_MSFT_20260826_103000.pdf"), path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderPDFWithAbsentHeaders(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	// No recognized sections at all: the renderer must still produce a
	// document rather than fail.
	path, err := renderer.RenderPDF("just some loose prose, no headings", []string{"AAPL"}, nil, time.Now())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderPDFEmptyReport(t *testing.T) {
	renderer, _ := newTestRenderer(t)
	path, err := renderer.RenderPDF("", []string{"AAPL"}, nil, time.Now())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderPDFLongTickerListTruncatedInFilename(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	tickers := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "JPM"}
	path, err := renderer.RenderPDF(sampleReport, tickers, nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "...")
}
