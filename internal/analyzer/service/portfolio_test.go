package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/report"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const investmentFixture = `# Investment Recommendation: TEST

## RECOMMENDATION: BUY

## PRICE TARGET: $250

## EXPECTED 1-YEAR RETURN: 12%

## CONFIDENCE: High

## POSITION SIZE: Medium
`

func newTestPortfolio(t *testing.T, ai repository.AIRepository, notifier telegram.Notifier) (PortfolioService, string, string) {
	t.Helper()
	outputDir := t.TempDir()
	chartsDir := t.TempDir()
	reportsDir := t.TempDir()

	log := logger.NewNop()
	outputs, err := repository.NewStageOutputRepository(outputDir, log)
	require.NoError(t, err)
	charts, err := report.NewChartGenerator(chartsDir, log)
	require.NoError(t, err)
	renderer, err := report.NewRenderer(reportsDir, chartsDir, log)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.FinData.NewsLimit = 5
	cfg.Pipeline.MaxContextChars = 4000
	cfg.Pipeline.TickerDelay = 0

	finData := &fakeFinData{snapshot: &entity.Snapshot{Price: 100}}
	pipeline := NewStockPipeline(cfg, log, ai, finData, nil, nil, nil, outputs)
	portfolio := NewPortfolioService(cfg, log, pipeline, ai, outputs, charts, renderer, notifier)
	return portfolio, outputDir, reportsDir
}

func TestPortfolioRunProducesOneFilePerStageAndOnePDF(t *testing.T) {
	ai := &fakeAI{response: investmentFixture}
	portfolio, outputDir, reportsDir := newTestPortfolio(t, ai, telegram.NopNotifier{})

	tickers := []string{"AAPL", "MSFT", "GOOGL"}
	result, err := portfolio.Run(context.Background(), tickers)
	require.NoError(t, err)

	for _, ticker := range tickers {
		for _, stage := range entity.TickerStages {
			files, err := filepath.Glob(filepath.Join(outputDir, fmt.Sprintf("*_%s_%s.txt", ticker, stage)))
			require.NoError(t, err)
			assert.Len(t, files, 1, "%s %s", ticker, stage)
		}
	}

	aggFiles, err := filepath.Glob(filepath.Join(outputDir, fmt.Sprintf("*_%s.txt", entity.StageAggregation)))
	require.NoError(t, err)
	assert.Len(t, aggFiles, 1)

	pdfs, err := filepath.Glob(filepath.Join(reportsDir, "*.pdf"))
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, pdfs[0], result.PDFPath)
}

func TestPortfolioRunExtractsRecommendations(t *testing.T) {
	ai := &fakeAI{response: investmentFixture}
	portfolio, _, _ := newTestPortfolio(t, ai, telegram.NopNotifier{})

	result, err := portfolio.Run(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)

	for _, rec := range result.Recommendations {
		assert.Equal(t, entity.ActionBuy, rec.Action)
		assert.Equal(t, "12%", rec.ExpectedReturn)
		assert.Equal(t, entity.ConfidenceHigh, rec.Confidence)
	}
	assert.Equal(t, "AAPL", result.Recommendations[0].Ticker)
}

func TestPortfolioRunAggregationFailureFallsBack(t *testing.T) {
	// Stage calls succeed, the aggregation call fails.
	ai := &switchingAI{succeedCalls: len(entity.TickerStages), response: investmentFixture}
	portfolio, _, reportsDir := newTestPortfolio(t, ai, telegram.NopNotifier{})

	result, err := portfolio.Run(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Contains(t, result.ReportText, "### AAPL")

	pdfs, err := filepath.Glob(filepath.Join(reportsDir, "*.pdf"))
	require.NoError(t, err)
	assert.Len(t, pdfs, 1)
}

func TestPortfolioRunRenderFailureSendsErrorAlert(t *testing.T) {
	ai := &fakeAI{response: investmentFixture}
	notifier := &recordingNotifier{}
	portfolio, _, reportsDir := newTestPortfolio(t, ai, notifier)

	// Removing the reports directory makes the PDF write fail.
	require.NoError(t, os.RemoveAll(reportsDir))

	_, err := portfolio.Run(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Analysis Error")
}

func TestPortfolioRunNoTickers(t *testing.T) {
	portfolio, _, _ := newTestPortfolio(t, &fakeAI{}, telegram.NopNotifier{})
	_, err := portfolio.Run(context.Background(), nil)
	assert.Error(t, err)
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) SendMessage(text string) error {
	r.messages = append(r.messages, text)
	return nil
}

type switchingAI struct {
	succeedCalls int
	response     string
	calls        int
}

func (s *switchingAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.calls > s.succeedCalls {
		return "", fmt.Errorf("model unavailable")
	}
	return s.response, nil
}
