package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/report"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/telegram"
)

// PortfolioResult is the outcome of a full multi-stock batch.
type PortfolioResult struct {
	Contexts        map[string]*entity.AnalysisContext
	Recommendations []entity.Recommendation
	ReportText      string
	ReportFile      string
	PDFPath         string
}

// PortfolioService runs the complete multi-stock flow: per-ticker
// pipelines, batch aggregation, charts, the client PDF and the optional
// completion notification.
type PortfolioService interface {
	Run(ctx context.Context, tickers []string) (*PortfolioResult, error)
}

type portfolioService struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline StockPipeline
	ai       repository.AIRepository
	outputs  repository.StageOutputRepository
	charts   *report.ChartGenerator
	renderer *report.Renderer
	notifier telegram.Notifier
}

// NewPortfolioService creates the batch orchestrator.
func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	pipeline StockPipeline,
	ai repository.AIRepository,
	outputs repository.StageOutputRepository,
	charts *report.ChartGenerator,
	renderer *report.Renderer,
	notifier telegram.Notifier,
) PortfolioService {
	return &portfolioService{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline,
		ai:       ai,
		outputs:  outputs,
		charts:   charts,
		renderer: renderer,
		notifier: notifier,
	}
}

// Run analyzes every ticker sequentially with the configured delay between
// them, aggregates the recommendations into the client report and renders
// the PDF. Per-ticker failures degrade the report instead of aborting it.
func (s *portfolioService) Run(ctx context.Context, tickers []string) (*PortfolioResult, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers to analyze")
	}
	s.log.Info("Starting portfolio analysis", logger.Field("tickers", tickers))

	result := &PortfolioResult{Contexts: make(map[string]*entity.AnalysisContext, len(tickers))}

	for i, ticker := range tickers {
		analysisCtx, err := s.pipeline.AnalyzeStock(ctx, ticker)
		if err != nil {
			return result, err
		}
		result.Contexts[ticker] = analysisCtx

		if i < len(tickers)-1 && s.cfg.Pipeline.TickerDelay > 0 {
			s.log.Info("Waiting before next ticker", logger.StringField("delay", s.cfg.Pipeline.TickerDelay.String()))
			if err := sleepContext(ctx, s.cfg.Pipeline.TickerDelay); err != nil {
				return result, err
			}
		}
	}

	s.generateCharts(tickers, result)

	recommendations := make(map[string]string, len(tickers))
	for _, ticker := range tickers {
		recommendations[ticker] = result.Contexts[ticker].OutputOf(entity.StageInvestment)
		result.Recommendations = append(result.Recommendations,
			report.ExtractRecommendation(ticker, recommendations[ticker]))
	}
	if path, err := s.charts.RecommendationChart(result.Recommendations); err != nil {
		s.log.Warn("Failed to render recommendation chart", logger.ErrorField(err))
	} else {
		s.log.Debug("Rendered recommendation chart", logger.StringField("path", path))
	}

	result.ReportText = s.aggregate(ctx, tickers, recommendations)

	now := time.Now()
	if path, err := s.outputs.Save(entity.StageAggregation, strings.Join(tickers, "-"), result.ReportText, now); err != nil {
		s.log.Error("Failed to save aggregated report", logger.ErrorField(err))
	} else {
		result.ReportFile = path
	}

	pdfPath, err := s.renderer.RenderPDF(result.ReportText, tickers, result.Recommendations, now)
	if err != nil {
		err = fmt.Errorf("failed to render pdf report: %w", err)
		s.alertFailure(err)
		return result, err
	}
	result.PDFPath = pdfPath
	s.log.Info("Generated PDF report", logger.StringField("path", pdfPath))

	s.notify(result)
	return result, nil
}

func (s *portfolioService) generateCharts(tickers []string, result *PortfolioResult) {
	histories := make(map[string][]entity.PriceBar, len(tickers))
	for _, ticker := range tickers {
		histories[ticker] = result.Contexts[ticker].History
		if _, err := s.charts.PriceChart(ticker, result.Contexts[ticker].History); err != nil {
			s.log.Warn("Failed to render price chart", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
	}
	if _, err := s.charts.ComparativeChart(tickers, histories); err != nil {
		s.log.Warn("Failed to render comparative chart", logger.ErrorField(err))
	}
}

func (s *portfolioService) aggregate(ctx context.Context, tickers []string, recommendations map[string]string) string {
	task := repository.BuildReportTask(tickers, recommendations)
	output, err := s.ai.Generate(ctx, repository.ReportAggregationAgentSystemPrompt, task)
	if err != nil {
		s.log.Error("Report aggregation failed", logger.ErrorField(err))
		var b strings.Builder
		b.WriteString("# Sam Butler Investment Agency: Investment Report\n\n## Individual Stock Analyses\n")
		for _, ticker := range tickers {
			b.WriteString(fmt.Sprintf("\n### %s\n%s\n", ticker, recommendations[ticker]))
		}
		return b.String()
	}
	return output
}

func (s *portfolioService) notify(result *PortfolioResult) {
	if s.notifier == nil {
		return
	}
	lines := make([]telegram.RecommendationLine, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		lines = append(lines, telegram.RecommendationLine{
			Ticker:         rec.Ticker,
			Action:         rec.Action,
			ExpectedReturn: rec.ExpectedReturn,
			Confidence:     rec.Confidence,
		})
	}
	if err := s.notifier.SendMessage(telegram.FormatReportCompleteMessage(time.Now(), result.PDFPath, lines)); err != nil {
		s.log.Warn("Failed to send completion notification", logger.ErrorField(err))
	}
}

func (s *portfolioService) alertFailure(cause error) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatErrorAlertMessage(time.Now(), cause.Error())); err != nil {
		s.log.Warn("Failed to send error alert", logger.ErrorField(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
