package service

import (
	"context"
	"fmt"
	"strings"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
)

// CompareService ranks a set of stocks against each other based on their
// individual pipeline results.
type CompareService interface {
	Compare(ctx context.Context, tickers []string) (string, error)
}

type compareService struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline StockPipeline
	ai       repository.AIRepository
}

// NewCompareService creates the cross-stock comparison service.
func NewCompareService(cfg *config.Config, log *logger.Logger, pipeline StockPipeline, ai repository.AIRepository) CompareService {
	return &compareService{cfg: cfg, log: log, pipeline: pipeline, ai: ai}
}

// Compare runs the pipeline for each ticker, then one extra call comparing
// and ranking the investment recommendations.
func (s *compareService) Compare(ctx context.Context, tickers []string) (string, error) {
	if len(tickers) < 2 {
		return "", fmt.Errorf("comparison needs at least two tickers")
	}
	s.log.Info("Starting stock comparison", logger.StringField("tickers", strings.Join(tickers, ",")))

	analyses := make(map[string]string, len(tickers))
	for i, ticker := range tickers {
		analysisCtx, err := s.pipeline.AnalyzeStock(ctx, ticker)
		if err != nil {
			return "", err
		}
		analyses[ticker] = analysisCtx.OutputOf(entity.StageInvestment)

		if i < len(tickers)-1 && s.cfg.Pipeline.TickerDelay > 0 {
			if err := sleepContext(ctx, s.cfg.Pipeline.TickerDelay); err != nil {
				return "", err
			}
		}
	}

	prompt := repository.BuildComparisonPrompt(tickers, analyses)
	comparison, err := s.ai.Generate(ctx, repository.ReportAggregationAgentSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("comparison analysis failed: %w", err)
	}

	s.log.Info("Completed stock comparison", logger.StringField("tickers", strings.Join(tickers, ",")))
	return comparison, nil
}
