package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
)

// SectorTickers maps each covered sector to its top constituents.
var SectorTickers = map[string][]string{
	"Technology":     {"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA"},
	"Finance":        {"JPM", "BAC", "WFC", "C", "GS"},
	"Healthcare":     {"JNJ", "UNH", "PFE", "ABT", "MRK"},
	"Consumer Goods": {"PG", "KO", "PEP", "COST", "WMT"},
	"Energy":         {"XOM", "CVX", "COP", "SLB", "EOG"},
}

// SectorNames returns the covered sectors in alphabetical order.
func SectorNames() []string {
	names := make([]string, 0, len(SectorTickers))
	for name := range SectorTickers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SectorService analyzes a whole sector from its top constituents.
type SectorService interface {
	Analyze(ctx context.Context, sector string) (string, error)
}

type sectorService struct {
	cfg      *config.Config
	log      *logger.Logger
	pipeline StockPipeline
	ai       repository.AIRepository
}

// NewSectorService creates the sector analysis service.
func NewSectorService(cfg *config.Config, log *logger.Logger, pipeline StockPipeline, ai repository.AIRepository) SectorService {
	return &sectorService{cfg: cfg, log: log, pipeline: pipeline, ai: ai}
}

// Analyze runs the pipeline for every constituent of the sector, then one
// sector-level insight call over the per-stock analyses.
func (s *sectorService) Analyze(ctx context.Context, sector string) (string, error) {
	tickers, ok := SectorTickers[sector]
	if !ok {
		return "", fmt.Errorf("unknown sector %q, available: %s", sector, strings.Join(SectorNames(), ", "))
	}
	s.log.Info("Starting sector analysis", logger.StringField("sector", sector))

	stockData := make(map[string]string, len(tickers))
	for i, ticker := range tickers {
		s.log.Info("Analyzing sector constituent", logger.StringField("ticker", ticker), logger.StringField("sector", sector))
		analysisCtx, err := s.pipeline.AnalyzeStock(ctx, ticker)
		if err != nil {
			return "", err
		}
		stockData[ticker] = analysisCtx.OutputOf(entity.StageStock)

		if i < len(tickers)-1 && s.cfg.Pipeline.TickerDelay > 0 {
			if err := sleepContext(ctx, s.cfg.Pipeline.TickerDelay); err != nil {
				return "", err
			}
		}
	}

	prompt := repository.BuildSectorPrompt(sector, stockData)
	analysis, err := s.ai.Generate(ctx, repository.MarketAgentSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("sector analysis failed: %w", err)
	}

	s.log.Info("Completed sector analysis", logger.StringField("sector", sector))
	return analysis, nil
}
