package service

import (
	"context"
	"fmt"
	"time"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
)

// StockPipeline runs the fixed per-ticker agent pipeline: fetch all data
// for one ticker, then the five research stages strictly in order, each
// stage seeing the outputs of the stages before it.
type StockPipeline interface {
	AnalyzeStock(ctx context.Context, ticker string) (*entity.AnalysisContext, error)
}

type stockPipeline struct {
	cfg      *config.Config
	log      *logger.Logger
	ai       repository.AIRepository
	finData  repository.FinancialDataRepository
	yahoo    repository.YahooFinanceRepository
	econData repository.EconomicDataRepository
	articles repository.ArticleRepository
	outputs  repository.StageOutputRepository
}

// NewStockPipeline creates the per-ticker pipeline service.
func NewStockPipeline(
	cfg *config.Config,
	log *logger.Logger,
	ai repository.AIRepository,
	finData repository.FinancialDataRepository,
	yahoo repository.YahooFinanceRepository,
	econData repository.EconomicDataRepository,
	articles repository.ArticleRepository,
	outputs repository.StageOutputRepository,
) StockPipeline {
	return &stockPipeline{
		cfg:      cfg,
		log:      log,
		ai:       ai,
		finData:  finData,
		yahoo:    yahoo,
		econData: econData,
		articles: articles,
		outputs:  outputs,
	}
}

// AnalyzeStock fetches data and runs every per-ticker stage. Fetch and
// stage failures are recorded, not propagated: the returned context always
// contains one StageResult per stage and one written output file each. The
// error return is reserved for context cancellation.
func (s *stockPipeline) AnalyzeStock(ctx context.Context, ticker string) (*entity.AnalysisContext, error) {
	s.log.InfoContext(ctx, "Starting analysis", logger.StringField("ticker", ticker))

	analysisCtx := s.fetchData(ctx, ticker)

	for _, stage := range entity.TickerStages {
		if err := ctx.Err(); err != nil {
			return analysisCtx, err
		}
		result := s.runStage(ctx, stage, analysisCtx)
		analysisCtx.Results = append(analysisCtx.Results, result)
	}

	s.log.InfoContext(ctx, "Completed analysis", logger.StringField("ticker", ticker))
	return analysisCtx, nil
}

func (s *stockPipeline) fetchData(ctx context.Context, ticker string) *entity.AnalysisContext {
	analysisCtx := &entity.AnalysisContext{Ticker: ticker}

	snapshot, err := s.finData.Snapshot(ctx, ticker)
	if err != nil && s.yahoo != nil {
		s.log.Warn("Primary snapshot fetch failed, falling back to Yahoo Finance", logger.ErrorField(err), logger.StringField("ticker", ticker))
		snapshot, err = s.yahoo.Snapshot(ctx, ticker)
	}
	if err != nil {
		s.log.Warn("Failed to fetch snapshot", logger.ErrorField(err), logger.StringField("ticker", ticker))
	} else {
		analysisCtx.Snapshot = snapshot
	}

	news, err := s.finData.News(ctx, ticker, s.cfg.FinData.NewsLimit)
	if err != nil {
		s.log.Warn("Failed to fetch news", logger.ErrorField(err), logger.StringField("ticker", ticker))
	}
	if len(news) == 0 && s.articles != nil {
		if rssNews, rssErr := s.articles.Lookup(ctx, ticker, s.cfg.FinData.NewsLimit); rssErr == nil {
			news = rssNews
		}
	}
	if s.articles != nil {
		news = s.articles.Enrich(ctx, news, s.cfg.News.MaxArticles)
	}
	analysisCtx.News = news

	history, err := s.finData.Historical(ctx, ticker, "", "")
	if (err != nil || len(history) == 0) && s.yahoo != nil {
		if err != nil {
			s.log.Warn("Primary historical fetch failed, falling back to Yahoo Finance", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		history, err = s.yahoo.Historical(ctx, ticker, "", "")
	}
	if err != nil {
		s.log.Warn("Failed to fetch historical prices", logger.ErrorField(err), logger.StringField("ticker", ticker))
	} else {
		analysisCtx.History = history
	}

	if s.econData != nil {
		indicators, err := s.econData.Latest(ctx, s.cfg.Fred.Series)
		if err != nil {
			s.log.Warn("Failed to fetch economic indicators", logger.ErrorField(err), logger.StringField("ticker", ticker))
		} else {
			analysisCtx.Indicators = indicators
		}
	}

	return analysisCtx
}

func (s *stockPipeline) runStage(ctx context.Context, stage entity.Stage, analysisCtx *entity.AnalysisContext) entity.StageResult {
	result := entity.StageResult{
		Stage:  stage,
		Ticker: analysisCtx.Ticker,
	}

	prompt := repository.BuildStagePrompt(stage, analysisCtx, s.cfg.Pipeline.MaxContextChars)
	output, err := s.ai.Generate(ctx, repository.SystemPromptFor(stage), prompt)
	if err != nil {
		s.log.Error("Stage failed", logger.ErrorField(err), logger.StringField("stage", string(stage)), logger.StringField("ticker", analysisCtx.Ticker))
		result.Err = err
		output = fmt.Sprintf("%s analysis unavailable for %s: %v", stage, analysisCtx.Ticker, err)
	}
	result.Output = output
	result.FinishedAt = time.Now()

	path, saveErr := s.outputs.Save(stage, analysisCtx.Ticker, output, result.FinishedAt)
	if saveErr != nil {
		s.log.Error("Failed to save stage output", logger.ErrorField(saveErr), logger.StringField("stage", string(stage)))
		if result.Err == nil {
			result.Err = saveErr
		}
	}
	result.OutputFile = path

	s.log.Info("Completed stage",
		logger.StringField("stage", string(stage)),
		logger.StringField("ticker", analysisCtx.Ticker),
		logger.StringField("output_file", path),
	)
	return result
}
