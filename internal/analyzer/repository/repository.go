package repository

import (
	"context"
	"time"

	"golang-invest-reporter/internal/analyzer/dto"
	"golang-invest-reporter/internal/entity"
)

// AIRepository abstracts an LLM provider. Implementations handle rate and
// token limiting internally; callers treat a returned error as a failed
// stage and substitute an error string.
type AIRepository interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// FinancialDataRepository wraps the market data provider.
type FinancialDataRepository interface {
	Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error)
	News(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error)
	Historical(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error)
}

// YahooFinanceRepository is the secondary price source, consulted when the
// primary market data provider fails. It carries no news surface.
type YahooFinanceRepository interface {
	Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error)
	Historical(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error)
}

// EconomicDataRepository wraps the economic indicator provider.
type EconomicDataRepository interface {
	Series(ctx context.Context, seriesID, startDate, endDate string) ([]dto.IndicatorPoint, error)
	Latest(ctx context.Context, seriesIDs []string) (map[string]float64, error)
}

// ArticleRepository enriches news items with article body text.
type ArticleRepository interface {
	Enrich(ctx context.Context, items []entity.NewsItem, max int) []entity.NewsItem
	Lookup(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error)
}

// StageOutputRepository persists agent stage outputs as flat files.
type StageOutputRepository interface {
	Save(stage entity.Stage, ticker, output string, at time.Time) (string, error)
	Dir() string
}
