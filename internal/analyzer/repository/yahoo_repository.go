package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/dto"
	"golang-invest-reporter/internal/entity"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/utils"

	"golang.org/x/time/rate"
)

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates the Yahoo Finance chart API client used
// as a fallback price source.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// Snapshot derives a real-time snapshot from the chart meta block.
func (r *yahooFinanceRepository) Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error) {
	result, err := r.fetchChart(ctx, ticker, url.Values{
		"range":    {"1d"},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, err
	}

	meta := result.Meta
	change := meta.RegularMarketPrice - meta.ChartPreviousClose
	changePct := 0.0
	if meta.ChartPreviousClose != 0 {
		changePct = change / meta.ChartPreviousClose * 100
	}
	taken := ""
	if meta.RegularMarketTime > 0 {
		taken = time.Unix(meta.RegularMarketTime, 0).UTC().Format(time.RFC3339)
	}

	return &entity.Snapshot{
		Ticker:        ticker,
		Price:         meta.RegularMarketPrice,
		DayChange:     change,
		DayChangePct:  changePct,
		Volume:        meta.RegularMarketVolume,
		FiftyTwoHigh:  meta.FiftyTwoWeekHigh,
		FiftyTwoLow:   meta.FiftyTwoWeekLow,
		SnapshotTaken: taken,
	}, nil
}

// Historical fetches daily bars between startDate and endDate (yyyy-mm-dd).
// Empty dates default to the configured trailing window. Bars Yahoo reports
// as null are dropped.
func (r *yahooFinanceRepository) Historical(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error) {
	end := time.Now()
	if endDate != "" {
		if t, err := time.Parse(utils.DateLayout, endDate); err == nil {
			t = t.AddDate(0, 0, 1)
			end = t
		}
	}
	start := end.AddDate(0, 0, -r.cfg.FinData.HistoryDays)
	if startDate != "" {
		if t, err := time.Parse(utils.DateLayout, startDate); err == nil {
			start = t
		}
	}

	result, err := r.fetchChart(ctx, ticker, url.Values{
		"period1":  {strconv.FormatInt(start.Unix(), 10)},
		"period2":  {strconv.FormatInt(end.Unix(), 10)},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data in Yahoo Finance response for %s", ticker)
	}

	quote := result.Indicators.Quote[0]
	bars := make([]entity.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := entity.PriceBar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (r *yahooFinanceRepository) fetchChart(ctx context.Context, ticker string, params url.Values) (*dto.YahooChartResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", r.cfg.YahooFinance.BaseURL, url.PathEscape(ticker), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	// Yahoo rejects requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to Yahoo Finance API", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to send request to Yahoo Finance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Received non-OK response from Yahoo Finance API", logger.IntField("status_code", resp.StatusCode), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance API: %d - %s", resp.StatusCode, string(body))
	}

	var chartResp dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo Finance response: %w", err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %s - %s", chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty Yahoo Finance response for %s", ticker)
	}
	return &chartResp.Chart.Result[0], nil
}
