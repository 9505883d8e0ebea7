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

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type finDataRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache
}

// NewFinDataRepository creates a repository for the Financial Datasets API.
func NewFinDataRepository(cfg *config.Config, log *logger.Logger) FinancialDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.FinData.MaxRequestPerMinute)
	return &finDataRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		inmemoryCache:  cache.New(time.Minute, 5*time.Minute),
	}
}

// Snapshot fetches the real-time price snapshot for a ticker.
func (r *finDataRepository) Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error) {
	cacheKey := "snapshot:" + ticker
	if cached, found := r.inmemoryCache.Get(cacheKey); found {
		snapshot := cached.(entity.Snapshot)
		return &snapshot, nil
	}

	params := url.Values{"ticker": {ticker}}
	body, err := r.sendRequest(ctx, "/prices/snapshot", params)
	if err != nil {
		return nil, err
	}

	var resp dto.SnapshotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot response: %w", err)
	}
	if resp.Snapshot.Ticker == "" {
		resp.Snapshot.Ticker = ticker
	}

	r.inmemoryCache.Set(cacheKey, resp.Snapshot, cache.DefaultExpiration)
	return &resp.Snapshot, nil
}

// News fetches recent news items for a ticker.
func (r *finDataRepository) News(ctx context.Context, ticker string, limit int) ([]entity.NewsItem, error) {
	if limit <= 0 {
		limit = r.cfg.FinData.NewsLimit
	}

	params := url.Values{
		"ticker": {ticker},
		"limit":  {strconv.Itoa(limit)},
	}
	body, err := r.sendRequest(ctx, "/news", params)
	if err != nil {
		return nil, err
	}

	var resp dto.NewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal news response: %w", err)
	}

	items := make([]entity.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		title := n.Title
		if title == "" {
			title = "No title"
		}
		source := n.Source
		if source == "" {
			source = "Unknown source"
		}
		items = append(items, entity.NewsItem{
			Title:         title,
			PublishedDate: n.PublishedDate,
			URL:           n.URL,
			Source:        source,
		})
	}
	return items, nil
}

// Historical fetches daily price bars between startDate and endDate
// (yyyy-mm-dd). Empty dates default to the configured trailing window.
func (r *finDataRepository) Historical(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error) {
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	if startDate == "" {
		startDate = time.Now().AddDate(0, 0, -r.cfg.FinData.HistoryDays).Format("2006-01-02")
	}

	params := url.Values{
		"ticker":              {ticker},
		"interval":            {"day"},
		"interval_multiplier": {"1"},
		"start_date":          {startDate},
		"end_date":            {endDate},
	}
	body, err := r.sendRequest(ctx, "/prices/", params)
	if err != nil {
		return nil, err
	}

	var resp dto.PricesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prices response: %w", err)
	}

	bars := make([]entity.PriceBar, 0, len(resp.Prices))
	for _, p := range resp.Prices {
		t, err := time.Parse(time.RFC3339, p.Time)
		if err != nil {
			if t, err = time.Parse("2006-01-02", p.Time); err != nil {
				r.log.Debug("Skipping price row with unparseable time", logger.StringField("time", p.Time))
				continue
			}
		}
		bars = append(bars, entity.PriceBar{
			Time:   t,
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	return bars, nil
}

func (r *finDataRepository) sendRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := r.cfg.FinData.BaseURL + endpoint + "?" + params.Encode()
	r.log.DebugContext(ctx, "Requesting market data", logger.StringField("endpoint", endpoint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("X-API-KEY", r.cfg.FinData.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to Financial Datasets API", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("failed to send request to Financial Datasets API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		r.log.Error("Financial Datasets API authentication failed, check the API key", logger.StringField("endpoint", endpoint))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Received non-OK response from Financial Datasets API", logger.IntField("status_code", resp.StatusCode), logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("received non-OK response from Financial Datasets API: %d - %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
