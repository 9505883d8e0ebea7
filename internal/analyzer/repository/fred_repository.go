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
	"golang-invest-reporter/pkg/logger"

	"golang.org/x/time/rate"
)

type fredRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFredRepository creates a repository for the FRED observations API.
func NewFredRepository(cfg *config.Config, log *logger.Logger) EconomicDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Fred.MaxRequestPerMinute)
	return &fredRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// Series fetches observations for one series between startDate and endDate
// (yyyy-mm-dd), oldest first. Missing values (".") are dropped.
func (r *fredRepository) Series(ctx context.Context, seriesID, startDate, endDate string) ([]dto.IndicatorPoint, error) {
	params := url.Values{
		"series_id": {seriesID},
		"api_key":   {r.cfg.Fred.APIKey},
		"file_type": {"json"},
	}
	if startDate != "" {
		params.Set("observation_start", startDate)
	}
	if endDate != "" {
		params.Set("observation_end", endDate)
	}

	body, err := r.sendRequest(ctx, "/series/observations", params)
	if err != nil {
		return nil, err
	}

	var resp dto.FredObservationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FRED response: %w", err)
	}

	points := make([]dto.IndicatorPoint, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		if obs.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			r.log.Debug("Skipping unparseable FRED observation",
				logger.StringField("series_id", seriesID), logger.StringField("value", obs.Value))
			continue
		}
		points = append(points, dto.IndicatorPoint{Date: obs.Date, Value: v})
	}
	return points, nil
}

// Latest fetches the most recent value for each series. Per-series failures
// are logged and skipped so a single bad series does not sink the batch.
func (r *fredRepository) Latest(ctx context.Context, seriesIDs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(seriesIDs))
	for _, id := range seriesIDs {
		points, err := r.Series(ctx, id, "", "")
		if err != nil {
			r.log.Error("Failed to fetch FRED series", logger.ErrorField(err), logger.StringField("series_id", id))
			continue
		}
		if len(points) == 0 {
			continue
		}
		values[id] = points[len(points)-1].Value
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no FRED data available for series %v", seriesIDs)
	}
	return values, nil
}

func (r *fredRepository) sendRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := r.cfg.Fred.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to FRED API", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("failed to send request to FRED API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Received non-OK response from FRED API", logger.IntField("status_code", resp.StatusCode), logger.StringField("endpoint", endpoint))
		return nil, fmt.Errorf("received non-OK response from FRED API: %d - %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
