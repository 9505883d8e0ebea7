package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYahooTestServer(t *testing.T, handler http.HandlerFunc) YahooFinanceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.YahooFinance.BaseURL = server.URL
	cfg.YahooFinance.MaxRequestPerMinute = 60000
	cfg.FinData.HistoryDays = 30

	return NewYahooFinanceRepository(cfg, logger.NewNop())
}

func TestYahooSnapshot(t *testing.T) {
	repo := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{
			"symbol":"AAPL",
			"regularMarketPrice":230.5,
			"chartPreviousClose":228.0,
			"regularMarketVolume":51000000,
			"fiftyTwoWeekHigh":240.1,
			"fiftyTwoWeekLow":160.2,
			"regularMarketTime":1787000000
		}}],"error":null}}`)
	})

	snapshot, err := repo.Snapshot(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", snapshot.Ticker)
	assert.Equal(t, 230.5, snapshot.Price)
	assert.InDelta(t, 2.5, snapshot.DayChange, 1e-9)
	assert.InDelta(t, 2.5/228.0*100, snapshot.DayChangePct, 1e-9)
	assert.Equal(t, int64(51000000), snapshot.Volume)
	assert.Equal(t, 240.1, snapshot.FiftyTwoHigh)
}

func TestYahooHistoricalSkipsNullBars(t *testing.T) {
	repo := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"symbol":"AAPL"},
			"timestamp":[1755993600,1756080000,1756166400],
			"indicators":{"quote":[{
				"open":[229.0,null,230.0],
				"high":[231.0,null,232.0],
				"low":[228.0,null,229.5],
				"close":[230.0,null,231.2],
				"volume":[48000000,null,52000000]
			}]}
		}],"error":null}}`)
	})

	bars, err := repo.Historical(context.Background(), "AAPL", "2026-07-26", "2026-08-26")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 230.0, bars[0].Close)
	assert.Equal(t, 231.2, bars[1].Close)
	assert.Equal(t, int64(52000000), bars[1].Volume)
}

func TestYahooAPIErrorPayload(t *testing.T) {
	repo := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := repo.Snapshot(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestYahooNonOKStatus(t *testing.T) {
	repo := newYahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := repo.Historical(context.Background(), "AAPL", "", "")
	assert.Error(t, err)
}
