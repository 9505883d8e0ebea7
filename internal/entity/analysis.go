package entity

import "time"

// Stage identifies one position in the fixed agent pipeline.
type Stage string

const (
	StageStock       Stage = "StockAgent"
	StageMarket      Stage = "MarketAgent"
	StageMacro       Stage = "MacroAgent"
	StageNews        Stage = "NewsAgent"
	StageInvestment  Stage = "InvestmentAgent"
	StageAggregation Stage = "ReportAggregationAgent"
)

// TickerStages are the per-ticker stages in pipeline order. The aggregation
// stage runs once per batch, not per ticker.
var TickerStages = []Stage{StageStock, StageMarket, StageMacro, StageNews, StageInvestment}

// StageResult is the outcome of a single agent invocation. A failed stage
// carries both the error and the substituted output text so downstream
// stages and the renderer never see an empty result.
type StageResult struct {
	Stage      Stage
	Ticker     string
	Output     string
	Err        error
	OutputFile string
	FinishedAt time.Time
}

// Failed reports whether the stage's agent call failed and Output holds a
// substituted error string instead of real analysis.
func (r StageResult) Failed() bool {
	return r.Err != nil
}

// PriceBar is one bar of historical price data.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsItem is one headline, optionally enriched with article body text.
type NewsItem struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	Content       string `json:"content,omitempty"`
}

// Snapshot is a real-time price snapshot for a ticker.
type Snapshot struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	DayChange     float64 `json:"day_change"`
	DayChangePct  float64 `json:"day_change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	FiftyTwoHigh  float64 `json:"52_week_high"`
	FiftyTwoLow   float64 `json:"52_week_low"`
	SnapshotTaken string  `json:"time"`
}

// AnalysisContext carries everything known about one ticker while its
// pipeline runs. Built fresh per ticker, discarded after the report.
type AnalysisContext struct {
	Ticker     string
	Snapshot   *Snapshot
	News       []NewsItem
	History    []PriceBar
	Indicators map[string]float64

	Results []StageResult
}

// ResultFor returns the result of the given stage, if it has run.
func (c *AnalysisContext) ResultFor(stage Stage) (StageResult, bool) {
	for _, r := range c.Results {
		if r.Stage == stage {
			return r, true
		}
	}
	return StageResult{}, false
}

// OutputOf returns the output text of the given stage, or "" if it has not
// run yet.
func (c *AnalysisContext) OutputOf(stage Stage) string {
	r, ok := c.ResultFor(stage)
	if !ok {
		return ""
	}
	return r.Output
}
