package dto

// YahooChartResponse is the Yahoo Finance v8 chart payload.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

// YahooChart wraps the chart results and the API-level error object.
type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooAPIError     `json:"error"`
}

// YahooAPIError is the error object Yahoo returns alongside an HTTP 200.
type YahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooChartResult is one symbol's chart data.
type YahooChartResult struct {
	Meta       YahooMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

// YahooMeta carries the quote-level fields of a chart result.
type YahooMeta struct {
	Symbol              string  `json:"symbol"`
	RegularMarketPrice  float64 `json:"regularMarketPrice"`
	ChartPreviousClose  float64 `json:"chartPreviousClose"`
	RegularMarketVolume int64   `json:"regularMarketVolume"`
	FiftyTwoWeekHigh    float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow     float64 `json:"fiftyTwoWeekLow"`
	RegularMarketTime   int64   `json:"regularMarketTime"`
}

// YahooIndicators holds the per-bar value arrays.
type YahooIndicators struct {
	Quote []YahooQuote `json:"quote"`
}

// YahooQuote is one set of OHLCV arrays, index-aligned with Timestamp.
// Entries are pointers because Yahoo emits null for missing bars.
type YahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
