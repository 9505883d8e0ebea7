package entity

// Recommendation holds the fields extracted from an InvestmentAgent output.
// Extraction is best-effort label matching over free-form model text, so
// every field has a default used when the label is absent.
type Recommendation struct {
	Ticker         string
	Action         string // BUY, SELL or HOLD
	ExpectedReturn string
	Confidence     string // High, Medium or Low
	PriceTarget    string // empty when not stated
	PositionSize   string
}

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"

	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// DefaultRecommendation returns the placeholder values used when extraction
// finds nothing.
func DefaultRecommendation(ticker string) Recommendation {
	return Recommendation{
		Ticker:         ticker,
		Action:         ActionHold,
		ExpectedReturn: "10-15%",
		Confidence:     ConfidenceMedium,
		PriceTarget:    "",
		PositionSize:   "Medium",
	}
}
