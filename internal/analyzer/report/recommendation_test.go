package report

import (
	"testing"

	"golang-invest-reporter/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestExtractRecommendation(t *testing.T) {
	text := `# Investment Recommendation: AAPL

## RECOMMENDATION: BUY

## PRICE TARGET: $250 - $270

## EXPECTED 1-YEAR RETURN: 18-22%

## CONFIDENCE: High

## POSITION SIZE: Large relative to overall portfolio
`
	rec := ExtractRecommendation("AAPL", text)
	assert.Equal(t, entity.ActionBuy, rec.Action)
	assert.Equal(t, "$250 - $270", rec.PriceTarget)
	assert.Equal(t, "18-22%", rec.ExpectedReturn)
	assert.Equal(t, entity.ConfidenceHigh, rec.Confidence)
	assert.Equal(t, "Large relative to overall portfolio", rec.PositionSize)
}

func TestExtractRecommendationDefaults(t *testing.T) {
	rec := ExtractRecommendation("MSFT", "The model rambled about nothing in particular.")
	assert.Equal(t, entity.DefaultRecommendation("MSFT"), rec)
}

func TestExtractRecommendationEmptyInput(t *testing.T) {
	rec := ExtractRecommendation("XOM", "")
	assert.Equal(t, entity.DefaultRecommendation("XOM"), rec)
}

func TestExtractRecommendationVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.Recommendation
	}{
		{
			name: "sell with low confidence",
			text: "## RECOMMENDATION: SELL\n## CONFIDENCE: Low",
			want: entity.Recommendation{
				Ticker:         "T",
				Action:         entity.ActionSell,
				ExpectedReturn: "10-15%",
				Confidence:     entity.ConfidenceLow,
				PositionSize:   "Medium",
			},
		},
		{
			name: "suggested position size label",
			text: "## RECOMMENDATION: HOLD\n## SUGGESTED POSITION SIZE: Small",
			want: entity.Recommendation{
				Ticker:         "T",
				Action:         entity.ActionHold,
				ExpectedReturn: "10-15%",
				Confidence:     entity.ConfidenceMedium,
				PositionSize:   "Small",
			},
		},
		{
			name: "inline labels without markdown",
			text: "RECOMMENDATION: BUY immediately\nEXPECTED 1-YEAR RETURN: 30%\nCONFIDENCE: High conviction",
			want: entity.Recommendation{
				Ticker:         "T",
				Action:         entity.ActionBuy,
				ExpectedReturn: "30%",
				Confidence:     entity.ConfidenceHigh,
				PositionSize:   "Medium",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRecommendation("T", tt.text))
		})
	}
}

// Rendering the extracted defaults back into labeled text and extracting
// again must not change anything.
func TestExtractRecommendationIdempotentOverDefaults(t *testing.T) {
	first := ExtractRecommendation("AMZN", "")
	rendered := "## RECOMMENDATION: " + first.Action +
		"\n## EXPECTED 1-YEAR RETURN: " + first.ExpectedReturn +
		"\n## CONFIDENCE: " + first.Confidence +
		"\n## POSITION SIZE: " + first.PositionSize
	second := ExtractRecommendation("AMZN", rendered)
	assert.Equal(t, first, second)
}
