package report

import (
	"strings"

	"golang-invest-reporter/internal/entity"
)

// ExtractRecommendation pulls the labeled fields out of an InvestmentAgent
// output. Missing or malformed labels fall back to the defaults, so the
// function never fails and running it over its own defaults is a no-op.
func ExtractRecommendation(ticker, investmentText string) entity.Recommendation {
	rec := entity.DefaultRecommendation(ticker)

	if after, ok := splitAfter(investmentText, "RECOMMENDATION:"); ok {
		line := firstLine(after)
		switch {
		case strings.Contains(line, entity.ActionBuy):
			rec.Action = entity.ActionBuy
		case strings.Contains(line, entity.ActionSell):
			rec.Action = entity.ActionSell
		case strings.Contains(line, entity.ActionHold):
			rec.Action = entity.ActionHold
		}
	}

	if strings.Contains(investmentText, "EXPECTED") && strings.Contains(investmentText, "RETURN") {
		for _, line := range strings.Split(investmentText, "\n") {
			if strings.Contains(line, "EXPECTED") && strings.Contains(line, "RETURN") && strings.Contains(line, ":") {
				rec.ExpectedReturn = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
				break
			}
		}
	}

	if after, ok := splitAfter(investmentText, "CONFIDENCE:"); ok {
		line := firstLine(after)
		switch {
		case strings.Contains(line, entity.ConfidenceHigh):
			rec.Confidence = entity.ConfidenceHigh
		case strings.Contains(line, entity.ConfidenceMedium):
			rec.Confidence = entity.ConfidenceMedium
		case strings.Contains(line, entity.ConfidenceLow):
			rec.Confidence = entity.ConfidenceLow
		}
	}

	if after, ok := splitAfter(investmentText, "PRICE TARGET:"); ok {
		rec.PriceTarget = firstLine(after)
	}

	if strings.Contains(investmentText, "POSITION SIZE:") {
		for _, line := range strings.Split(investmentText, "\n") {
			if strings.Contains(line, "POSITION SIZE:") {
				rec.PositionSize = strings.TrimSpace(strings.SplitN(line, ":", 2)[1])
				break
			}
		}
	}

	return rec
}

func splitAfter(text, label string) (string, bool) {
	idx := strings.Index(text, label)
	if idx < 0 {
		return "", false
	}
	return text[idx+len(label):], true
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
