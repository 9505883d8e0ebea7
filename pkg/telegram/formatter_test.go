package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatReportCompleteMessage(t *testing.T) {
	at := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	msg := FormatReportCompleteMessage(at, "outputs/reports/x.pdf", []RecommendationLine{
		{Ticker: "AAPL", Action: "BUY", ExpectedReturn: "12%", Confidence: "High"},
	})

	assert.Contains(t, msg, "Investment Report Ready")
	assert.Contains(t, msg, "*AAPL*: BUY (return 12%, confidence High)")
	assert.Contains(t, msg, "outputs/reports/x.pdf")
}

func TestFormatErrorAlertMessage(t *testing.T) {
	at := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	msg := FormatErrorAlertMessage(at, "failed to render pdf report: disk full")

	assert.Contains(t, msg, "Analysis Error")
	assert.Contains(t, msg, "2026-08-26 10:00:00")
	assert.Contains(t, msg, "disk full")
}

func TestFormatThresholdAlertMessage(t *testing.T) {
	msg := FormatThresholdAlertMessage("GDP", 22000, 21000, 23000)
	assert.Contains(t, msg, "crossed above")
	assert.Contains(t, msg, "22000.00")

	msg = FormatThresholdAlertMessage("UNRATE", 4, 4.5, 3.8)
	assert.Contains(t, msg, "crossed below")
}
