package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RecommendationLine is one ticker row in a batch completion message.
type RecommendationLine struct {
	Ticker         string
	Action         string
	ExpectedReturn string
	Confidence     string
}

// FormatReportCompleteMessage builds the notification sent when a batch
// analysis finishes and the PDF has been written.
func FormatReportCompleteMessage(generatedAt time.Time, pdfPath string, lines []RecommendationLine) string {
	var b strings.Builder
	b.WriteString("*Investment Report Ready*\n")
	b.WriteString(fmt.Sprintf("_%s_\n\n", generatedAt.Format("2006-01-02 15:04:05")))
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("*%s*: %s (return %s, confidence %s)\n",
			l.Ticker, l.Action, l.ExpectedReturn, l.Confidence))
	}
	b.WriteString(fmt.Sprintf("\nReport: `%s`", pdfPath))
	return b.String()
}

// FormatThresholdAlertMessage builds the notification sent when an economic
// indicator crosses its configured threshold.
func FormatThresholdAlertMessage(indicator string, threshold, previous, latest float64) string {
	direction := "above"
	if latest < threshold {
		direction = "below"
	}
	return fmt.Sprintf("*Economic Alert*\nIndicator `%s` crossed %s its threshold %.2f\nPrevious: %.2f\nLatest: %.2f",
		indicator, direction, threshold, previous, latest)
}

// FormatErrorAlertMessage builds a generic failure notification.
func FormatErrorAlertMessage(at time.Time, detail string) string {
	return fmt.Sprintf("*Analysis Error*\n_%s_\n%s", at.Format("2006-01-02 15:04:05"), detail)
}
