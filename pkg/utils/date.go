package utils

import "time"

const (
	// FileTimestampLayout is used in output artifact filenames.
	FileTimestampLayout = "20060102_150405"
	// DateLayout is the yyyy-mm-dd layout used by the market data APIs.
	DateLayout = "2006-01-02"
)

// FileTimestamp formats t for use in an output filename.
func FileTimestamp(t time.Time) string {
	return t.Format(FileTimestampLayout)
}

// DaysAgo returns the yyyy-mm-dd date n days before now.
func DaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(DateLayout)
}

// Today returns today's date as yyyy-mm-dd.
func Today() string {
	return time.Now().Format(DateLayout)
}
