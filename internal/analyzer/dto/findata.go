package dto

import "golang-invest-reporter/internal/entity"

// SnapshotResponse is the Financial Datasets /prices/snapshot payload.
type SnapshotResponse struct {
	Snapshot entity.Snapshot `json:"snapshot"`
}

// NewsResponse is the Financial Datasets /news payload.
type NewsResponse struct {
	News []NewsItem `json:"news"`
}

// NewsItem is one raw news item as returned by the API.
type NewsItem struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	URL           string `json:"url"`
	Source        string `json:"source"`
}

// PricesResponse is the Financial Datasets /prices payload.
type PricesResponse struct {
	Prices []PriceRow `json:"prices"`
}

// PriceRow is one raw historical price row.
type PriceRow struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
