package dto

// FredObservationsResponse is the FRED series/observations payload.
type FredObservationsResponse struct {
	Observations []FredObservation `json:"observations"`
}

// FredObservation is one dated value in a FRED series. Value is a string in
// the wire format; missing observations are encoded as ".".
type FredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// IndicatorPoint is one parsed observation usable for analysis.
type IndicatorPoint struct {
	Date  string
	Value float64
}
