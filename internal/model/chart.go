package model

// ChartRecord is one manifest line describing a rendered chart.
type ChartRecord struct {
	Filename string `json:"filename"`
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Change   string `json:"change"`
}

// Metadata is written once per batch run.
type Metadata struct {
	Tickers     []string `json:"tickers"`
	LastUpdated string   `json:"last_updated"`
}
