package model

import "time"

// Bar represents a single OHLCV candlestick bar.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Up reports whether the bar closed at or above its open.
func (b Bar) Up() bool { return b.Close >= b.Open }

// PriceSeries holds the raw bars fetched for one symbol.
type PriceSeries struct {
	Symbol       string
	DailyBars    []Bar
	IntradayBars []Bar
	FetchedAt    time.Time
}
