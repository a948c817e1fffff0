package collector

import (
	"context"

	"SessionChart/internal/model"
)

// MaxIntradayDays is the longest 5-minute history the upstream serves.
const MaxIntradayDays = 60

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns the full daily history of symbol.
	FetchDailyBars(ctx context.Context, symbol string) ([]model.Bar, error)
	// FetchIntradayBars returns 5-minute regular-session bars for the last days.
	FetchIntradayBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}
