package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"SessionChart/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	DailyData    []model.Bar
	IntradayData []model.Bar
	DailyErr     error
	IntradayErr  error
	// Location of generated intraday bars; nil means UTC.
	Location *time.Location
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string) ([]model.Bar, error) {
	if m.DailyErr != nil {
		return nil, m.DailyErr
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return AggregateSessions(generateMockSessions(m.Price, 30, m.Location)), nil
}

func (m *MockFetcher) FetchIntradayBars(_ context.Context, _ string, days int) ([]model.Bar, error) {
	if m.IntradayErr != nil {
		return nil, m.IntradayErr
	}
	if m.IntradayData != nil {
		return m.IntradayData, nil
	}
	return generateMockSessions(m.Price, days, m.Location), nil
}

// generateMockSessions builds days weekday sessions of 78 five-minute bars
// ending on 2024-03-01.
func generateMockSessions(basePrice float64, days int, loc *time.Location) []model.Bar {
	if loc == nil {
		loc = time.UTC
	}
	var dates []time.Time
	for d := time.Date(2024, 3, 1, 9, 30, 0, 0, loc); len(dates) < days; d = d.AddDate(0, 0, -1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append([]time.Time{d}, dates...)
		}
	}
	bars := make([]model.Bar, 0, days*78)
	for n, start := range dates {
		for i := 0; i < 78; i++ {
			p := basePrice * (1 + float64(n-days/2)*0.002 + float64(i%13-6)*0.0004)
			bars = append(bars, model.Bar{
				Time:   start.Add(time.Duration(i) * 5 * time.Minute),
				Open:   p * 0.9995,
				High:   p * 1.001,
				Low:    p * 0.999,
				Close:  p,
				Volume: float64(100000 + 1000*(i%7)),
			})
		}
	}
	return bars
}

// Collector fetches both bar series of a symbol.
type Collector struct {
	Fetcher      Fetcher
	IntradayDays int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, intradayDays int) *Collector {
	return &Collector{Fetcher: fetcher, IntradayDays: intradayDays}
}

// Collect fetches daily and intraday bars. A failed series is logged and left
// empty; daily bars fall back to aggregated intraday sessions. Only when both
// fetches fail is an error returned.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	series := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}

	intraday, intradayErr := c.Fetcher.FetchIntradayBars(ctx, symbol, c.IntradayDays)
	if intradayErr != nil {
		slog.Warn("intraday fetch failed", "symbol", symbol, "source", c.Fetcher.Name(), "err", intradayErr)
	} else if len(intraday) == 0 {
		slog.Warn("no intraday data", "symbol", symbol)
	}
	series.IntradayBars = intraday

	daily, dailyErr := c.Fetcher.FetchDailyBars(ctx, symbol)
	switch {
	case dailyErr != nil && len(intraday) > 0:
		slog.Warn("daily fetch failed, aggregating intraday sessions", "symbol", symbol, "err", dailyErr)
		daily = AggregateSessions(intraday)
	case dailyErr != nil:
		slog.Warn("daily fetch failed", "symbol", symbol, "err", dailyErr)
	}
	series.DailyBars = daily

	if intradayErr != nil && dailyErr != nil {
		return nil, fmt.Errorf("collect %s: %w", symbol, errors.Join(intradayErr, dailyErr))
	}
	return series, nil
}
