package model

import "time"

// TickerResult is the outcome of one ticker in a batch run.
type TickerResult struct {
	Ticker   string
	Charts   int
	Skipped  int
	Failed   int
	Latest   *ChartRecord
	Stats    *DailyStats
	Intraday *IntradayStats
	Archives []string
	Err      string
}

// RunReport summarises a batch run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []TickerResult
}

// TotalCharts counts rendered charts across tickers.
func (r *RunReport) TotalCharts() int {
	n := 0
	for _, t := range r.Results {
		n += t.Charts
	}
	return n
}

// Failures counts tickers that errored plus charts that failed to render.
func (r *RunReport) Failures() int {
	n := 0
	for _, t := range r.Results {
		n += t.Failed
		if t.Err != "" {
			n++
		}
	}
	return n
}

// Status is "OK", "PARTIAL" when something failed but charts were produced,
// or "FAILED".
func (r *RunReport) Status() string {
	switch {
	case r.Failures() == 0:
		return "OK"
	case r.TotalCharts() > 0:
		return "PARTIAL"
	default:
		return "FAILED"
	}
}
