package recorder

import "time"

// ChartEvent records one rendered session chart.
type ChartEvent struct {
	RunID     string
	Ticker    string
	Date      string
	Weekday   string
	ChangePct float64
	Bars      int
	Filename  string
	Bytes     int
}

// StatsEvent records a daily statistics snapshot.
type StatsEvent struct {
	RunID          string
	Ticker         string
	Days           int
	IntradayTotal  float64
	IntradayWin    float64
	OvernightTotal float64
	OvernightWin   float64
}

// RunEvent records a finished batch run.
type RunEvent struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Tickers    int
	Charts     int
	Failures   int
	Status     string // "OK", "PARTIAL" or "FAILED"
	Note       string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordChart(evt *ChartEvent) error
	RecordStats(evt *StatsEvent) error
	RecordRun(evt *RunEvent) error
	Close() error
}
