package model

// StrategyStats summarises one return stream.
type StrategyStats struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	AvgDailyReturn   float64 `json:"avg_daily_return"`
	WinRate          float64 `json:"win_rate"`
}

// Strategies holds the intraday (open to close), overnight (close to next open)
// and buy-and-hold (close to close) streams.
type Strategies struct {
	Intraday   StrategyStats `json:"intraday"`
	Overnight  StrategyStats `json:"overnight"`
	BuyAndHold StrategyStats `json:"buy_and_hold"`
}

// WeekdayStats aggregates returns by day of week. The Total* fields and
// Volatility describe close-to-close returns of that weekday.
type WeekdayStats struct {
	Day              string  `json:"day"`
	IntradayAvg      float64 `json:"intraday_avg"`
	OvernightAvg     float64 `json:"overnight_avg"`
	IntradayWinRate  float64 `json:"intraday_win_rate"`
	OvernightWinRate float64 `json:"overnight_win_rate"`
	TotalAvg         float64 `json:"total_avg"`
	TotalWinRate     float64 `json:"total_win_rate"`
	Volatility       float64 `json:"volatility"`
	Days             int     `json:"days"`
}

// MonthlyStats aggregates returns by calendar month.
type MonthlyStats struct {
	Month        string  `json:"month"`
	IntradayAvg  float64 `json:"intraday_avg"`
	OvernightAvg float64 `json:"overnight_avg"`
	TotalAvg     float64 `json:"total_avg"`
	TotalWinRate float64 `json:"total_win_rate"`
	Volatility   float64 `json:"volatility"`
	Days         int     `json:"days"`
}

// DailyStats is the per-ticker statistics document.
type DailyStats struct {
	Ticker     string         `json:"ticker"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Years      float64        `json:"years"`
	Strategies Strategies     `json:"strategies"`
	DayOfWeek  []WeekdayStats `json:"day_of_week"`
	Monthly    []MonthlyStats `json:"monthly"`
	Days       int            `json:"days"`
}

// BucketCount counts sessions whose extreme fell within bars First..Last
// (1-based).
type BucketCount struct {
	Label string  `json:"label"`
	First int     `json:"first_bar"`
	Last  int     `json:"last_bar"`
	Days  int     `json:"days"`
	Share float64 `json:"share"`
}

// BarCount counts sessions whose extreme fell on one bar number.
type BarCount struct {
	Bar   int     `json:"bar"`
	Time  string  `json:"time"`
	Days  int     `json:"days"`
	Share float64 `json:"share"`
}

// ExtremeStats is where in the session the high or the low was set.
type ExtremeStats struct {
	Buckets []BucketCount `json:"buckets"`
	Top     []BarCount    `json:"top"`
}

// SequenceStats counts which extreme came first.
type SequenceStats struct {
	HighFirst int `json:"high_first"`
	LowFirst  int `json:"low_first"`
	SameBar   int `json:"same_bar"`
}

// GapStats describes opening gaps in percent of the previous close.
type GapStats struct {
	Days           int     `json:"days"`
	MeanPct        float64 `json:"mean_pct"`
	MedianPct      float64 `json:"median_pct"`
	UpShare        float64 `json:"up_share"`
	DownShare      float64 `json:"down_share"`
	LargeUpShare   float64 `json:"large_up_share"`
	LargeDownShare float64 `json:"large_down_share"`
}

// CloseLocationStats describes where the close sits in the session range,
// 0 at the low and 1 at the high.
type CloseLocationStats struct {
	Days        int     `json:"days"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	UpperShare  float64 `json:"upper_share"`
	MiddleShare float64 `json:"middle_share"`
	LowerShare  float64 `json:"lower_share"`
}

// FirstHourStats compares the first hour's range with the whole session.
type FirstHourStats struct {
	Days          int     `json:"days"`
	AvgRange      float64 `json:"avg_range"`
	AvgRestRange  float64 `json:"avg_rest_range"`
	AvgShare      float64 `json:"avg_share"`
	DominantShare float64 `json:"dominant_share"`
}

// IntradayStats is the per-ticker session-shape document built from intraday
// bars.
type IntradayStats struct {
	Ticker        string             `json:"ticker"`
	From          string             `json:"from"`
	To            string             `json:"to"`
	Sessions      int                `json:"sessions"`
	High          ExtremeStats       `json:"high"`
	Low           ExtremeStats       `json:"low"`
	Sequence      SequenceStats      `json:"sequence"`
	Gaps          GapStats           `json:"gaps"`
	CloseLocation CloseLocationStats `json:"close_location"`
	FirstHour     FirstHourStats     `json:"first_hour"`
}
