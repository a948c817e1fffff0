package chart

import (
	"SessionChart/internal/calculator"
	"SessionChart/internal/model"
)

// Gap is the price discontinuity at a session boundary.
type Gap struct {
	// Index is the first bar of the new session.
	Index     int
	PrevClose float64
	Open      float64
	// Up is true only when Open > PrevClose; an unchanged open counts as down.
	Up bool
}

// TrendPoint is one defined value of the EMA overlay.
type TrendPoint struct {
	Index int
	Value float64
}

// MarkerKind distinguishes the vertical time markers.
type MarkerKind int

const (
	// MarkerTick is the dotted line on every tick-interval boundary.
	MarkerTick MarkerKind = iota
	// MarkerClose is the solid line at the session-close bar.
	MarkerClose
)

// Marker is a vertical time marker at a bar.
type Marker struct {
	Index int
	Kind  MarkerKind
}

// Tick is an x-axis label.
type Tick struct {
	Index int
	Label string
}

// Features bundles everything derived from the bars besides the layout.
type Features struct {
	Gaps    []Gap
	Trend   []TrendPoint
	Markers []Marker
	Ticks   []Tick
}

// ExtractFeatures runs all extractors over bars.
func ExtractFeatures(bars []model.Bar, style Style, clk Clock) Features {
	return Features{
		Gaps:    DetectGaps(bars, clk),
		Trend:   TrendOverlay(bars, style.TrendWindow),
		Markers: TimeMarkers(bars, clk),
		Ticks:   AxisTicks(bars, style.LabelEvery, clk),
	}
}

// Sessions splits bars into contiguous runs sharing one calendar date.
func Sessions(bars []model.Bar, clk Clock) [][]model.Bar {
	var out [][]model.Bar
	start := 0
	for i := 1; i <= len(bars); i++ {
		if i == len(bars) || !clk.SameSession(bars[i-1].Time, bars[i].Time) {
			out = append(out, bars[start:i])
			start = i
		}
	}
	return out
}

// DetectGaps emits one gap per session boundary.
func DetectGaps(bars []model.Bar, clk Clock) []Gap {
	var gaps []Gap
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if clk.SameSession(prev.Time, cur.Time) {
			continue
		}
		gaps = append(gaps, Gap{
			Index:     i,
			PrevClose: prev.Close,
			Open:      cur.Open,
			Up:        cur.Open > prev.Close,
		})
	}
	return gaps
}

// TrendOverlay returns the EMA of closes for every bar where it is defined,
// i.e. from index window-1 on. Fewer than window bars yield no points.
func TrendOverlay(bars []model.Bar, window int) []TrendPoint {
	ema, err := calculator.CalculateCloseEMA(bars, window)
	if err != nil {
		return nil
	}
	points := make([]TrendPoint, 0, len(bars)-window+1)
	for i := window - 1; i < len(ema); i++ {
		points = append(points, TrendPoint{Index: i, Value: ema[i]})
	}
	return points
}

// TimeMarkers places a tick marker on every bar whose minute of day is a
// multiple of the tick interval, and a close marker on the session-close bar.
// A bar can carry both; the tick comes first.
func TimeMarkers(bars []model.Bar, clk Clock) []Marker {
	var markers []Marker
	for i, b := range bars {
		t := clk.Local(b.Time)
		if clk.TickMinutes > 0 && (t.Hour()*60+t.Minute())%clk.TickMinutes == 0 {
			markers = append(markers, Marker{Index: i, Kind: MarkerTick})
		}
		if t.Hour() == clk.CloseHour && t.Minute() == clk.CloseMinute {
			markers = append(markers, Marker{Index: i, Kind: MarkerClose})
		}
	}
	return markers
}

// AxisTicks labels every nth bar with its local time of day.
func AxisTicks(bars []model.Bar, every int, clk Clock) []Tick {
	if every <= 0 {
		return nil
	}
	ticks := make([]Tick, 0, len(bars)/every+1)
	for i := 0; i < len(bars); i += every {
		ticks = append(ticks, Tick{Index: i, Label: clk.Local(bars[i].Time).Format("15:04")})
	}
	return ticks
}
