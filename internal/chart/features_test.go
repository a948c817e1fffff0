package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SessionChart/internal/model"
)

func TestSessions(t *testing.T) {
	clk := testClock(t)
	bars := append(session(day(2024, 2, 12), 4, 100, 0.1), session(day(2024, 2, 13), 3, 101, 0.1)...)
	bars = append(bars, session(day(2024, 2, 14), 5, 102, 0.1)...)

	sessions := Sessions(bars, clk)
	require.Len(t, sessions, 3)
	assert.Len(t, sessions[0], 4)
	assert.Len(t, sessions[1], 3)
	assert.Len(t, sessions[2], 5)
	assert.Empty(t, Sessions(nil, clk))
}

func TestSameSession_UsesCalendarZone(t *testing.T) {
	a := time.Date(2024, 2, 13, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 14, 1, 0, 0, 0, time.UTC)

	assert.False(t, Clock{}.SameSession(a, b))
	assert.True(t, Clock{Location: est}.SameSession(a, b))
}

func TestDetectGaps(t *testing.T) {
	clk := testClock(t)
	first := session(day(2024, 2, 12), 3, 100, 0.1) // closes at 100.3
	second := session(day(2024, 2, 13), 3, 99, 0.1) // closes at 99.3
	third := session(day(2024, 2, 14), 3, 100, 0.1)
	bars := append(append(first, second...), third...)

	gaps := DetectGaps(bars, clk)
	require.Len(t, gaps, 2)
	assert.Equal(t, Gap{Index: 3, PrevClose: bars[2].Close, Open: 99, Up: false}, gaps[0])
	assert.Equal(t, 6, gaps[1].Index)
	assert.True(t, gaps[1].Up)

	assert.Empty(t, DetectGaps(first, clk), "a single session has no gaps")
}

func TestDetectGaps_TieIsDown(t *testing.T) {
	clk := testClock(t)
	bars := []model.Bar{
		{Time: time.Date(2024, 2, 12, 15, 55, 0, 0, est), Open: 99, High: 101, Low: 98, Close: 100},
		{Time: time.Date(2024, 2, 13, 9, 30, 0, 0, est), Open: 100, High: 101, Low: 99, Close: 100.5},
	}
	gaps := DetectGaps(bars, clk)
	require.Len(t, gaps, 1)
	assert.False(t, gaps[0].Up)
}

func TestTrendOverlay_PointCount(t *testing.T) {
	for _, n := range []int{1, 19, 20, 21, 78, 156} {
		bars := session(day(2024, 2, 13), n, 100, 0.01)
		points := TrendOverlay(bars, 20)
		want := 0
		if n >= 20 {
			want = n - 19
		}
		require.Len(t, points, want, "n=%d", n)
		if want > 0 {
			assert.Equal(t, 19, points[0].Index)
			assert.Equal(t, n-1, points[len(points)-1].Index)
		}
	}
}

func TestTrendOverlay_SeededWithSMA(t *testing.T) {
	bars := session(day(2024, 2, 13), 20, 100, 1)
	points := TrendOverlay(bars, 20)
	require.Len(t, points, 1)
	// closes are 101..120
	assert.InDelta(t, 110.5, points[0].Value, 1e-9)
}

func TestTimeMarkers(t *testing.T) {
	clk := testClock(t)
	bars := session(day(2024, 2, 13), 78, 100, 0.01)

	markers := TimeMarkers(bars, clk)
	var ticks, closes []int
	for _, m := range markers {
		switch m.Kind {
		case MarkerTick:
			ticks = append(ticks, m.Index)
		case MarkerClose:
			closes = append(closes, m.Index)
		}
	}
	assert.Len(t, ticks, 13)
	assert.Equal(t, 0, ticks[0])
	assert.Equal(t, 6, ticks[1])
	assert.Equal(t, []int{77}, closes)
}

func TestTimeMarkers_ConfigurableInterval(t *testing.T) {
	cal := testCalendar()
	cal.TickIntervalMinutes = 60
	cal.SessionClose = "10:00"
	clk, err := cal.Clock()
	require.NoError(t, err)

	bars := session(day(2024, 2, 13), 12, 100, 0.01) // 09:30 .. 10:25
	markers := TimeMarkers(bars, clk)
	assert.Equal(t, []Marker{{Index: 6, Kind: MarkerTick}, {Index: 6, Kind: MarkerClose}}, markers)
}

func TestAxisTicks(t *testing.T) {
	clk := testClock(t)
	bars := session(day(2024, 2, 13), 13, 100, 0.01)

	ticks := AxisTicks(bars, 6, clk)
	assert.Equal(t, []Tick{{0, "09:30"}, {6, "10:00"}, {12, "10:30"}}, ticks)
	assert.Nil(t, AxisTicks(bars, 0, clk))
}

func TestAxisTicks_ConvertsToCalendarZone(t *testing.T) {
	bars := []model.Bar{{Time: time.Date(2024, 2, 13, 14, 30, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1}}
	ticks := AxisTicks(bars, 6, Clock{Location: est, TickMinutes: 30})
	assert.Equal(t, "09:30", ticks[0].Label)
}
