package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SessionChart/internal/chart"
	"SessionChart/internal/model"
)

var est = time.FixedZone("EST", -5*3600)

func testClock(t *testing.T) chart.Clock {
	t.Helper()
	cal := chart.DefaultCalendar()
	cal.Timezone = ""
	clk, err := cal.Clock()
	require.NoError(t, err)
	return clk
}

// flatSession returns n 5-minute bars from 09:30 with O=C=price and a one
// point range.
func flatSession(day, n int, price float64) []model.Bar {
	start := time.Date(2024, 2, day, 9, 30, 0, 0, est)
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Time: start.Add(time.Duration(i) * 5 * time.Minute),
			Open: price, High: price + 0.5, Low: price - 0.5, Close: price, Volume: 1000,
		}
	}
	return bars
}

func TestComputeIntraday(t *testing.T) {
	mon := flatSession(12, 13, 100)
	mon[2].High = 105
	mon[5].High = 105 // ties keep the earlier bar
	mon[10].Low = 95

	tue := flatSession(13, 13, 102)
	tue[12].Low = 99

	short := flatSession(14, 5, 50)

	thu := flatSession(15, 13, 101)
	thu[4].High, thu[4].Low = 110, 90

	var bars []model.Bar
	for _, s := range [][]model.Bar{mon, tue, short, thu} {
		bars = append(bars, s...)
	}

	s := ComputeIntraday("QQQ", bars, testClock(t), 10)
	require.NotNil(t, s)
	assert.Equal(t, "QQQ", s.Ticker)
	assert.Equal(t, 3, s.Sessions, "the short session is skipped")
	assert.Equal(t, "2024-02-12", s.From)
	assert.Equal(t, "2024-02-15", s.To)

	assert.Equal(t, model.SequenceStats{HighFirst: 2, LowFirst: 0, SameBar: 1}, s.Sequence)

	require.Len(t, s.High.Buckets, 5)
	assert.Equal(t, "morning", s.High.Buckets[0].Label)
	assert.Equal(t, 3, s.High.Buckets[0].Days)
	assert.Equal(t, 1.0, s.High.Buckets[0].Share)
	assert.Equal(t, 2, s.Low.Buckets[0].Days)
	assert.Equal(t, 1, s.Low.Buckets[1].Days)
	assert.Zero(t, s.Low.Buckets[4].Days)

	assert.Equal(t, []model.BarCount{
		{Bar: 1, Time: "09:30", Days: 1, Share: 1.0 / 3},
		{Bar: 3, Time: "09:40", Days: 1, Share: 1.0 / 3},
		{Bar: 5, Time: "09:50", Days: 1, Share: 1.0 / 3},
	}, s.High.Top)
	require.Len(t, s.Low.Top, 3)
	assert.Equal(t, 5, s.Low.Top[0].Bar)
	assert.Equal(t, "10:30", s.Low.Top[2].Time)

	// gaps are measured against the previous analysed session, not the short one
	down := (101.0 - 102.0) / 102.0 * 100
	assert.Equal(t, 2, s.Gaps.Days)
	assert.InDelta(t, (2+down)/2, s.Gaps.MeanPct, 1e-9)
	assert.InDelta(t, (2+down)/2, s.Gaps.MedianPct, 1e-9)
	assert.Equal(t, 0.5, s.Gaps.UpShare)
	assert.Equal(t, 0.5, s.Gaps.DownShare)
	assert.Equal(t, 0.5, s.Gaps.LargeUpShare)
	assert.Equal(t, 0.5, s.Gaps.LargeDownShare)

	assert.Equal(t, 3, s.CloseLocation.Days)
	assert.InDelta(t, (0.5+3.0/3.5+0.55)/3, s.CloseLocation.Mean, 1e-9)
	assert.InDelta(t, 0.55, s.CloseLocation.Median, 1e-9)
	assert.InDelta(t, 1.0/3, s.CloseLocation.UpperShare, 1e-9)
	assert.InDelta(t, 2.0/3, s.CloseLocation.MiddleShare, 1e-9)
	assert.Zero(t, s.CloseLocation.LowerShare)

	assert.Equal(t, 3, s.FirstHour.Days)
	assert.InDelta(t, 31.0/3, s.FirstHour.AvgRange, 1e-9)
	assert.InDelta(t, 5.5/3, s.FirstHour.AvgRestRange, 1e-9)
	assert.InDelta(t, (1+1/3.5+1)/3, s.FirstHour.AvgShare, 1e-9)
	assert.InDelta(t, 2.0/3, s.FirstHour.DominantShare, 1e-9)
}

func TestComputeIntraday_TopBarsCapped(t *testing.T) {
	var bars []model.Bar
	for d := 1; d <= 12; d++ {
		s := flatSession(d, 13, 100)
		s[d].High = 101 // high on bar d+1
		bars = append(bars, s...)
	}
	s := ComputeIntraday("QQQ", bars, testClock(t), 10)
	require.NotNil(t, s)
	require.Len(t, s.High.Top, 10)
	assert.Equal(t, 2, s.High.Top[0].Bar)
	assert.Equal(t, 11, s.High.Top[9].Bar)
}

func TestComputeIntraday_SessionWithoutRestOfDay(t *testing.T) {
	s := ComputeIntraday("QQQ", flatSession(12, 12, 100), testClock(t), 10)
	require.NotNil(t, s)
	assert.Zero(t, s.FirstHour.Days, "a session that ends within its first hour has no rest of day")
	assert.Equal(t, 1, s.CloseLocation.Days)
	assert.Zero(t, s.Gaps.Days)
}

func TestComputeIntraday_NothingQualifies(t *testing.T) {
	clk := testClock(t)
	assert.Nil(t, ComputeIntraday("QQQ", nil, clk, 10))
	assert.Nil(t, ComputeIntraday("QQQ", flatSession(12, 5, 100), clk, 10))
}
