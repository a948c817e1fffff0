package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SessionChart/internal/model"
)

var est = time.FixedZone("EST", -5*60*60)

// testCalendar keeps each bar in its own zone so tests do not depend on tzdata.
func testCalendar() Calendar {
	c := DefaultCalendar()
	c.Timezone = ""
	return c
}

func testClock(t *testing.T) Clock {
	t.Helper()
	clk, err := testCalendar().Clock()
	require.NoError(t, err)
	return clk
}

// session builds n five-minute bars from 09:30 on day. Bar i opens at
// open+i*step and closes one step higher.
func session(day time.Time, n int, open, step float64) []model.Bar {
	start := time.Date(day.Year(), day.Month(), day.Day(), 9, 30, 0, 0, est)
	bars := make([]model.Bar, n)
	for i := range bars {
		o := open + float64(i)*step
		c := open + float64(i+1)*step
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   o,
			High:   math.Max(o, c) + 0.5,
			Low:    math.Min(o, c) - 0.5,
			Close:  c,
			Volume: float64(1000 + i),
		}
	}
	return bars
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, est)
}
