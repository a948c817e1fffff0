package collector

import (
	"time"

	"SessionChart/internal/model"
)

// AggregateSessions converts intraday bars into one daily bar per calendar
// date, taking the date in each bar's own zone. Input must be time ordered.
func AggregateSessions(intraday []model.Bar) []model.Bar {
	if len(intraday) == 0 {
		return nil
	}
	var daily []model.Bar
	day := intraday[0]
	day.Time = midnight(day.Time)

	for _, b := range intraday[1:] {
		if !midnight(b.Time).Equal(day.Time) {
			daily = append(daily, day)
			day = b
			day.Time = midnight(b.Time)
			continue
		}
		if b.High > day.High {
			day.High = b.High
		}
		if b.Low < day.Low {
			day.Low = b.Low
		}
		day.Close = b.Close
		day.Volume += b.Volume
	}
	return append(daily, day)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
