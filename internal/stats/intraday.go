package stats

import (
	"sort"
	"time"

	"SessionChart/internal/calculator"
	"SessionChart/internal/chart"
	"SessionChart/internal/model"
)

// Bar-number ranges (1-based) that the session extremes are bucketed into.
// They follow the 78-bar regular session of 5-minute bars.
var extremeBuckets = []model.BucketCount{
	{Label: "morning", First: 1, Last: 12},
	{Label: "mid_morning", First: 13, Last: 24},
	{Label: "midday", First: 25, Last: 48},
	{Label: "afternoon", First: 49, Last: 66},
	{Label: "last_hour", First: 67, Last: 78},
}

const (
	topBars = 10
	// Gaps beyond this many percent count as large.
	largeGapPct = 0.5
)

// ComputeIntraday describes the shape of every session of bars with at least
// minBars bars: which bar set the high and the low, opening gaps against the
// previous analysed session, where the close sits in the range and how much of
// the range the first hour covers. It returns nil when no session qualifies.
func ComputeIntraday(ticker string, bars []model.Bar, clk chart.Clock, minBars int) *model.IntradayStats {
	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := &model.IntradayStats{Ticker: ticker}
	var highBars, lowBars []int
	barTimes := map[int]string{}
	var gaps, closeLocs, fhRanges, restRanges, fhShares []float64
	var prevClose float64
	havePrev := false

	for _, s := range chart.Sessions(sorted, clk) {
		if len(s) < minBars {
			continue
		}
		if out.Sessions == 0 {
			out.From = clk.Local(s[0].Time).Format("2006-01-02")
		}
		out.To = clk.Local(s[0].Time).Format("2006-01-02")
		out.Sessions++

		// First occurrence wins on equal extremes.
		hi, lo := 0, 0
		for i, b := range s {
			if b.High > s[hi].High {
				hi = i
			}
			if b.Low < s[lo].Low {
				lo = i
			}
			if _, ok := barTimes[i+1]; !ok {
				barTimes[i+1] = clk.Local(b.Time).Format("15:04")
			}
		}
		highBars = append(highBars, hi+1)
		lowBars = append(lowBars, lo+1)
		switch {
		case hi < lo:
			out.Sequence.HighFirst++
		case lo < hi:
			out.Sequence.LowFirst++
		default:
			out.Sequence.SameBar++
		}

		high, low := s[hi].High, s[lo].Low
		dayOpen, dayClose := s[0].Open, s[len(s)-1].Close
		if havePrev && prevClose > 0 {
			gaps = append(gaps, (dayOpen-prevClose)/prevClose*100)
		}
		prevClose, havePrev = dayClose, true

		dayRange := high - low
		if dayRange > 0 {
			closeLocs = append(closeLocs, (dayClose-low)/dayRange)
		}

		cut := firstHourEnd(s)
		if cut < len(s) {
			fhLow, fhHigh, _ := calculator.PriceExtent(s[:cut])
			restLow, restHigh, _ := calculator.PriceExtent(s[cut:])
			fh := fhHigh - fhLow
			share := 0.0
			if dayRange > 0 {
				share = fh / dayRange
			}
			fhRanges = append(fhRanges, fh)
			restRanges = append(restRanges, restHigh-restLow)
			fhShares = append(fhShares, share)
		}
	}
	if out.Sessions == 0 {
		return nil
	}

	out.High = extremes(highBars, barTimes)
	out.Low = extremes(lowBars, barTimes)
	out.Gaps = gapStats(gaps)
	out.CloseLocation = closeLocationStats(closeLocs)
	out.FirstHour = model.FirstHourStats{
		Days:          len(fhShares),
		AvgRange:      calculator.Mean(fhRanges),
		AvgRestRange:  calculator.Mean(restRanges),
		AvgShare:      calculator.Mean(fhShares),
		DominantShare: share(count(fhShares, func(v float64) bool { return v > 0.5 }), len(fhShares)),
	}
	return out
}

// firstHourEnd returns the index of the first bar that opens an hour or more
// after the session's first bar.
func firstHourEnd(s []model.Bar) int {
	end := s[0].Time.Add(time.Hour)
	for i, b := range s {
		if !b.Time.Before(end) {
			return i
		}
	}
	return len(s)
}

func extremes(bars []int, times map[int]string) model.ExtremeStats {
	total := len(bars)
	buckets := make([]model.BucketCount, len(extremeBuckets))
	copy(buckets, extremeBuckets)
	counts := map[int]int{}
	for _, n := range bars {
		counts[n]++
		for i := range buckets {
			if n >= buckets[i].First && n <= buckets[i].Last {
				buckets[i].Days++
			}
		}
	}
	for i := range buckets {
		buckets[i].Share = share(buckets[i].Days, total)
	}

	top := make([]model.BarCount, 0, len(counts))
	for n, c := range counts {
		top = append(top, model.BarCount{Bar: n, Time: times[n], Days: c, Share: share(c, total)})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Days != top[j].Days {
			return top[i].Days > top[j].Days
		}
		return top[i].Bar < top[j].Bar
	})
	if len(top) > topBars {
		top = top[:topBars]
	}
	return model.ExtremeStats{Buckets: buckets, Top: top}
}

func gapStats(gaps []float64) model.GapStats {
	n := len(gaps)
	return model.GapStats{
		Days:           n,
		MeanPct:        calculator.Mean(gaps),
		MedianPct:      calculator.Median(gaps),
		UpShare:        share(count(gaps, func(g float64) bool { return g > 0 }), n),
		DownShare:      share(count(gaps, func(g float64) bool { return g < 0 }), n),
		LargeUpShare:   share(count(gaps, func(g float64) bool { return g > largeGapPct }), n),
		LargeDownShare: share(count(gaps, func(g float64) bool { return g < -largeGapPct }), n),
	}
}

func closeLocationStats(locs []float64) model.CloseLocationStats {
	n := len(locs)
	return model.CloseLocationStats{
		Days:        n,
		Mean:        calculator.Mean(locs),
		Median:      calculator.Median(locs),
		UpperShare:  share(count(locs, func(v float64) bool { return v >= 0.75 }), n),
		MiddleShare: share(count(locs, func(v float64) bool { return v >= 0.25 && v < 0.75 }), n),
		LowerShare:  share(count(locs, func(v float64) bool { return v < 0.25 }), n),
	}
}

func count(values []float64, pred func(float64) bool) int {
	n := 0
	for _, v := range values {
		if pred(v) {
			n++
		}
	}
	return n
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
