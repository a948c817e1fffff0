// Package stats computes return statistics from daily bars and session-shape
// statistics from intraday bars.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"SessionChart/internal/calculator"
	"SessionChart/internal/model"
)

type dayReturn struct {
	date      time.Time
	intraday  float64
	overnight float64
}

// closeReturn is a close-to-close return dated on the later day.
type closeReturn struct {
	date time.Time
	ret  float64
}

// Compute derives the statistics document for ticker. It returns nil when
// fewer than two usable days are available.
func Compute(ticker string, daily []model.Bar) *model.DailyStats {
	bars := make([]model.Bar, len(daily))
	copy(bars, daily)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	var days []dayReturn
	var totals []closeReturn
	for i := 0; i+1 < len(bars); i++ {
		b, next := bars[i], bars[i+1]
		if b.Close != 0 {
			if r := (next.Close - b.Close) / b.Close; finite(r) {
				totals = append(totals, closeReturn{date: next.Time, ret: r})
			}
		}
		if b.Open == 0 || b.Close == 0 {
			continue
		}
		r := dayReturn{
			date:      b.Time,
			intraday:  (b.Close - b.Open) / b.Open,
			overnight: (next.Open - b.Close) / b.Close,
		}
		if !finite(r.intraday) || !finite(r.overnight) {
			continue
		}
		days = append(days, r)
	}
	if len(days) == 0 {
		return nil
	}

	first, last := bars[0].Time, bars[len(bars)-1].Time
	years := last.Sub(first).Hours() / 24 / 365.25
	annual := func(s model.StrategyStats) model.StrategyStats {
		s.AnnualizedReturn = calculator.Annualize(s.TotalReturn, years)
		return s
	}

	out := &model.DailyStats{
		Ticker: ticker,
		From:   first.Format("2006-01-02"),
		To:     last.Format("2006-01-02"),
		Years:  years,
		Strategies: model.Strategies{
			Intraday:   annual(strategy(intradayOf(days))),
			Overnight:  annual(strategy(overnightOf(days))),
			BuyAndHold: annual(strategy(returnsOf(totals))),
		},
		DayOfWeek: []model.WeekdayStats{},
		Monthly:   []model.MonthlyStats{},
		Days:      len(days),
	}

	byWeekday := map[time.Weekday][]dayReturn{}
	byMonth := map[time.Month][]dayReturn{}
	for _, d := range days {
		byWeekday[d.date.Weekday()] = append(byWeekday[d.date.Weekday()], d)
		byMonth[d.date.Month()] = append(byMonth[d.date.Month()], d)
	}
	totalByWeekday := map[time.Weekday][]float64{}
	totalByMonth := map[time.Month][]float64{}
	for _, t := range totals {
		totalByWeekday[t.date.Weekday()] = append(totalByWeekday[t.date.Weekday()], t.ret)
		totalByMonth[t.date.Month()] = append(totalByMonth[t.date.Month()], t.ret)
	}

	for wd := time.Monday; wd <= time.Friday; wd++ {
		group, ok := byWeekday[wd]
		if !ok {
			continue
		}
		intra := strategy(intradayOf(group))
		over := strategy(overnightOf(group))
		total := strategy(totalByWeekday[wd])
		out.DayOfWeek = append(out.DayOfWeek, model.WeekdayStats{
			Day:              wd.String(),
			IntradayAvg:      intra.AvgDailyReturn,
			OvernightAvg:     over.AvgDailyReturn,
			IntradayWinRate:  intra.WinRate,
			OvernightWinRate: over.WinRate,
			TotalAvg:         total.AvgDailyReturn,
			TotalWinRate:     total.WinRate,
			Volatility:       calculator.StdDev(totalByWeekday[wd]),
			Days:             len(group),
		})
	}
	for m := time.January; m <= time.December; m++ {
		group, ok := byMonth[m]
		if !ok {
			continue
		}
		total := strategy(totalByMonth[m])
		out.Monthly = append(out.Monthly, model.MonthlyStats{
			Month:        m.String(),
			IntradayAvg:  strategy(intradayOf(group)).AvgDailyReturn,
			OvernightAvg: strategy(overnightOf(group)).AvgDailyReturn,
			TotalAvg:     total.AvgDailyReturn,
			TotalWinRate: total.WinRate,
			Volatility:   calculator.StdDev(totalByMonth[m]),
			Days:         len(group),
		})
	}
	return out
}

func intradayOf(days []dayReturn) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.intraday
	}
	return out
}

func overnightOf(days []dayReturn) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.overnight
	}
	return out
}

func returnsOf(rs []closeReturn) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.ret
	}
	return out
}

// strategy compounds returns. An empty stream is all zeros.
func strategy(returns []float64) model.StrategyStats {
	if len(returns) == 0 {
		return model.StrategyStats{}
	}
	cum, wins := 1.0, 0
	for _, r := range returns {
		cum *= 1 + r
		if r > 0 {
			wins++
		}
	}
	return model.StrategyStats{
		TotalReturn:    cum - 1,
		AvgDailyReturn: calculator.Mean(returns),
		WinRate:        float64(wins) / float64(len(returns)),
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Write stores a statistics document as indented JSON.
func Write(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
