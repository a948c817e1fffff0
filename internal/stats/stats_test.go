package stats

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SessionChart/internal/model"
)

func daily(y int, m time.Month, d int, open, close float64) model.Bar {
	return model.Bar{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Open: open, High: open + 1, Low: close - 1, Close: close}
}

func TestCompute(t *testing.T) {
	bars := []model.Bar{
		daily(2024, 2, 13, 102, 103), // Tue, out of order on purpose
		daily(2024, 2, 12, 100, 101), // Mon
		daily(2024, 2, 14, 103, 103), // Wed, no next day
	}
	s := Compute("QQQ", bars)
	require.NotNil(t, s)
	assert.Equal(t, "QQQ", s.Ticker)
	assert.Equal(t, 2, s.Days)

	mon := struct{ intra, over float64 }{1.0 / 100, 1.0 / 101}
	tue := struct{ intra, over float64 }{1.0 / 102, 0}

	in := s.Strategies.Intraday
	assert.InDelta(t, (1+mon.intra)*(1+tue.intra)-1, in.TotalReturn, 1e-12)
	assert.InDelta(t, (mon.intra+tue.intra)/2, in.AvgDailyReturn, 1e-12)
	assert.Equal(t, 1.0, in.WinRate)

	ov := s.Strategies.Overnight
	assert.InDelta(t, mon.over, ov.TotalReturn, 1e-12)
	assert.Equal(t, 0.5, ov.WinRate, "a flat overnight does not count as a win")

	require.Len(t, s.DayOfWeek, 2)
	assert.Equal(t, "Monday", s.DayOfWeek[0].Day)
	assert.Equal(t, "Tuesday", s.DayOfWeek[1].Day)
	assert.InDelta(t, mon.over, s.DayOfWeek[0].OvernightAvg, 1e-12)
	assert.Equal(t, 0.0, s.DayOfWeek[1].OvernightWinRate)

	require.Len(t, s.Monthly, 1)
	assert.Equal(t, "February", s.Monthly[0].Month)
}

func TestCompute_BuyAndHoldAnnualizedVolatility(t *testing.T) {
	bars := []model.Bar{
		daily(2024, 2, 5, 100, 100),  // Mon
		daily(2024, 2, 12, 100, 110), // Mon, +10% close to close
		daily(2024, 2, 19, 110, 99),  // Mon, -10%
		daily(2024, 2, 20, 99, 99),   // Tue, flat
	}
	s := Compute("VUG", bars)
	require.NotNil(t, s)
	assert.Equal(t, "2024-02-05", s.From)
	assert.Equal(t, "2024-02-20", s.To)
	years := 15.0 / 365.25
	assert.InDelta(t, years, s.Years, 1e-12)

	bh := s.Strategies.BuyAndHold
	assert.InDelta(t, 1.1*0.9-1, bh.TotalReturn, 1e-12)
	assert.InDelta(t, math.Pow(1.1*0.9, 1/years)-1, bh.AnnualizedReturn, 1e-9)
	assert.InDelta(t, 1.0/3, bh.WinRate, 1e-12)

	in := s.Strategies.Intraday
	assert.InDelta(t, math.Pow(1+in.TotalReturn, 1/years)-1, in.AnnualizedReturn, 1e-9)

	require.Len(t, s.DayOfWeek, 1, "only days with an intraday/overnight pair are grouped")
	mon := s.DayOfWeek[0]
	assert.Equal(t, "Monday", mon.Day)
	assert.Equal(t, 3, mon.Days)
	assert.InDelta(t, 0, mon.TotalAvg, 1e-12)
	assert.Equal(t, 0.5, mon.TotalWinRate)
	assert.InDelta(t, math.Sqrt(0.02), mon.Volatility, 1e-12)

	require.Len(t, s.Monthly, 1)
	feb := s.Monthly[0]
	assert.Equal(t, 3, feb.Days)
	assert.InDelta(t, 0.1, feb.Volatility, 1e-12)
	assert.InDelta(t, 1.0/3, feb.TotalWinRate, 1e-12)
}

func TestCompute_NotEnoughData(t *testing.T) {
	assert.Nil(t, Compute("QQQ", nil))
	assert.Nil(t, Compute("QQQ", []model.Bar{daily(2024, 2, 12, 100, 101)}))
	assert.Nil(t, Compute("QQQ", []model.Bar{daily(2024, 2, 12, 0, 101), daily(2024, 2, 13, 1, 1)}))
}

func TestWrite(t *testing.T) {
	s := Compute("IVV", []model.Bar{daily(2024, 1, 2, 10, 11), daily(2024, 1, 3, 11, 10)})
	require.NotNil(t, s)

	path := filepath.Join(t.TempDir(), "stats_IVV.json")
	require.NoError(t, Write(path, s))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "IVV", doc["ticker"])
	assert.Contains(t, doc, "strategies")
	assert.Contains(t, doc, "day_of_week")
	assert.Contains(t, doc, "monthly")
	assert.Contains(t, doc["strategies"], "buy_and_hold")
}
