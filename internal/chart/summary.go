package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"SessionChart/internal/calculator"
	"SessionChart/internal/model"
)

// Summary describes the last session of a chart.
type Summary struct {
	Date      time.Time
	FirstOpen float64
	LastClose float64
	// Change is the session move in percent.
	Change float64
	Bars   int
}

// Summarize computes the move of the last session in bars, from its first open
// to its last close.
func Summarize(bars []model.Bar, clk Clock) (Summary, error) {
	if len(bars) == 0 {
		return Summary{}, ErrEmptyInput
	}
	sessions := Sessions(bars, clk)
	last := sessions[len(sessions)-1]
	first, end := last[0], last[len(last)-1]

	change, err := calculator.ChangePercent(first.Open, end.Close)
	if err != nil {
		return Summary{}, &InvalidBarError{Index: len(bars) - len(last), Field: "open", Value: first.Open}
	}
	return Summary{
		Date:      clk.Local(end.Time),
		FirstOpen: first.Open,
		LastClose: end.Close,
		Change:    change,
		Bars:      len(last),
	}, nil
}

// DateString is the ISO date of the session.
func (s Summary) DateString() string { return s.Date.Format("2006-01-02") }

// Weekday is the three-letter English weekday of the session.
func (s Summary) Weekday() string { return s.Date.Weekday().String()[:3] }

// Percent is the change formatted like "+0,29%".
func (s Summary) Percent() string { return FormatPercent(s.Change) }

// Identifier is "{date};{weekday}:{percent}", the chart's name without extension.
func (s Summary) Identifier() string {
	return s.DateString() + ";" + s.Weekday() + ":" + s.Percent()
}

// Filename is the identifier with the .svg extension.
func (s Summary) Filename() string { return s.Identifier() + ".svg" }

// Up reports whether the session closed at or above its open.
func (s Summary) Up() bool { return s.Change >= 0 }

// Direction is the headline arrow.
func (s Summary) Direction() string {
	if s.Up() {
		return "▲"
	}
	return "▼"
}

// Headline is the text drawn in the top right corner, e.g. "▲ +0,29% (Tue)".
func (s Summary) Headline() string {
	return fmt.Sprintf("%s %s (%s)", s.Direction(), s.Percent(), s.Weekday())
}

// Record is the manifest row for the chart. Its change keeps a dot decimal.
func (s Summary) Record() model.ChartRecord {
	return model.ChartRecord{
		Filename: s.Filename(),
		Date:     s.DateString(),
		Weekday:  s.Weekday(),
		Change:   fmt.Sprintf("%s%.2f%%", sign(s.Change), math.Abs(s.Change)),
	}
}

// FormatPercent renders pct with an explicit sign, two decimals and a decimal
// comma. The sign is taken once from pct so the result never reads "+-".
func FormatPercent(pct float64) string {
	magnitude := strings.Replace(fmt.Sprintf("%.2f", math.Abs(pct)), ".", ",", 1)
	return sign(pct) + magnitude + "%"
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}
