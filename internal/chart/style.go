package chart

import (
	"fmt"
	"time"
	_ "time/tzdata" // calendars name IANA zones; hosts may lack a tz database
)

// Palette holds every colour used by the emitter.
type Palette struct {
	Up          string `yaml:"up"`
	Down        string `yaml:"down"`
	GapUp       string `yaml:"gap_up"`
	GapDown     string `yaml:"gap_down"`
	Trend       string `yaml:"trend"`
	TickMarker  string `yaml:"tick_marker"`
	CloseMarker string `yaml:"close_marker"`
	Text        string `yaml:"text"`
	Background  string `yaml:"background"`
}

// Style is the geometry and look of a chart. It is passed by value, so two
// renderers with different styles never share state.
type Style struct {
	BarSpacing       int     `yaml:"bar_spacing"`
	BodyWidth        float64 `yaml:"body_width"`
	VolumeWidth      float64 `yaml:"volume_width"`
	WickWidth        float64 `yaml:"wick_width"`
	MinBodyHeight    float64 `yaml:"min_body_height"`
	Margin           int     `yaml:"margin"`
	PlotInset        int     `yaml:"plot_inset"`
	WidthPadding     int     `yaml:"width_padding"`
	PriceHeight      int     `yaml:"price_height"`
	VolumeHeight     int     `yaml:"volume_height"`
	VolumeGap        int     `yaml:"volume_gap"`
	FontSize         int     `yaml:"font_size"`
	HeadlineFontSize int     `yaml:"headline_font_size"`
	VolumeOpacity    float64 `yaml:"volume_opacity"`
	GapOpacity       float64 `yaml:"gap_opacity"`
	MarkerOpacity    float64 `yaml:"marker_opacity"`
	TrendWidth       float64 `yaml:"trend_width"`
	TrendWindow      int     `yaml:"trend_window"`
	LabelEvery       int     `yaml:"label_every"`
	Palette          Palette `yaml:"palette"`
}

// DefaultStyle returns the reference chart look: 12px per bar, an 800px price
// panel over a 150px volume panel, teal/red candles and a blue EMA20.
func DefaultStyle() Style {
	return Style{
		BarSpacing:       12,
		BodyWidth:        8,
		VolumeWidth:      10,
		WickWidth:        2,
		MinBodyHeight:    2,
		Margin:           50,
		PlotInset:        30,
		WidthPadding:     120,
		PriceHeight:      800,
		VolumeHeight:     150,
		VolumeGap:        10,
		FontSize:         20,
		HeadlineFontSize: 40,
		VolumeOpacity:    0.9,
		GapOpacity:       0.6,
		MarkerOpacity:    0.9,
		TrendWidth:       2,
		TrendWindow:      20,
		LabelEvery:       6,
		Palette: Palette{
			Up:          "#26a69a",
			Down:        "#ef5350",
			GapUp:       "#00ff00",
			GapDown:     "#ff2400",
			Trend:       "#0090ff",
			TickMarker:  "#666666",
			CloseMarker: "black",
			Text:        "black",
			Background:  "white",
		},
	}
}

// Validate checks that the style can produce a non-degenerate chart.
func (s Style) Validate() error {
	switch {
	case s.BarSpacing <= 0:
		return fmt.Errorf("style.bar_spacing must be positive")
	case s.PriceHeight <= 0:
		return fmt.Errorf("style.price_height must be positive")
	case s.VolumeHeight <= 0:
		return fmt.Errorf("style.volume_height must be positive")
	case s.Margin < 0 || s.PlotInset < 0 || s.WidthPadding < 0 || s.VolumeGap < 0:
		return fmt.Errorf("style margins must not be negative")
	case s.TrendWindow <= 0:
		return fmt.Errorf("style.trend_window must be positive")
	case s.LabelEvery <= 0:
		return fmt.Errorf("style.label_every must be positive")
	}
	return nil
}

// Calendar describes the trading hours of a market.
type Calendar struct {
	// Timezone is an IANA zone name. Empty means each bar's own zone.
	Timezone            string `yaml:"timezone"`
	TickIntervalMinutes int    `yaml:"tick_interval_minutes"`
	// SessionClose is the clock time ("15:04") of the last regular bar.
	SessionClose string `yaml:"session_close"`
	SessionBars  int    `yaml:"session_bars"`
}

// DefaultCalendar returns the US equities regular session: 5-minute bars from
// 09:30 to 15:55 New York time.
func DefaultCalendar() Calendar {
	return Calendar{
		Timezone:            "America/New_York",
		TickIntervalMinutes: 30,
		SessionClose:        "15:55",
		SessionBars:         78,
	}
}

// Clock is a Calendar with its zone and close time resolved.
type Clock struct {
	Location    *time.Location
	TickMinutes int
	CloseHour   int
	CloseMinute int
}

// Clock resolves the calendar.
func (c Calendar) Clock() (Clock, error) {
	var clk Clock
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return clk, fmt.Errorf("calendar timezone %q: %w", c.Timezone, err)
		}
		clk.Location = loc
	}
	if c.TickIntervalMinutes <= 0 {
		return clk, fmt.Errorf("calendar.tick_interval_minutes must be positive")
	}
	clk.TickMinutes = c.TickIntervalMinutes
	t, err := time.Parse("15:04", c.SessionClose)
	if err != nil {
		return clk, fmt.Errorf("calendar session_close %q: %w", c.SessionClose, err)
	}
	clk.CloseHour, clk.CloseMinute = t.Hour(), t.Minute()
	return clk, nil
}

// Validate reports whether the calendar resolves.
func (c Calendar) Validate() error {
	if c.SessionBars <= 0 {
		return fmt.Errorf("calendar.session_bars must be positive")
	}
	_, err := c.Clock()
	return err
}

// Local converts t into the clock's zone, or leaves it in its own zone.
func (c Clock) Local(t time.Time) time.Time {
	if c.Location == nil {
		return t
	}
	return t.In(c.Location)
}

// SameSession reports whether a and b fall on the same calendar date.
func (c Clock) SameSession(a, b time.Time) bool {
	ay, am, ad := c.Local(a).Date()
	by, bm, bd := c.Local(b).Date()
	return ay == by && am == bm && ad == bd
}
