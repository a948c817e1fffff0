package chart

import (
	"math"

	"SessionChart/internal/calculator"
	"SessionChart/internal/model"
)

// Layout maps prices, volumes and bar indices to SVG coordinates.
//
// Price levels are integer bands: PriceMin = floor(min low)+1 and
// PriceMax = floor(max high)+1, widened to at least one unit so the price
// panel never collapses. The price axis gets one label per level, so its
// element count grows linearly with the price range, not with the bar count:
// a 5000-point session range emits about 5000 labels.
type Layout struct {
	Width     int
	Height    int
	Bars      int
	PriceMin  int
	PriceMax  int
	VolumeMax float64

	style Style
}

// NewLayout computes the chart geometry for bars.
func NewLayout(bars []model.Bar, style Style) (*Layout, error) {
	if len(bars) == 0 {
		return nil, ErrEmptyInput
	}
	if err := validateBars(bars); err != nil {
		return nil, err
	}
	low, high, err := calculator.PriceExtent(bars)
	if err != nil {
		return nil, err
	}

	priceMin := int(math.Floor(low)) + 1
	priceMax := int(math.Floor(high)) + 1
	if priceMax <= priceMin {
		priceMax = priceMin + 1
	}

	n := len(bars)
	return &Layout{
		Width:     n*style.BarSpacing + style.WidthPadding,
		Height:    style.PriceHeight + style.VolumeHeight + style.Margin*2,
		Bars:      n,
		PriceMin:  priceMin,
		PriceMax:  priceMax,
		VolumeMax: calculator.MaxVolume(bars),
		style:     style,
	}, nil
}

// X returns the horizontal centre of bar i.
func (l *Layout) X(i int) float64 {
	return float64(l.style.Margin + l.style.PlotInset + i*l.style.BarSpacing)
}

// PriceY maps a price into the price panel; higher prices get smaller y.
func (l *Layout) PriceY(p float64) float64 {
	span := float64(l.PriceMax - l.PriceMin)
	h := float64(l.style.PriceHeight)
	return float64(l.style.Margin) + h - (p-float64(l.PriceMin))/span*h
}

// VolumeY maps a volume into the volume panel; zero maximum volume maps
// everything onto the panel baseline.
func (l *Layout) VolumeY(v float64) float64 {
	s := l.style
	bottom := float64(s.Margin + s.PriceHeight + s.VolumeGap + s.VolumeHeight)
	if l.VolumeMax <= 0 {
		return bottom
	}
	return bottom - v/l.VolumeMax*float64(s.VolumeHeight)
}

// VolumeBase is the y where volume bars end.
func (l *Layout) VolumeBase() float64 {
	s := l.style
	return float64(s.Margin + s.PriceHeight + 2*s.VolumeGap + s.VolumeHeight)
}

// PriceLevels lists every integer price from PriceMin to PriceMax inclusive,
// PriceMax-PriceMin+1 entries however wide the range is.
func (l *Layout) PriceLevels() []int {
	levels := make([]int, 0, l.PriceMax-l.PriceMin+1)
	for p := l.PriceMin; p <= l.PriceMax; p++ {
		levels = append(levels, p)
	}
	return levels
}

func validateBars(bars []model.Bar) error {
	for i, b := range bars {
		fields := [...]struct {
			name string
			v    float64
		}{
			{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume},
		}
		for _, f := range fields {
			if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
				return &InvalidBarError{Index: i, Field: f.name, Value: f.v}
			}
		}
		if b.Volume < 0 {
			return &InvalidBarError{Index: i, Field: "volume", Value: b.Volume}
		}
	}
	return nil
}
