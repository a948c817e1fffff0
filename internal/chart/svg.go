package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"SessionChart/internal/model"
)

const (
	priceLabelPad     = 8
	priceLabelBase    = 4
	axisLabelLift     = 10
	tickStrokeWidth   = 0.5
	closeStrokeWidth  = 0.7
	closeMarkerOffset = 6
	closeMarkerTop    = 30
)

// Renderer turns bar sequences into SVG candlestick charts. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	style Style
	clock Clock
}

// NewRenderer validates style and calendar and returns a renderer.
func NewRenderer(style Style, cal Calendar) (*Renderer, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	clk, err := cal.Clock()
	if err != nil {
		return nil, err
	}
	return &Renderer{style: style, clock: clk}, nil
}

// Clock returns the resolved market calendar of the renderer.
func (r *Renderer) Clock() Clock { return r.clock }

// Chart is a rendered document together with what it was built from.
type Chart struct {
	Layout   *Layout
	Features Features
	Summary  Summary
	SVG      []byte
}

// Render builds the complete document in memory.
func (r *Renderer) Render(bars []model.Bar) (*Chart, error) {
	layout, err := NewLayout(bars, r.style)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(bars, r.clock)
	if err != nil {
		return nil, err
	}
	features := ExtractFeatures(bars, r.style, r.clock)

	e := emitter{style: r.style, layout: layout}
	e.open()
	e.priceLabels()
	e.candles(bars)
	e.volumes(bars)
	e.gaps(features.Gaps)
	e.trend(features.Trend)
	e.markers(features.Markers)
	e.axisLabels(features.Ticks)
	e.headline(summary)
	e.close()

	return &Chart{
		Layout:   layout,
		Features: features,
		Summary:  summary,
		SVG:      []byte(e.sb.String()),
	}, nil
}

// RenderFile renders bars and saves the document in dir under the name
// derived from the last session. It returns the chart and the written path.
func (r *Renderer) RenderFile(bars []model.Bar, dir string) (*Chart, string, error) {
	c, err := r.Render(bars)
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, c.Summary.Filename())
	if err := c.Save(path); err != nil {
		return nil, "", err
	}
	return c, path, nil
}

// WriteTo writes the document in a single call.
func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.SVG)
	if err != nil {
		return int64(n), &SerializationError{Err: err}
	}
	return int64(n), nil
}

// Save writes the document to path, replacing any existing file.
func (c *Chart) Save(path string) error {
	if err := os.WriteFile(path, c.SVG, 0o644); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}

type emitter struct {
	sb     strings.Builder
	style  Style
	layout *Layout
}

func (e *emitter) printf(format string, args ...any) {
	fmt.Fprintf(&e.sb, format, args...)
}

func (e *emitter) open() {
	e.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, e.layout.Width, e.layout.Height)
	e.printf(`<rect width="100%%" height="100%%" fill="%s"/>`, escapeXML(e.style.Palette.Background))
}

func (e *emitter) close() { e.sb.WriteString(`</svg>`) }

func (e *emitter) priceLabels() {
	x := e.style.Margin - priceLabelPad
	for _, p := range e.layout.PriceLevels() {
		y := e.layout.PriceY(float64(p)) + priceLabelBase
		e.printf(`<text x="%d" y="%s" text-anchor="end" font-size="%d" fill="%s">%d</text>`,
			x, num(y), e.style.FontSize, escapeXML(e.style.Palette.Text), p)
	}
}

func (e *emitter) candleColor(b model.Bar) string {
	if b.Up() {
		return escapeXML(e.style.Palette.Up)
	}
	return escapeXML(e.style.Palette.Down)
}

func (e *emitter) candles(bars []model.Bar) {
	s, l := e.style, e.layout
	for i, b := range bars {
		x := l.X(i)
		color := e.candleColor(b)
		e.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
			num(x), num(l.PriceY(b.High)), num(x), num(l.PriceY(b.Low)), color, num(s.WickWidth))

		yOpen, yClose := l.PriceY(b.Open), l.PriceY(b.Close)
		height := math.Abs(yOpen - yClose)
		if height < s.MinBodyHeight {
			height = s.MinBodyHeight
		}
		e.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			num(x-s.BodyWidth/2), num(math.Min(yOpen, yClose)), num(s.BodyWidth), num(height), color)
	}
}

func (e *emitter) volumes(bars []model.Bar) {
	s, l := e.style, e.layout
	base := l.VolumeBase()
	for i, b := range bars {
		top := l.VolumeY(b.Volume)
		e.printf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="%s"/>`,
			num(l.X(i)-s.VolumeWidth/2), num(top), num(s.VolumeWidth), num(base-top),
			e.candleColor(b), num(s.VolumeOpacity))
	}
}

// gaps draws one rectangle per session boundary, spanning from the last bar
// of the previous session to the first bar of the new one.
func (e *emitter) gaps(gaps []Gap) {
	s, l := e.style, e.layout
	for _, g := range gaps {
		yPrev, yOpen := l.PriceY(g.PrevClose), l.PriceY(g.Open)
		color := s.Palette.GapDown
		if g.Up {
			color = s.Palette.GapUp
		}
		e.printf(`<rect x="%s" y="%s" width="%d" height="%s" fill="%s" opacity="%s"/>`,
			num(l.X(g.Index-1)), num(math.Min(yPrev, yOpen)), s.BarSpacing, num(math.Abs(yPrev-yOpen)),
			escapeXML(color), num(s.GapOpacity))
	}
}

func (e *emitter) trend(points []TrendPoint) {
	if len(points) == 0 {
		return
	}
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = num(e.layout.X(p.Index)) + "," + num(e.layout.PriceY(p.Value))
	}
	e.printf(`<polyline points="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		strings.Join(coords, " "), escapeXML(e.style.Palette.Trend), num(e.style.TrendWidth))
}

func (e *emitter) markers(markers []Marker) {
	s, l := e.style, e.layout
	for _, m := range markers {
		x := l.X(m.Index)
		switch m.Kind {
		case MarkerTick:
			e.printf(`<line x1="%s" y1="%d" x2="%s" y2="%d" stroke="%s" stroke-width="%s" stroke-dasharray="4,4" opacity="%s"/>`,
				num(x), s.Margin, num(x), s.Margin*2+s.PriceHeight,
				escapeXML(s.Palette.TickMarker), num(tickStrokeWidth), num(s.MarkerOpacity))
		case MarkerClose:
			x += closeMarkerOffset
			e.printf(`<line x1="%s" y1="%d" x2="%s" y2="%d" stroke="%s" stroke-width="%s"/>`,
				num(x), closeMarkerTop, num(x), s.Margin*3+s.PriceHeight,
				escapeXML(s.Palette.CloseMarker), num(closeStrokeWidth))
		}
	}
}

func (e *emitter) axisLabels(ticks []Tick) {
	y := e.layout.Height - axisLabelLift
	for _, t := range ticks {
		e.printf(`<text x="%s" y="%d" text-anchor="middle" font-size="%d" fill="%s">%s</text>`,
			num(e.layout.X(t.Index)), y, e.style.FontSize, escapeXML(e.style.Palette.Text), escapeXML(t.Label))
	}
}

func (e *emitter) headline(s Summary) {
	color := e.style.Palette.Down
	if s.Up() {
		color = e.style.Palette.Up
	}
	e.printf(`<text x="%d" y="%d" text-anchor="end" font-size="%d" fill="%s" font-weight="bold">%s</text>`,
		e.layout.Width-e.style.Margin, e.style.Margin, e.style.HeadlineFontSize, escapeXML(color), escapeXML(s.Headline()))
}

// num prints v rounded to two decimals with no trailing zeros.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 { // drops negative zero
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }
