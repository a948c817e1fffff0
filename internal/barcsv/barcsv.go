// Package barcsv reads and writes OHLCV bars as CSV with the columns
// time, open, high, low, close, Volume.
package barcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"SessionChart/internal/model"
)

// Header is the column order written by Write.
var Header = []string{"time", "open", "high", "low", "close", "Volume"}

// TimeLayout is the timestamp format written by Write.
const TimeLayout = "2006-01-02 15:04:05-07:00"

var timeLayouts = []string{
	TimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ErrNoRows is returned for a file with a header but no bars.
var ErrNoRows = errors.New("barcsv: no data rows")

// ParseError locates a malformed cell.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("barcsv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("barcsv: line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options tune parsing.
type Options struct {
	// Location applies to timestamps without a zone. Nil means UTC.
	Location *time.Location
}

// ReadFile reads bars from a CSV file.
func ReadFile(path string, opts Options) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bars, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// Read parses a CSV stream. Header names are matched case-insensitively and
// extra columns are ignored. Rows must be in strictly ascending time order.
func Read(r io.Reader, opts Options) ([]model.Bar, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	head, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("barcsv: read header: %w", err)
	}
	cols, err := columnIndex(head)
	if err != nil {
		return nil, err
	}

	var bars []model.Bar
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("barcsv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		bar, err := parseRow(rec, cols, loc, line)
		if err != nil {
			return nil, err
		}
		if n := len(bars); n > 0 && !bar.Time.After(bars[n-1].Time) {
			return nil, &ParseError{Line: line, Column: "time", Err: fmt.Errorf("timestamp %s not after %s",
				bar.Time.Format(TimeLayout), bars[n-1].Time.Format(TimeLayout))}
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, ErrNoRows
	}
	return bars, nil
}

type columns struct {
	time, open, high, low, close, volume int
}

func columnIndex(head []string) (columns, error) {
	idx := map[string]int{}
	for i, h := range head {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, alias := range []string{"datetime", "date", "timestamp"} {
		if _, ok := idx["time"]; ok {
			break
		}
		if i, ok := idx[alias]; ok {
			idx["time"] = i
		}
	}
	var c columns
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"time", &c.time}, {"open", &c.open}, {"high", &c.high},
		{"low", &c.low}, {"close", &c.close}, {"volume", &c.volume},
	} {
		i, ok := idx[f.name]
		if !ok {
			return c, &ParseError{Line: 1, Column: f.name, Err: errors.New("missing column")}
		}
		*f.dst = i
	}
	return c, nil
}

func parseRow(rec []string, c columns, loc *time.Location, line int) (model.Bar, error) {
	var b model.Bar
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	t, err := ParseTime(cell(c.time), loc)
	if err != nil {
		return b, &ParseError{Line: line, Column: "time", Err: err}
	}
	b.Time = t

	for _, f := range []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"open", c.open, &b.Open}, {"high", c.high, &b.High}, {"low", c.low, &b.Low},
		{"close", c.close, &b.Close}, {"volume", c.volume, &b.Volume},
	} {
		v, err := strconv.ParseFloat(cell(f.idx), 64)
		if err != nil {
			return b, &ParseError{Line: line, Column: f.name, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return b, &ParseError{Line: line, Column: f.name, Err: fmt.Errorf("non-finite value %q", cell(f.idx))}
		}
		*f.dst = v
	}
	if b.Volume < 0 {
		return b, &ParseError{Line: line, Column: "volume", Err: fmt.Errorf("negative volume %v", b.Volume)}
	}
	return b, nil
}

// ParseTime accepts the timestamp formats found in exported bar files.
// Layouts without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// Write emits bars with Header and TimeLayout timestamps.
func Write(w io.Writer, bars []model.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, b := range bars {
		if err := cw.Write([]string{
			b.Time.Format(TimeLayout),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes bars to path, replacing any existing file.
func WriteFile(path string, bars []model.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
