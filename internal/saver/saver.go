// Package saver archives bar series as csv, json or parquet files.
package saver

import (
	"fmt"
	"path/filepath"
	"strings"

	"SessionChart/internal/model"
)

// BarSaver writes a whole bar series to one file.
type BarSaver interface {
	Save(bars []model.Bar, path string) error
	Extension() string
}

// NewBarSaver returns the saver for format (csv, json, parquet), or nil when
// the format is not supported.
func NewBarSaver(format string) BarSaver {
	switch normalize(format) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// Formats lists the supported archive formats.
func Formats() []string { return []string{"csv", "json", "parquet"} }

// Load reads an archive back, picking the decoder from the file extension.
func Load(path string) ([]model.Bar, error) {
	switch normalize(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "csv":
		return loadCSV(path)
	case "json":
		return loadJSON(path)
	case "parquet":
		return loadParquet(path)
	default:
		return nil, fmt.Errorf("saver: unsupported archive %q", path)
	}
}

func normalize(format string) string { return strings.ToLower(strings.TrimSpace(format)) }
