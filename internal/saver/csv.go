package saver

import (
	"SessionChart/internal/barcsv"
	"SessionChart/internal/model"
)

// CSVSaver writes the same layout the chart renderer reads.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(bars []model.Bar, path string) error {
	return barcsv.WriteFile(path, bars)
}

func loadCSV(path string) ([]model.Bar, error) {
	return barcsv.ReadFile(path, barcsv.Options{})
}
