package saver

import (
	"time"

	"github.com/parquet-go/parquet-go"

	"SessionChart/internal/model"
)

// parquetBar is the on-disk row. Parquet has no zoned timestamp, so the UTC
// offset travels in its own column.
type parquetBar struct {
	Timestamp int64   `parquet:"t"`
	Offset    int32   `parquet:"offset"`
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    float64 `parquet:"v"`
}

// ParquetSaver writes a single row group parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []model.Bar, path string) error {
	rows := make([]parquetBar, len(bars))
	for i, b := range bars {
		_, offset := b.Time.Zone()
		rows[i] = parquetBar{
			Timestamp: b.Time.UnixMilli(),
			Offset:    int32(offset),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return parquet.WriteFile(path, rows)
}

func loadParquet(path string) ([]model.Bar, error) {
	rows, err := parquet.ReadFile[parquetBar](path)
	if err != nil {
		return nil, err
	}
	bars := make([]model.Bar, len(rows))
	for i, r := range rows {
		bars[i] = model.Bar{
			Time:   time.UnixMilli(r.Timestamp).In(time.FixedZone("", int(r.Offset))),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return bars, nil
}
