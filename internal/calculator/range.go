package calculator

import (
	"errors"
	"math"

	"SessionChart/internal/model"
)

// PriceExtent scans all bars and returns the lowest low and the highest high.
func PriceExtent(bars []model.Bar) (low, high float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return low, high, nil
}

// MaxVolume returns the largest volume across bars, 0 for an empty slice.
func MaxVolume(bars []model.Bar) float64 {
	max := 0.0
	for _, b := range bars {
		if b.Volume > max {
			max = b.Volume
		}
	}
	return max
}

// ChangePercent returns (to-from)/from*100. A zero base yields an error.
func ChangePercent(from, to float64) (float64, error) {
	if from == 0 {
		return 0, errors.New("base price is zero")
	}
	return (to - from) / from * 100, nil
}
