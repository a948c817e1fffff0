package calculator

import (
	"errors"
	"math"

	"SessionChart/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA returns the exponential moving average series aligned with prices.
// Entries before period-1 are NaN; entry period-1 is seeded with the SMA of the
// first period prices and later entries follow ema = alpha*p + (1-alpha)*prev
// with alpha = 2/(period+1).
func CalculateEMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, errors.New("not enough data for EMA calculation")
	}
	out := make([]float64, len(prices))
	for i := 0; i < period-1; i++ {
		out[i] = math.NaN()
	}
	seed, err := CalculateSMA(prices[:period], period)
	if err != nil {
		return nil, err
	}
	out[period-1] = seed

	alpha := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(prices); i++ {
		prev = alpha*prices[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out, nil
}

// CalculateCloseEMA returns the EMA of bar closes.
func CalculateCloseEMA(bars []model.Bar, period int) ([]float64, error) {
	return CalculateEMA(ExtractCloses(bars), period)
}

// ExtractCloses returns the close of every bar in order.
func ExtractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
