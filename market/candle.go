// Package market holds the price data types shared by the whole module.
package market

import "time"

// Candle represents one OHLCV bar. Bars are immutable once loaded and a
// series is expected to be time-ordered; nothing in this package fills gaps.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TypicalPrice is (H+L+C)/3, the price used for money-flow calculations.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Series is an ordered slice of candles.
type Series []Candle

// Sorted reports whether the series is in non-decreasing time order.
func (s Series) Sorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Time.Before(s[i-1].Time) {
			return false
		}
	}
	return true
}
