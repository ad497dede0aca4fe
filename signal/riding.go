package signal

import (
	"math"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/market"
)

// DefaultRidingLookback is the trailing window scanned for upper-band contact.
const DefaultRidingLookback = 5

const (
	ridingMinTouches  = 3
	ridingTouchPctB   = 0.8
	strongUpDayFrac   = 0.7
	strongVolumeRatio = 1.2
	strongMeanPctB    = 0.9
	trailingStopFrac  = 0.90
)

// Riding describes sustained upper-band contact over a trailing window. When
// IsRiding is set, mean-reversion sells are unreliable: a strong trend should
// be held with a trailing stop, a weaker one exited in tranches rather than
// all at once.
type Riding struct {
	IsRiding      bool
	TouchCount    int     // bars in the window with %B above ridingTouchPctB
	Strength      int     // 0..100, from the mean %B of touching bars
	IsStrongTrend bool
	TrailingStop  float64 // suggested stop for a strong trend, else 0
}

// DetectRiding scans the lookback window ending at bar i. Bars with undefined
// %B never count as touches. A lookback larger than the available history is
// truncated rather than being an error.
func DetectRiding(series market.Series, sets []indicators.Set, i, lookback int) Riding {
	if lookback <= 0 {
		lookback = DefaultRidingLookback
	}
	start := i - lookback + 1
	if start < 0 {
		start = 0
	}

	var r Riding
	var touchSum float64
	for j := start; j <= i; j++ {
		if sets[j].PctB.Valid && sets[j].PctB.F > ridingTouchPctB {
			r.TouchCount++
			touchSum += sets[j].PctB.F
		}
	}
	if r.TouchCount < ridingMinTouches {
		return r
	}

	r.IsRiding = true
	meanB := touchSum / float64(r.TouchCount)
	r.Strength = int(math.Round(clamp((meanB-ridingTouchPctB)*500, 0, 100)))

	// Up-day fraction over the window's close-to-close changes.
	upDays, changes := 0, 0
	for j := start + 1; j <= i; j++ {
		changes++
		if series[j].Close > series[j-1].Close {
			upDays++
		}
	}
	trendingUp := changes > 0 && float64(upDays)/float64(changes) >= strongUpDayFrac

	// Volume confirmation: latest bar above the window average.
	var volSum float64
	for j := start; j <= i; j++ {
		volSum += series[j].Volume
	}
	avgVol := volSum / float64(i-start+1)
	volumeSpike := avgVol > 0 && series[i].Volume > avgVol*strongVolumeRatio

	if trendingUp && (volumeSpike || meanB > strongMeanPctB) {
		r.IsStrongTrend = true
		r.TrailingStop = series[i].Close * trailingStopFrac
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
