package risk

import (
	"math"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/market"
)

const (
	highVolPct = 30 // annualized volatility above this is treated as hot
	lowVolPct  = 10 // and below this as calm

	firstTrancheFloor = 0.15
	firstTrancheCap   = 0.60

	slopeShrinkAt     = -0.1 // falling band slope shrinks the first tranche
	slopeTightenAt    = -0.2 // steeper fall also tightens the stop
	tightenedStopPct  = 0.07
	widenedStopCapPct = 0.15
)

// Context carries the market conditions a profile is adjusted against.
// Undefined values leave the corresponding adjustment unapplied.
type Context struct {
	Volatility indicators.Value // annualized volatility, percent
	BandSlope  indicators.Value // normalized upper-band slope
}

// Adjust returns a copy of p with the first buy tranche and the stop loss
// tuned to ctx. Adjustments apply sequentially and each result is clamped, so
// composing them can never push the schedule outside its floor and cap.
func Adjust(p Profile, ctx Context) Profile {
	out := p
	out.BuyTranches = append([]float64(nil), p.BuyTranches...)
	out.SellTranches = append([]float64(nil), p.SellTranches...)

	first := out.BuyTranches[0]
	if ctx.Volatility.Valid {
		switch {
		case ctx.Volatility.F > highVolPct:
			first = math.Max(firstTrancheFloor, first-0.15)
		case ctx.Volatility.F < lowVolPct:
			first = math.Min(firstTrancheCap, first+0.10)
		}
	}
	if ctx.BandSlope.Valid && ctx.BandSlope.F < slopeShrinkAt {
		first = math.Max(firstTrancheFloor, first-0.05)
	}
	out.BuyTranches[0] = first

	stop := out.StopLossPct
	if ctx.Volatility.Valid {
		switch {
		case ctx.Volatility.F > highVolPct:
			stop = math.Min(tightenedStopPct, stop)
		case ctx.Volatility.F < lowVolPct:
			stop = math.Min(widenedStopCapPct, stop+0.02)
		}
	}
	if ctx.BandSlope.Valid && ctx.BandSlope.F < slopeTightenAt {
		stop = math.Min(tightenedStopPct, stop)
	}
	out.StopLossPct = stop

	return out
}

// Volatility returns the annualized close-to-close volatility in percent over
// the trailing window ending at bar i. Undefined with fewer than three bars
// of history.
func Volatility(series market.Series, i, window int) indicators.Value {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	if i-start < 2 {
		return indicators.Value{}
	}

	rets := make([]float64, 0, i-start)
	for j := start + 1; j <= i; j++ {
		if series[j-1].Close == 0 {
			return indicators.Value{}
		}
		rets = append(rets, series[j].Close/series[j-1].Close-1)
	}

	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	var ss float64
	for _, r := range rets {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(rets)-1))
	return indicators.Defined(std * math.Sqrt(252) * 100)
}

// BandSlope returns the normalized slope of the upper band over the trailing
// lookback bars: (upper[i] - upper[i-lookback+1]) / (lookback * upper[start]).
func BandSlope(sets []indicators.Set, i, lookback int) indicators.Value {
	start := i - lookback + 1
	if start < 0 || lookback < 2 {
		return indicators.Value{}
	}
	if !sets[start].Upper.Valid || !sets[i].Upper.Valid || sets[start].Upper.F == 0 {
		return indicators.Value{}
	}
	return indicators.Defined((sets[i].Upper.F - sets[start].Upper.F) / (float64(lookback) * sets[start].Upper.F))
}
