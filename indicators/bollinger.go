package indicators

import (
	"math"

	"github.com/rustyeddy/bollinger/market"
)

// bands fills MA, Std, Upper, Lower, PctB and BandWidth for every bar with at
// least p.Window closes of history.
func bands(series market.Series, p Params, sets []Set) {
	if len(series) < p.Window {
		return
	}

	// Running sums over the trailing window.
	var sum, sumSq float64
	for i, c := range series {
		sum += c.Close
		sumSq += c.Close * c.Close
		if i >= p.Window {
			old := series[i-p.Window].Close
			sum -= old
			sumSq -= old * old
		}
		if i < p.Window-1 {
			continue
		}

		n := float64(p.Window)
		mean := sum / n
		// Sample variance, matching a rolling std with ddof=1.
		variance := (sumSq - sum*sum/n) / (n - 1)
		if variance < 0 {
			variance = 0 // guard against float cancellation
		}
		std := math.Sqrt(variance)

		upper := mean + p.StdDev*std
		lower := mean - p.StdDev*std

		sets[i].MA = Defined(mean)
		sets[i].Std = Defined(std)
		sets[i].Upper = Defined(upper)
		sets[i].Lower = Defined(lower)

		if upper > lower {
			sets[i].PctB = Defined((c.Close - lower) / (upper - lower))
		}
		if mean != 0 {
			sets[i].BandWidth = Defined((upper - lower) / mean)
		}
	}
}

// Deviation returns the percent distance of close from the moving average,
// e.g. -15 means 15% below. Undefined when the MA is undefined or zero.
func Deviation(close float64, ma Value) Value {
	if !ma.Valid || ma.F == 0 {
		return Value{}
	}
	return Defined((close - ma.F) / ma.F * 100)
}
