package indicators

import "github.com/rustyeddy/bollinger/market"

// mfiEpsilon replaces a zero negative-flow sum so the money ratio stays
// finite; the resulting MFI saturates just under 100 instead of dividing by
// zero.
const mfiEpsilon = 1e-10

// mfi fills the money flow index for every bar with period bars of
// typical-price change history. The first bar has no prior typical price, so
// flows start at index 1 and the first defined MFI lands at index period.
func mfi(series market.Series, period int, sets []Set) {
	if len(series) < period+1 {
		return
	}

	pos := make([]float64, len(series))
	neg := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		tp := series[i].TypicalPrice()
		prev := series[i-1].TypicalPrice()
		flow := tp * series[i].Volume
		switch {
		case tp > prev:
			pos[i] = flow
		case tp < prev:
			neg[i] = flow
		}
	}

	var posSum, negSum float64
	for i := 1; i < len(series); i++ {
		posSum += pos[i]
		negSum += neg[i]
		if i > period {
			posSum -= pos[i-period]
			negSum -= neg[i-period]
		}
		if i < period {
			continue
		}

		n := negSum
		if n == 0 {
			n = mfiEpsilon
		}
		ratio := posSum / n
		sets[i].MFI = Defined(100 - 100/(1+ratio))
	}
}
