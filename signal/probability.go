package signal

import "math"

// Probability scores how close a Hold bar is to a buy or sell decision,
// 0..100 each. %B distance from the midline and deviation from the moving
// average each contribute; when both sides agree the two are averaged. Purely
// advisory, attached to reports so a flat signal still says which way the
// setup leans.
func Probability(pctB, devPercent float64) (buy, sell int) {
	var buyPotential, sellPotential float64

	if pctB < 0.5 {
		buyPotential += (0.5 - pctB) * 200
	}
	if devPercent < 0 {
		buyPotential += math.Min(math.Abs(devPercent)*6, 100)
		if buyPotential > 0 {
			buyPotential /= 2
		}
	}

	if pctB > 0.5 {
		sellPotential += (pctB - 0.5) * 200
	}
	if devPercent > 0 {
		sellPotential += math.Min(devPercent*6, 100)
		if sellPotential > 0 {
			sellPotential /= 2
		}
	}

	buy = int(math.Round(clamp(buyPotential, 0, 100)))
	sell = int(math.Round(clamp(sellPotential, 0, 100)))
	return buy, sell
}
