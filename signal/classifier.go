package signal

import (
	"fmt"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/market"
)

const (
	// squeezeLookback is how many bars back the band width is compared to
	// when checking for a volatility squeeze.
	squeezeLookback = 5
	// squeezeRatio: current width below this fraction of the earlier width
	// counts as a squeeze.
	squeezeRatio = 0.7
	// volumeLookback is the window for the breakout volume average.
	volumeLookback = 20
)

// Config holds the classifier thresholds. Zero values are not usable; start
// from DefaultConfig.
type Config struct {
	BuyPctB      float64 // default 0.2
	SellPctB     float64 // default 0.8
	BuyMFI       float64 // default 20
	SellMFI      float64 // default 80
	UseMFIFilter bool    // gate threshold buys/sells on MFI
}

// DefaultConfig returns the thresholds used by the original strategy.
func DefaultConfig() Config {
	return Config{BuyPctB: 0.2, SellPctB: 0.8, BuyMFI: 20, SellMFI: 80}
}

// Validate rejects thresholds that can never fire or are inverted.
func (c Config) Validate() error {
	if c.BuyPctB <= 0 || c.BuyPctB >= 1 {
		return fmt.Errorf("signal: buy %%B threshold must be in (0,1), got %g", c.BuyPctB)
	}
	if c.SellPctB <= 0 || c.SellPctB >= 1 {
		return fmt.Errorf("signal: sell %%B threshold must be in (0,1), got %g", c.SellPctB)
	}
	if c.BuyPctB >= c.SellPctB {
		return fmt.Errorf("signal: buy %%B threshold %g must be below sell threshold %g", c.BuyPctB, c.SellPctB)
	}
	if c.BuyMFI < 0 || c.BuyMFI > 100 || c.SellMFI < 0 || c.SellMFI > 100 {
		return fmt.Errorf("signal: MFI thresholds must be in [0,100]")
	}
	return nil
}

// Frame is everything the classifier sees for one bar: the bar itself, its
// indicators, the prior bar for crossover detection, and the short lookbacks
// the squeeze rule needs. Build one with NewFrame.
type Frame struct {
	Candle    market.Candle
	Prev      market.Candle
	Set       indicators.Set
	PrevSet   indicators.Set
	Deviation indicators.Value // % distance of close from MA
	WidthAgo  indicators.Value // band width squeezeLookback bars earlier
	AvgVolume indicators.Value // mean volume over volumeLookback bars
}

// NewFrame assembles the classifier input for bar i of the series. It only
// reads data at or before i, never ahead.
func NewFrame(series market.Series, sets []indicators.Set, i int) Frame {
	f := Frame{
		Candle:    series[i],
		Set:       sets[i],
		Deviation: indicators.Deviation(series[i].Close, sets[i].MA),
	}
	if i > 0 {
		f.Prev = series[i-1]
		f.PrevSet = sets[i-1]
	}
	if i >= squeezeLookback {
		f.WidthAgo = sets[i-squeezeLookback].BandWidth
	}
	if i >= volumeLookback-1 {
		sum := 0.0
		for j := i - volumeLookback + 1; j <= i; j++ {
			sum += series[j].Volume
		}
		f.AvgVolume = indicators.Defined(sum / volumeLookback)
	}
	return f
}

// Classifier maps a Frame to a Signal via prioritized rules; the first match
// wins. Undefined %B and MFI are substituted with neutral 0.5/50 here, at
// decision time, and nowhere else.
type Classifier struct {
	cfg Config
}

// NewClassifier validates cfg and returns a classifier.
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg}, nil
}

func (c *Classifier) Classify(f Frame) Signal {
	pctB := f.Set.PctB.Or(0.5)
	mfi := f.Set.MFI.Or(50)
	dev := f.Deviation.Or(0)

	// Deep-discount entries ahead of everything else.
	if dev <= -20 && pctB < 0.2 {
		return BuyStrong
	}
	if dev <= -15 && pctB < 0.3 && mfi < 30 {
		return Buy
	}
	if dev >= 10 && pctB > 0.8 && mfi > 70 {
		return Sell
	}

	if c.squeezeBreakout(f) {
		return BreakoutBuy
	}

	// Midline crossovers need a defined %B on both bars; a neutral
	// substitution would fabricate crossings out of missing history.
	if f.PrevSet.PctB.Valid && f.Set.PctB.Valid {
		if f.PrevSet.PctB.F <= 0.5 && f.Set.PctB.F > 0.5 {
			return MidBreakUp
		}
		if f.PrevSet.PctB.F >= 0.5 && f.Set.PctB.F < 0.5 {
			return MidBreakDown
		}
	}

	if pctB <= c.cfg.BuyPctB && (!c.cfg.UseMFIFilter || mfi <= c.cfg.BuyMFI) {
		return Buy
	}
	if pctB >= c.cfg.SellPctB && (!c.cfg.UseMFIFilter || mfi >= c.cfg.SellMFI) {
		return Sell
	}
	return Hold
}

// squeezeBreakout: band width contracted below squeezeRatio of its level
// squeezeLookback bars ago, and this bar closed across the upper band on
// above-average volume.
func (c *Classifier) squeezeBreakout(f Frame) bool {
	if !f.Set.BandWidth.Valid || !f.WidthAgo.Valid || !f.Set.Upper.Valid ||
		!f.PrevSet.Upper.Valid || !f.AvgVolume.Valid {
		return false
	}
	if f.Set.BandWidth.F >= f.WidthAgo.F*squeezeRatio {
		return false
	}
	crossed := f.Prev.Close <= f.PrevSet.Upper.F && f.Candle.Close > f.Set.Upper.F
	return crossed && f.Candle.Volume > f.AvgVolume.F
}
