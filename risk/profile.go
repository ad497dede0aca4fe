// Package risk defines tranche sizing profiles and the volatility and trend
// adjustments applied to them before a run.
package risk

import "fmt"

// Level selects how aggressively capital is deployed.
type Level int

const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "unknown"
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return 0, fmt.Errorf("risk: unknown level %q (want low, medium or high)", s)
}

// Profile is the sizing plan for one run. BuyTranches are fractions of
// available cash per entry step; SellTranches are fractions of the position
// held when the exit sequence starts. Fixed once the run begins; Adjust
// returns modified copies, it never mutates a profile in place.
type Profile struct {
	Level        Level
	BuyTranches  []float64
	SellTranches []float64
	StopLossPct  float64 // fraction below average entry, e.g. 0.07
	TargetPct    float64 // fraction above average entry, e.g. 0.15
	MidlineExit  float64 // fraction sold on a midline touch, e.g. 0.5
}

// ProfileFor returns the preset schedule for a level.
//
// Low spreads entries across five small tranches and takes profits early;
// high concentrates into two large tranches and gives winners more room.
func ProfileFor(level Level) Profile {
	switch level {
	case Low:
		return Profile{
			Level:        Low,
			BuyTranches:  []float64{0.20, 0.20, 0.20, 0.20, 0.20},
			SellTranches: []float64{0.70, 0.30},
			StopLossPct:  0.05,
			TargetPct:    0.10,
			MidlineExit:  0.5,
		}
	case High:
		return Profile{
			Level:        High,
			BuyTranches:  []float64{0.50, 0.50},
			SellTranches: []float64{0.50, 0.20, 0.15, 0.15},
			StopLossPct:  0.10,
			TargetPct:    0.20,
			MidlineExit:  0.5,
		}
	default:
		return Profile{
			Level:        Medium,
			BuyTranches:  []float64{0.30, 0.35, 0.35},
			SellTranches: []float64{0.60, 0.20, 0.20},
			StopLossPct:  0.07,
			TargetPct:    0.15,
			MidlineExit:  0.5,
		}
	}
}

// Validate rejects schedules that could drive cash or shares negative or
// break the stop < entry < target ordering.
func (p Profile) Validate() error {
	if len(p.BuyTranches) == 0 {
		return fmt.Errorf("risk: profile has no buy tranches")
	}
	var buySum float64
	for i, f := range p.BuyTranches {
		if f <= 0 || f > 1 {
			return fmt.Errorf("risk: buy tranche %d fraction %g out of (0,1]", i, f)
		}
		buySum += f
	}
	if buySum > 1.0+1e-9 {
		return fmt.Errorf("risk: buy tranche fractions sum to %g, must not exceed 1.0", buySum)
	}
	if len(p.SellTranches) == 0 {
		return fmt.Errorf("risk: profile has no sell tranches")
	}
	var sellSum float64
	for i, f := range p.SellTranches {
		if f <= 0 || f > 1 {
			return fmt.Errorf("risk: sell tranche %d fraction %g out of (0,1]", i, f)
		}
		sellSum += f
	}
	if sellSum > 1.0+1e-9 {
		return fmt.Errorf("risk: sell tranche fractions sum to %g, must not exceed 1.0", sellSum)
	}
	if p.StopLossPct <= 0 || p.StopLossPct >= 1 {
		return fmt.Errorf("risk: stop loss %g out of (0,1)", p.StopLossPct)
	}
	if p.TargetPct <= 0 {
		return fmt.Errorf("risk: target gain %g must be positive", p.TargetPct)
	}
	if p.StopLossPct >= p.TargetPct {
		return fmt.Errorf("risk: stop loss %g must be below target %g", p.StopLossPct, p.TargetPct)
	}
	if p.MidlineExit < 0 || p.MidlineExit > 1 {
		return fmt.Errorf("risk: midline exit fraction %g out of [0,1]", p.MidlineExit)
	}
	return nil
}
