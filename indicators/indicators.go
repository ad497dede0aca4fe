// Package indicators provides technical analysis indicators for trading.
//
// Every indicator value carries an explicit Valid flag instead of relying on
// NaN arithmetic: values are undefined until the rolling window is full, and
// callers must check Valid before use. Substituting neutral defaults for
// undefined values is a decision-layer concern, not done here.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/bollinger/market"
)

// Value is an optional float64. F is meaningless unless Valid is true.
type Value struct {
	F     float64
	Valid bool
}

// Defined wraps f in a valid Value.
func Defined(f float64) Value {
	return Value{F: f, Valid: true}
}

// Or returns the value, or def when undefined.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.F
}

// Params configures the indicator engine.
type Params struct {
	Window    int     // Bollinger window (closes), e.g. 20
	StdDev    float64 // band multiplier k, e.g. 2.0
	MFIPeriod int     // money-flow window, e.g. 14
}

// DefaultParams returns the standard 20/2.0/14 configuration.
func DefaultParams() Params {
	return Params{Window: 20, StdDev: 2.0, MFIPeriod: 14}
}

// Validate rejects window sizes the rolling computations cannot run with.
func (p Params) Validate() error {
	if p.Window < 2 {
		return fmt.Errorf("indicators: window must be >= 2, got %d", p.Window)
	}
	if p.StdDev < 0 {
		return fmt.Errorf("indicators: std dev multiplier must be >= 0, got %g", p.StdDev)
	}
	if p.MFIPeriod < 1 {
		return fmt.Errorf("indicators: mfi period must be >= 1, got %d", p.MFIPeriod)
	}
	return nil
}

// Set holds the indicator values for one bar.
type Set struct {
	MA        Value // rolling mean of closes
	Std       Value // rolling standard deviation
	Upper     Value // MA + k*Std
	Lower     Value // MA - k*Std
	PctB      Value // (close-Lower)/(Upper-Lower); undefined when Upper==Lower
	BandWidth Value // (Upper-Lower)/MA
	MFI       Value // money flow index, 0..100
}

// Compute derives one Set per candle. The first Window-1 bars have undefined
// band values and the first MFIPeriod bars have undefined MFI; they are
// returned as-is so the caller can see exactly where history begins.
func Compute(series market.Series, p Params) ([]Set, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sets := make([]Set, len(series))
	bands(series, p, sets)
	mfi(series, p.MFIPeriod, sets)
	return sets, nil
}
