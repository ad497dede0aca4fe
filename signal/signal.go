// Package signal classifies indicator state into trading signals and detects
// band-riding trends that override mean-reversion sells.
package signal

// Signal is the closed set of trading decisions the classifier can emit.
// MidBreakUp and MidBreakDown are informational; the position machine trades
// them as Hold.
type Signal int

const (
	Hold Signal = iota
	Buy
	BuyStrong
	Sell
	BreakoutBuy
	MidBreakUp
	MidBreakDown
)

var signalNames = map[Signal]string{
	Hold:         "Hold",
	Buy:          "Buy",
	BuyStrong:    "Buy_Strong",
	Sell:         "Sell",
	BreakoutBuy:  "Breakout_Buy",
	MidBreakUp:   "Mid_Break_Up",
	MidBreakDown: "Mid_Break_Down",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsBuy reports whether the signal opens or extends a long position.
func (s Signal) IsBuy() bool {
	return s == Buy || s == BuyStrong || s == BreakoutBuy
}
