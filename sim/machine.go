package sim

import (
	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/risk"
	"github.com/rustyeddy/bollinger/signal"
)

const (
	midlineLow  = 0.45
	midlineHigh = 0.55
	upperZone   = 0.70
	topPctB     = 0.95 // %B at or above this confirms a top
)

// Input is everything the state machine sees for one bar.
type Input struct {
	Price   float64
	PctB    indicators.Value
	Signal  signal.Signal
	Riding  signal.Riding
	Context risk.Context
}

// Order is a fill request produced by the machine; the engine applies it to
// the position and ledger.
type Order struct {
	Side   Side
	Shares int64
	Reason string
}

// Machine turns signals, band-riding verdicts and risk context into orders
// against a Position. Exits are checked before entries, highest urgency
// first: stop loss, target, midline partial, upper-zone handling, then new
// tranches.
type Machine struct {
	base risk.Profile
}

func NewMachine(p risk.Profile) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Machine{base: p}, nil
}

// Step decides the orders for one bar and returns the context-adjusted
// profile used, so the engine can set brackets from the same numbers. The
// machine advances tranche and latch state for sells as it emits them; buy
// bookkeeping advances only after the engine confirms the fill.
func (m *Machine) Step(pos *Position, in Input) ([]Order, risk.Profile) {
	adj := risk.Adjust(m.base, in.Context)

	if pos.Open() {
		if ord := m.exitOrder(pos, in, adj); ord != nil {
			return []Order{*ord}, adj
		}
	}
	if in.Signal.IsBuy() {
		if ord := m.entryOrder(pos, in, adj); ord != nil {
			return []Order{*ord}, adj
		}
	}
	return nil, adj
}

func (m *Machine) exitOrder(pos *Position, in Input, adj risk.Profile) *Order {
	if in.Price <= pos.StopLoss {
		return &Order{Side: SideSell, Shares: pos.Shares, Reason: ReasonStopLoss}
	}
	if in.Price >= pos.Target {
		return &Order{Side: SideSell, Shares: pos.Shares, Reason: ReasonTargetReached}
	}

	if in.PctB.Valid && in.PctB.F >= midlineLow && in.PctB.F <= midlineHigh &&
		!pos.midlineDone && adj.MidlineExit > 0 {
		n := int64(float64(pos.Shares) * adj.MidlineExit)
		if n > 0 {
			pos.midlineDone = true
			return &Order{Side: SideSell, Shares: n, Reason: ReasonMidlineExit}
		}
	}

	if !in.PctB.Valid || in.PctB.F <= upperZone {
		return nil
	}

	// Upper zone. A strong band-riding trend overrides every sell: keep
	// holding and move the trailing stop suggestion up instead.
	if in.Riding.IsRiding && in.Riding.IsStrongTrend {
		if in.Riding.TrailingStop > pos.TrailingStop {
			pos.TrailingStop = in.Riding.TrailingStop
		}
		return nil
	}
	if in.PctB.F >= topPctB {
		return &Order{Side: SideSell, Shares: pos.Shares, Reason: ReasonTopConfirmed}
	}
	// Without riding, a plain Sell signal exits in full; riding without
	// strength downgrades it to the scheduled tranche exit.
	if in.Signal == signal.Sell && !in.Riding.IsRiding {
		return &Order{Side: SideSell, Shares: pos.Shares, Reason: ReasonSellSignal}
	}
	if pos.SellTranche < len(adj.SellTranches) {
		if pos.SellTranche == 0 {
			pos.sellBase = pos.Shares
		}
		n := int64(float64(pos.sellBase) * adj.SellTranches[pos.SellTranche])
		if n > pos.Shares {
			n = pos.Shares
		}
		if n <= 0 {
			return nil
		}
		pos.SellTranche++
		return &Order{Side: SideSell, Shares: n, Reason: ReasonSellTranche}
	}
	return &Order{Side: SideSell, Shares: pos.Shares, Reason: ReasonScheduleDone}
}

func (m *Machine) entryOrder(pos *Position, in Input, adj risk.Profile) *Order {
	if pos.BuyTranche >= len(adj.BuyTranches) {
		return nil
	}
	// An add-on tranche needs a deeper drawdown than the last fill; a
	// rebound back to the same %B is not averaged into.
	if pos.Open() && pos.lastEntryPctB.Valid {
		if !in.PctB.Valid || in.PctB.F >= pos.lastEntryPctB.F {
			return nil
		}
	}
	if in.Price <= 0 {
		return nil
	}

	alloc := pos.Cash * adj.BuyTranches[pos.BuyTranche]
	shares := int64(alloc / in.Price)
	if shares <= 0 {
		return nil
	}

	reason := ReasonBuySignal
	switch {
	case pos.BuyTranche > 0:
		reason = ReasonTrancheAdd
	case in.Signal == signal.BuyStrong:
		reason = ReasonBuyStrong
	case in.Signal == signal.BreakoutBuy:
		reason = ReasonBreakoutBuy
	}
	return &Order{Side: SideBuy, Shares: shares, Reason: reason}
}
