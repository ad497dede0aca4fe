package sim

import "time"

// Side of a fill.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Fill reasons recorded on the ledger.
const (
	ReasonBuySignal     = "buy_signal"
	ReasonBuyStrong     = "buy_strong"
	ReasonBreakoutBuy   = "breakout_buy"
	ReasonTrancheAdd    = "tranche_add"
	ReasonStopLoss      = "stop_loss"
	ReasonTargetReached = "target_reached"
	ReasonMidlineExit   = "midline_exit"
	ReasonSellTranche   = "sell_tranche"
	ReasonSellSignal    = "sell_signal"
	ReasonTopConfirmed  = "top_confirmed"
	ReasonScheduleDone  = "schedule_exhausted"
	ReasonEndOfData     = "end_of_data"
)

// Trade is one executed fill, append-only on the ledger.
type Trade struct {
	ID         string
	Time       time.Time
	Side       Side
	Price      float64
	Shares     int64
	Notional   float64 // price * shares, before commission
	Commission float64
	Reason     string
}
