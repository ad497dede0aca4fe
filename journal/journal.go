// journal/journal.go
package journal

import "time"

// TradeRecord is one executed fill. Partial entries and exits each get their
// own record; the ledger is append-only.
type TradeRecord struct {
	TradeID    string
	Symbol     string
	Side       string // "buy" or "sell"
	Price      float64
	Shares     int64
	Notional   float64 // price * shares, before commission
	Commission float64
	Time       time.Time
	Reason     string
}

// EquitySnapshot is the portfolio state at the close of one bar.
type EquitySnapshot struct {
	Time   time.Time
	Cash   float64
	Shares int64
	Value  float64 // cash + shares * close
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything; handy when a run does not need persistence.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
