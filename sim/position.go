package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/bollinger/indicators"
)

// ErrInvalidTrade marks a fill that would break the cash or share invariants.
// The simulator skips such fills; they never reach the ledger.
var ErrInvalidTrade = errors.New("sim: invalid trade")

// Position is the single mutable portfolio state of one run. Shares and cash
// can never go negative: fills that would are rejected before any state
// changes. The entry bookkeeping (tranche indexes, brackets, midline latch)
// resets when shares reach zero; cash survives the reset.
type Position struct {
	Cash     float64
	Shares   int64
	AvgEntry float64 // size-weighted mean price of open fills
	StopLoss float64
	Target   float64

	BuyTranche   int   // next buy tranche to fill
	SellTranche  int   // next sell tranche to fill
	sellBase     int64 // shares held when the exit sequence started
	TrailingStop float64

	lastEntryPctB indicators.Value // %B at the most recent fill
	midlineDone   bool             // midline partial already taken this cycle
}

func NewPosition(cash float64) *Position {
	return &Position{Cash: cash}
}

// Open reports whether any shares are held.
func (p *Position) Open() bool { return p.Shares > 0 }

// Value returns cash plus shares marked at price.
func (p *Position) Value(price float64) float64 {
	return p.Cash + float64(p.Shares)*price
}

// Gain returns the unrealized return fraction versus average entry.
func (p *Position) Gain(price float64) float64 {
	if !p.Open() || p.AvgEntry == 0 {
		return 0
	}
	return price/p.AvgEntry - 1
}

// ApplyBuy fills a buy of shares at price, charging commissionRate on the
// notional. The average entry stays the size-weighted mean across fills.
func (p *Position) ApplyBuy(price float64, shares int64, commissionRate float64) error {
	if shares <= 0 {
		return fmt.Errorf("%w: buy of %d shares", ErrInvalidTrade, shares)
	}
	if price <= 0 {
		return fmt.Errorf("%w: buy at price %g", ErrInvalidTrade, price)
	}
	cost := price * float64(shares) * (1 + commissionRate)
	if cost > p.Cash {
		return fmt.Errorf("%w: cost %.2f exceeds cash %.2f", ErrInvalidTrade, cost, p.Cash)
	}

	basis := p.AvgEntry*float64(p.Shares) + price*float64(shares)
	p.Shares += shares
	p.AvgEntry = basis / float64(p.Shares)
	p.Cash -= cost

	// A fresh fill starts a new exit cycle.
	p.SellTranche = 0
	p.sellBase = 0
	p.midlineDone = false
	return nil
}

// ApplySell fills a sell of shares at price, crediting the notional less
// commission. Selling the last share resets the entry bookkeeping.
func (p *Position) ApplySell(price float64, shares int64, commissionRate float64) error {
	if shares <= 0 || shares > p.Shares {
		return fmt.Errorf("%w: sell of %d shares with %d held", ErrInvalidTrade, shares, p.Shares)
	}
	if price <= 0 {
		return fmt.Errorf("%w: sell at price %g", ErrInvalidTrade, price)
	}

	p.Cash += price * float64(shares) * (1 - commissionRate)
	p.Shares -= shares
	if p.Shares == 0 {
		p.reset()
	}
	return nil
}

// SetBrackets recomputes stop and target around the current average entry.
func (p *Position) SetBrackets(stopPct, targetPct float64) {
	p.StopLoss = p.AvgEntry * (1 - stopPct)
	p.Target = p.AvgEntry * (1 + targetPct)
}

func (p *Position) reset() {
	p.AvgEntry = 0
	p.StopLoss = 0
	p.Target = 0
	p.BuyTranche = 0
	p.SellTranche = 0
	p.sellBase = 0
	p.TrailingStop = 0
	p.lastEntryPctB = indicators.Value{}
	p.midlineDone = false
}
