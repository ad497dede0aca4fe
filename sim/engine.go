// Package sim runs the tranche strategy bar by bar over a historical series:
// position state machine, fill accounting with commission, equity curve and
// trade ledger.
package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/journal"
	"github.com/rustyeddy/bollinger/market"
	"github.com/rustyeddy/bollinger/pkg/id"
	"github.com/rustyeddy/bollinger/risk"
	"github.com/rustyeddy/bollinger/signal"
)

const (
	// volatilityWindow is the trailing window for the annualized volatility
	// fed into the risk adjustment.
	volatilityWindow = 20
	// slopeLookback is the trailing window for the upper-band slope.
	slopeLookback = 5
)

// Config fixes one run. Validation happens once at construction; a bad
// configuration never processes a single bar.
type Config struct {
	Symbol         string
	InitialCapital float64
	CommissionRate float64 // per leg, e.g. 0.001 for 0.1%
	Params         indicators.Params
	Signal         signal.Config
	Profile        risk.Profile
	RidingLookback int             // 0 means signal.DefaultRidingLookback
	Journal        journal.Journal // optional fan-out for fills and equity
}

func (c Config) validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("sim: initial capital must be positive, got %g", c.InitialCapital)
	}
	if c.CommissionRate < 0 || c.CommissionRate >= 1 {
		return fmt.Errorf("sim: commission rate %g out of [0,1)", c.CommissionRate)
	}
	if c.RidingLookback < 0 {
		return fmt.Errorf("sim: riding lookback must not be negative, got %d", c.RidingLookback)
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	return c.Profile.Validate()
}

// EquityPoint is the portfolio value at the close of one bar.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

// Result is everything one run produced.
type Result struct {
	Equity  []EquityPoint
	Trades  []Trade
	Final   Position // flat after the end-of-data liquidation
	Skipped int      // fills rejected by the invariants
}

// Engine drives one deterministic pass over a series. An Engine holds no
// state between runs; independent runs are safe to execute concurrently as
// long as each has its own journal.
type Engine struct {
	cfg        Config
	classifier *signal.Classifier
	machine    *Machine
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	classifier, err := signal.NewClassifier(cfg.Signal)
	if err != nil {
		return nil, err
	}
	machine, err := NewMachine(cfg.Profile)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, classifier: classifier, machine: machine}, nil
}

// Run simulates the series. Decisions for bar t use only data through bar t;
// fills execute at the bar's close. Any open position is liquidated at the
// final close so metrics see realized cash.
func (e *Engine) Run(series market.Series) (*Result, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("sim: empty series")
	}
	if !series.Sorted() {
		return nil, fmt.Errorf("sim: series is not time-ordered")
	}

	sets, err := indicators.Compute(series, e.cfg.Params)
	if err != nil {
		return nil, err
	}

	pos := NewPosition(e.cfg.InitialCapital)
	res := &Result{Equity: make([]EquityPoint, 0, len(series))}

	for i := range series {
		bar := series[i]
		frame := signal.NewFrame(series, sets, i)
		in := Input{
			Price:  bar.Close,
			PctB:   sets[i].PctB,
			Signal: e.classifier.Classify(frame),
			Riding: signal.DetectRiding(series, sets, i, e.cfg.RidingLookback),
			Context: risk.Context{
				Volatility: risk.Volatility(series, i, volatilityWindow),
				BandSlope:  risk.BandSlope(sets, i, slopeLookback),
			},
		}

		orders, adj := e.machine.Step(pos, in)
		for _, ord := range orders {
			if err := e.apply(res, pos, bar, in, adj, ord); err != nil {
				return nil, err
			}
		}

		if i == len(series)-1 && pos.Open() {
			err := e.apply(res, pos, bar, in, adj, Order{
				Side:   SideSell,
				Shares: pos.Shares,
				Reason: ReasonEndOfData,
			})
			if err != nil {
				return nil, err
			}
		}

		point := EquityPoint{Time: bar.Time, Value: pos.Value(bar.Close)}
		res.Equity = append(res.Equity, point)
		if e.cfg.Journal != nil {
			if err := e.cfg.Journal.RecordEquity(journal.EquitySnapshot{
				Time:   bar.Time,
				Cash:   pos.Cash,
				Shares: pos.Shares,
				Value:  point.Value,
			}); err != nil {
				return nil, fmt.Errorf("sim: record equity: %w", err)
			}
		}
	}

	res.Final = *pos
	return res, nil
}

// apply executes one order against the position. Fills that violate the cash
// or share invariants are counted and dropped; state is untouched. A journal
// write failure aborts the run so the persisted ledger can never silently
// diverge from the equity table.
func (e *Engine) apply(res *Result, pos *Position, bar market.Candle, in Input, adj risk.Profile, ord Order) error {
	price := bar.Close

	switch ord.Side {
	case SideBuy:
		if err := pos.ApplyBuy(price, ord.Shares, e.cfg.CommissionRate); err != nil {
			res.Skipped++
			return nil
		}
		pos.BuyTranche++
		pos.lastEntryPctB = in.PctB
		pos.SetBrackets(adj.StopLossPct, adj.TargetPct)
	case SideSell:
		if err := pos.ApplySell(price, ord.Shares, e.cfg.CommissionRate); err != nil {
			res.Skipped++
			return nil
		}
	}

	notional := price * float64(ord.Shares)
	trade := Trade{
		ID:         id.New(),
		Time:       bar.Time,
		Side:       ord.Side,
		Price:      price,
		Shares:     ord.Shares,
		Notional:   notional,
		Commission: notional * e.cfg.CommissionRate,
		Reason:     ord.Reason,
	}
	res.Trades = append(res.Trades, trade)

	if e.cfg.Journal != nil {
		err := e.cfg.Journal.RecordTrade(journal.TradeRecord{
			TradeID:    trade.ID,
			Symbol:     e.cfg.Symbol,
			Side:       ord.Side.String(),
			Price:      price,
			Shares:     ord.Shares,
			Notional:   notional,
			Commission: trade.Commission,
			Time:       bar.Time,
			Reason:     ord.Reason,
		})
		if err != nil {
			return fmt.Errorf("sim: record trade: %w", err)
		}
	}
	return nil
}
