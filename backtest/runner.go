package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/bollinger/market"
	"github.com/rustyeddy/bollinger/sim"
)

// Summary is the full outcome of one backtest: the raw run, its metrics and
// the buy-and-hold baseline over the same bars.
type Summary struct {
	Symbol  string
	Start   time.Time
	End     time.Time
	Bars    int
	Initial float64
	Final   float64

	Result  *sim.Result
	Metrics Metrics

	// BuyHoldReturn is what doing nothing would have earned.
	BuyHoldReturn float64
}

// Run simulates cfg over series and computes metrics. riskFreeAnnual feeds
// the Sharpe ratio.
func Run(cfg sim.Config, series market.Series, riskFreeAnnual float64) (*Summary, error) {
	engine, err := sim.New(cfg)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run(series)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	s := &Summary{
		Symbol:  cfg.Symbol,
		Start:   series[0].Time,
		End:     series[len(series)-1].Time,
		Bars:    len(series),
		Initial: cfg.InitialCapital,
		Final:   res.Final.Cash,
		Result:  res,
		Metrics: Compute(res.Equity, res.Trades, riskFreeAnnual),
	}
	if series[0].Close > 0 {
		s.BuyHoldReturn = series[len(series)-1].Close/series[0].Close - 1
	}
	return s, nil
}

// Outperformance is the strategy's total return minus buy-and-hold.
func (s *Summary) Outperformance() float64 {
	return s.Metrics.TotalReturn - s.BuyHoldReturn
}
