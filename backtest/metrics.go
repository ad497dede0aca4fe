// Package backtest wraps a simulation run with performance metrics, a
// buy-and-hold baseline and report output.
package backtest

import (
	"math"

	"github.com/rustyeddy/bollinger/sim"
)

const tradingDaysPerYear = 252

// Metrics summarizes one run's equity curve and ledger.
type Metrics struct {
	TotalReturn  float64 // final/initial - 1
	AnnualReturn float64 // calendar-annualized total return
	MaxDrawdown  float64 // worst peak-relative decline, >= 0
	Sharpe       float64 // annualized, against the risk-free rate
	WinRate      float64 // winning round-trips / total round-trips
	RoundTrips   int
	Wins         int
}

// Compute derives metrics from a run. riskFreeAnnual is the annual risk-free
// rate as a fraction, e.g. 0.03. An equity curve with fewer than two points
// yields zero-valued metrics.
func Compute(equity []sim.EquityPoint, trades []sim.Trade, riskFreeAnnual float64) Metrics {
	var m Metrics
	if len(equity) < 2 || equity[0].Value == 0 {
		return m
	}

	first, last := equity[0], equity[len(equity)-1]
	m.TotalReturn = last.Value/first.Value - 1

	days := last.Time.Sub(first.Time).Hours() / 24
	if days > 0 {
		m.AnnualReturn = math.Pow(1+m.TotalReturn, 365/days) - 1
	} else {
		m.AnnualReturn = m.TotalReturn
	}

	m.MaxDrawdown = maxDrawdown(equity)
	m.Sharpe = sharpe(equity, riskFreeAnnual)
	m.Wins, m.RoundTrips = winRate(trades)
	if m.RoundTrips > 0 {
		m.WinRate = float64(m.Wins) / float64(m.RoundTrips)
	}
	return m
}

func maxDrawdown(equity []sim.EquityPoint) float64 {
	peak := equity[0].Value
	worst := 0.0
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			dd := (peak - p.Value) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

func sharpe(equity []sim.EquityPoint, riskFreeAnnual float64) float64 {
	rets := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1].Value == 0 {
			continue
		}
		rets = append(rets, equity[i].Value/equity[i-1].Value-1)
	}
	if len(rets) == 0 {
		return 0
	}

	riskFreeDaily := riskFreeAnnual / tradingDaysPerYear
	var meanExcess, mean float64
	for _, r := range rets {
		mean += r
		meanExcess += r - riskFreeDaily
	}
	mean /= float64(len(rets))
	meanExcess /= float64(len(rets))

	var ss float64
	for _, r := range rets {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(rets)))
	if std == 0 {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * meanExcess / std
}

// winRate matches sells against open buy lots FIFO. Every matched slice of a
// buy lot counts as one round-trip; it wins when the exit price beats the
// lot's entry price.
func winRate(trades []sim.Trade) (wins, total int) {
	type lot struct {
		shares int64
		price  float64
	}
	var lots []lot

	for _, t := range trades {
		switch t.Side {
		case sim.SideBuy:
			lots = append(lots, lot{t.Shares, t.Price})
		case sim.SideSell:
			remaining := t.Shares
			for remaining > 0 && len(lots) > 0 {
				l := &lots[0]
				n := l.shares
				if remaining < n {
					n = remaining
				}
				total++
				if t.Price > l.price {
					wins++
				}
				l.shares -= n
				remaining -= n
				if l.shares == 0 {
					lots = lots[1:]
				}
			}
		}
	}
	return wins, total
}
