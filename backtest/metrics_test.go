package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/bollinger/sim"
)

func eq(t0 time.Time, values ...float64) []sim.EquityPoint {
	out := make([]sim.EquityPoint, len(values))
	for i, v := range values {
		out[i] = sim.EquityPoint{Time: t0.Add(time.Duration(i) * 24 * time.Hour), Value: v}
	}
	return out
}

func TestComputeTotalReturn(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// One commissioned round trip: $10000 -> $10097.90.
	m := Compute(eq(t0, 10000, 10097.9), nil, 0)
	assert.InDelta(t, 0.00979, m.TotalReturn, 1e-9)
	assert.Greater(t, m.AnnualReturn, m.TotalReturn, "one-day gain annualizes upward")
}

func TestComputeEmptyCurve(t *testing.T) {
	assert.Zero(t, Compute(nil, nil, 0))
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Zero(t, Compute(eq(t0, 10000), nil, 0))
}

func TestMaxDrawdown(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	m := Compute(eq(t0, 100, 120, 90, 130), nil, 0)
	assert.InDelta(t, 0.25, m.MaxDrawdown, 1e-9)

	// Monotone growth never draws down.
	m = Compute(eq(t0, 100, 110, 120), nil, 0)
	assert.Zero(t, m.MaxDrawdown)
}

func TestSharpeFlatCurveIsZero(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := Compute(eq(t0, 100, 100, 100), nil, 0.03)
	assert.Zero(t, m.Sharpe)
}

func TestSharpeSign(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	up := Compute(eq(t0, 100, 102, 103, 106, 107), nil, 0)
	assert.Greater(t, up.Sharpe, 0.0)

	down := Compute(eq(t0, 100, 98, 97, 94, 93), nil, 0)
	assert.Less(t, down.Sharpe, 0.0)
}

func TestWinRateFIFO(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []sim.Trade{
		{Time: t0, Side: sim.SideBuy, Price: 100, Shares: 10},
		{Time: t0.AddDate(0, 0, 1), Side: sim.SideBuy, Price: 80, Shares: 10},
		// Sells 10 from the $100 lot (win) and 5 from the $80 lot (win).
		{Time: t0.AddDate(0, 0, 2), Side: sim.SideSell, Price: 110, Shares: 15},
		// Closes the $80 remainder at a loss.
		{Time: t0.AddDate(0, 0, 3), Side: sim.SideSell, Price: 70, Shares: 5},
	}

	m := Compute(eq(t0, 10000, 10000, 10000, 10000), trades, 0)
	assert.Equal(t, 3, m.RoundTrips)
	assert.Equal(t, 2, m.Wins)
	assert.InDelta(t, 2.0/3.0, m.WinRate, 1e-9)
}

func TestWinRateNoTrades(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := Compute(eq(t0, 100, 101), nil, 0)
	assert.Zero(t, m.RoundTrips)
	assert.Zero(t, m.WinRate)
}
