package backtest

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/market"
	"github.com/rustyeddy/bollinger/risk"
	"github.com/rustyeddy/bollinger/signal"
	"github.com/rustyeddy/bollinger/sim"
)

func testConfig() sim.Config {
	return sim.Config{
		Symbol:         "TEST",
		InitialCapital: 10000,
		CommissionRate: 0.001,
		Params:         indicators.DefaultParams(),
		Signal:         signal.DefaultConfig(),
		Profile:        risk.ProfileFor(risk.Medium),
	}
}

func testSeries(n int) market.Series {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(market.Series, n)
	for i := range series {
		c := 100 + 8*math.Sin(float64(i)/4)
		series[i] = market.Candle{
			Time:   t0.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000 + float64(i%5)*100,
		}
	}
	return series
}

func TestRun(t *testing.T) {
	series := testSeries(120)
	s, err := Run(testConfig(), series, 0.03)
	require.NoError(t, err)

	assert.Equal(t, "TEST", s.Symbol)
	assert.Equal(t, series[0].Time, s.Start)
	assert.Equal(t, series[len(series)-1].Time, s.End)
	assert.Equal(t, len(series), s.Bars)
	require.Len(t, s.Result.Equity, len(series))

	// The run ends flat, so the summary's final value is realized cash.
	assert.InDelta(t, s.Result.Final.Cash, s.Final, 1e-9)
	assert.InDelta(t, s.Final/s.Initial-1, s.Metrics.TotalReturn, 1e-9)

	wantBH := series[len(series)-1].Close/series[0].Close - 1
	assert.InDelta(t, wantBH, s.BuyHoldReturn, 1e-9)
	assert.InDelta(t, s.Metrics.TotalReturn-wantBH, s.Outperformance(), 1e-9)
}

func TestRunBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.InitialCapital = -1
	_, err := Run(cfg, testSeries(30), 0)
	assert.Error(t, err)
}

func TestWriteOrg(t *testing.T) {
	s, err := Run(testConfig(), testSeries(120), 0.03)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, s.WriteOrg(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "* BACKTEST: Bollinger-Tranche TEST")
	assert.Contains(t, text, ":RETURN_PCT:")
	assert.Contains(t, text, "** Performance Summary")
	assert.Contains(t, text, "** Trade Distribution")
}

func TestLatestSignal(t *testing.T) {
	series := testSeries(60)
	r, err := LatestSignal(series, testConfig(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "TEST", r.Symbol)
	assert.Equal(t, series[len(series)-1].Time, r.Time)
	assert.True(t, r.MA.Valid, "60 bars is enough history")
	assert.True(t, r.PctB.Valid)
	assert.GreaterOrEqual(t, r.BuyProbability, 0)
	assert.LessOrEqual(t, r.BuyProbability, 100)
	assert.GreaterOrEqual(t, r.SellProbability, 0)
	assert.LessOrEqual(t, r.SellProbability, 100)
	assert.False(t, r.CurrentGain.Valid, "no purchase price configured")

	_, err = LatestSignal(nil, testConfig(), 0, 0)
	assert.Error(t, err)
}

func TestLatestSignalGainMonitoring(t *testing.T) {
	series := testSeries(60)
	last := series[len(series)-1].Close

	purchase := last / 1.12 // sitting on a 12% gain
	r, err := LatestSignal(series, testConfig(), purchase, 0.10)
	require.NoError(t, err)

	require.True(t, r.CurrentGain.Valid)
	assert.InDelta(t, 0.12, r.CurrentGain.F, 1e-9)
	assert.True(t, r.NearTarget)
	assert.True(t, r.TargetReached)

	// Well short of the target: monitoring stays quiet.
	r, err = LatestSignal(series, testConfig(), last/1.02, 0.10)
	require.NoError(t, err)
	assert.False(t, r.NearTarget)
	assert.False(t, r.TargetReached)
}
