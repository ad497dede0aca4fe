package backtest

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/bollinger/indicators"
	"github.com/rustyeddy/bollinger/market"
	"github.com/rustyeddy/bollinger/risk"
	"github.com/rustyeddy/bollinger/signal"
	"github.com/rustyeddy/bollinger/sim"
)

// SignalReport is the structured latest-bar record handed to notification and
// report collaborators: the verdict plus every input that went into it.
type SignalReport struct {
	Symbol string
	Time   time.Time
	Close  float64
	Signal signal.Signal

	MA        indicators.Value
	Upper     indicators.Value
	Lower     indicators.Value
	PctB      indicators.Value
	BandWidth indicators.Value
	MFI       indicators.Value
	Deviation indicators.Value

	Riding     signal.Riding
	Volatility indicators.Value
	BandSlope  indicators.Value
	Profile    risk.Profile // context-adjusted sizing for this bar

	// Advisory lean of a Hold bar, 0..100 each side.
	BuyProbability  int
	SellProbability int

	// Monitoring of an externally tracked purchase, when configured.
	CurrentGain   indicators.Value // fraction vs the purchase price
	TargetGain    float64          // fraction, e.g. 0.15
	NearTarget    bool             // at or past 70% of the target
	TargetReached bool
}

// LatestSignal evaluates the final bar of series under cfg. purchasePrice and
// targetGain are optional; zero disables the gain monitoring.
func LatestSignal(series market.Series, cfg sim.Config, purchasePrice, targetGain float64) (*SignalReport, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("backtest: empty series")
	}
	if !series.Sorted() {
		return nil, fmt.Errorf("backtest: series is not time-ordered")
	}
	classifier, err := signal.NewClassifier(cfg.Signal)
	if err != nil {
		return nil, err
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	sets, err := indicators.Compute(series, cfg.Params)
	if err != nil {
		return nil, err
	}

	i := len(series) - 1
	frame := signal.NewFrame(series, sets, i)
	ctx := risk.Context{
		Volatility: risk.Volatility(series, i, cfg.Params.Window),
		BandSlope:  risk.BandSlope(sets, i, signal.DefaultRidingLookback),
	}

	r := &SignalReport{
		Symbol:     cfg.Symbol,
		Time:       series[i].Time,
		Close:      series[i].Close,
		Signal:     classifier.Classify(frame),
		MA:         sets[i].MA,
		Upper:      sets[i].Upper,
		Lower:      sets[i].Lower,
		PctB:       sets[i].PctB,
		BandWidth:  sets[i].BandWidth,
		MFI:        sets[i].MFI,
		Deviation:  frame.Deviation,
		Riding:     signal.DetectRiding(series, sets, i, cfg.RidingLookback),
		Volatility: ctx.Volatility,
		BandSlope:  ctx.BandSlope,
		Profile:    risk.Adjust(cfg.Profile, ctx),
		TargetGain: targetGain,
	}
	r.BuyProbability, r.SellProbability = signal.Probability(
		sets[i].PctB.Or(0.5), frame.Deviation.Or(0))

	if purchasePrice > 0 {
		gain := series[i].Close/purchasePrice - 1
		r.CurrentGain = indicators.Defined(gain)
		if targetGain > 0 {
			r.NearTarget = gain >= targetGain*0.7
			r.TargetReached = gain >= targetGain
		}
	}
	return r, nil
}

var orgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"sub":    func(a, b int) int { return a - b },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// WriteOrg renders the summary as an org-mode block at path.
func (s *Summary) WriteOrg(path string) error {
	t, err := template.New("backtest").Funcs(orgFuncs).Parse(orgTemplate)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := t.Execute(buf, s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const orgTemplate = `
* BACKTEST: Bollinger-Tranche {{.Symbol}}
:PROPERTIES:
:STRATEGY:    bollinger_tranche
:SYMBOL:      {{.Symbol}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:BARS:        {{.Bars}}
:START_BAL:   {{printf "%.2f" .Initial}}
:END_BAL:     {{printf "%.2f" .Final}}
:RETURN_PCT:  {{printf "%.2f" (mul100 .Metrics.TotalReturn)}}
:ANNUAL_PCT:  {{printf "%.2f" (mul100 .Metrics.AnnualReturn)}}
:MAX_DD_PCT:  {{printf "%.2f" (mul100 .Metrics.MaxDrawdown)}}
:SHARPE:      {{printf "%.2f" .Metrics.Sharpe}}
:TRADES:      {{len .Result.Trades}}
:ROUND_TRIPS: {{.Metrics.RoundTrips}}
:WINS:        {{.Metrics.Wins}}
:WIN_RATE:    {{printf "%.2f" (mul100 .Metrics.WinRate)}}
:CREATED:     [{{(orTime .End).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Return:           *{{printf "%.2f" (mul100 .Metrics.TotalReturn)}}%*
- Annualized:       *{{printf "%.2f" (mul100 .Metrics.AnnualReturn)}}%*
- Max Drawdown:     *{{printf "%.2f" (mul100 .Metrics.MaxDrawdown)}}%*
- Sharpe:           *{{printf "%.2f" .Metrics.Sharpe}}*
- Win Rate:         *{{printf "%.2f" (mul100 .Metrics.WinRate)}}%*
- Buy & Hold:       *{{printf "%.2f" (mul100 .BuyHoldReturn)}}%*
- Outperformance:   *{{printf "%.2f" (mul100 .Outperformance)}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Metrics.Wins}} |
| Losses  | {{sub .Metrics.RoundTrips .Metrics.Wins}} |
| Total   | {{.Metrics.RoundTrips}} |
`
