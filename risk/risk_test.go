package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/bollinger/indicators"
)

func TestProfilePresetsValid(t *testing.T) {
	for _, level := range []Level{Low, Medium, High} {
		p := ProfileFor(level)
		assert.NoError(t, p.Validate(), level.String())
		assert.Equal(t, level, p.Level)
	}
}

func TestProfileValidate(t *testing.T) {
	p := ProfileFor(Medium)
	p.BuyTranches = []float64{0.6, 0.6}
	assert.Error(t, p.Validate(), "buy tranches summing past 1.0")

	p = ProfileFor(Medium)
	p.BuyTranches = []float64{0.3, -0.1}
	assert.Error(t, p.Validate(), "negative tranche fraction")

	p = ProfileFor(Medium)
	p.StopLossPct = 0
	assert.Error(t, p.Validate(), "zero stop loss")

	p = ProfileFor(Medium)
	p.SellTranches = nil
	assert.Error(t, p.Validate(), "missing sell schedule")

	p = ProfileFor(Medium)
	p.TargetPct = -0.1
	assert.Error(t, p.Validate(), "negative target")

	p = ProfileFor(Medium)
	p.TargetPct = 0.05
	assert.Error(t, p.Validate(), "target below stop")
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		level, err := ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, s, level.String())
	}
	_, err := ParseLevel("reckless")
	assert.Error(t, err)
}

func TestAdjustHighVolatilityShrinks(t *testing.T) {
	high := ProfileFor(High)

	hot := Adjust(high, Context{Volatility: indicators.Defined(40)})
	calm := Adjust(high, Context{Volatility: indicators.Defined(5)})

	assert.InDelta(t, 0.35, hot.BuyTranches[0], 1e-9)
	assert.InDelta(t, 0.60, calm.BuyTranches[0], 1e-9)
	assert.Less(t, hot.BuyTranches[0], calm.BuyTranches[0])

	// Hot high-risk sizing also stays below calm medium-risk sizing.
	calmMedium := Adjust(ProfileFor(Medium), Context{Volatility: indicators.Defined(5)})
	assert.InDelta(t, 0.40, calmMedium.BuyTranches[0], 1e-9)
	assert.Less(t, hot.BuyTranches[0], calmMedium.BuyTranches[0])

	// High volatility tightens the stop as well.
	assert.InDelta(t, 0.07, hot.StopLossPct, 1e-9)
	assert.InDelta(t, 0.12, calm.StopLossPct, 1e-9)
}

func TestAdjustClampsAtFloor(t *testing.T) {
	low := ProfileFor(Low)
	out := Adjust(low, Context{
		Volatility: indicators.Defined(50),
		BandSlope:  indicators.Defined(-0.3),
	})
	// 0.20 - 0.15 = 0.05 clamps to the floor; the slope shrink cannot dig
	// below it either.
	assert.InDelta(t, 0.15, out.BuyTranches[0], 1e-9)
	assert.InDelta(t, 0.05, out.StopLossPct, 1e-9)
}

func TestAdjustSlopeOnly(t *testing.T) {
	medium := ProfileFor(Medium)
	out := Adjust(medium, Context{BandSlope: indicators.Defined(-0.15)})
	assert.InDelta(t, 0.25, out.BuyTranches[0], 1e-9)
	// Slope above the tighten threshold leaves the stop alone.
	assert.InDelta(t, 0.07, out.StopLossPct, 1e-9)
}

func TestAdjustUndefinedContextIsIdentity(t *testing.T) {
	medium := ProfileFor(Medium)
	out := Adjust(medium, Context{})
	assert.Equal(t, medium.BuyTranches, out.BuyTranches)
	assert.Equal(t, medium.StopLossPct, out.StopLossPct)
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	p := ProfileFor(High)
	before := p.BuyTranches[0]
	_ = Adjust(p, Context{Volatility: indicators.Defined(40)})
	assert.Equal(t, before, p.BuyTranches[0])
}
