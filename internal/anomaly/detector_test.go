package anomaly

import (
	"errors"
	"testing"
	"time"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Threshold(t *testing.T) {
	tests := []struct {
		name        string
		current     float64
		wantMult    float64
		wantAnomaly bool
	}{
		{name: "above threshold", current: 2500, wantMult: 2.5, wantAnomaly: true},
		{name: "below threshold", current: 1900, wantMult: 1.9, wantAnomaly: false},
		{name: "exactly at threshold", current: 2000, wantMult: 2.0, wantAnomaly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(2.0, BaselinePrior)
			h := NewHistory(10)
			h.Push(1000)

			ev, err := d.Evaluate("BTCUSDT", models.Spot, []float64{1000, tt.current}, h)
			require.NoError(t, err)
			assert.InDelta(t, 1000, ev.HistoricalAverage, 1e-9)
			assert.InDelta(t, tt.wantMult, ev.Multiplier, 1e-9)
			assert.Equal(t, tt.wantAnomaly, ev.IsAnomaly)
		})
	}
}

func TestDetector_EmptyHistoryNeverDivides(t *testing.T) {
	for _, mode := range []BaselineMode{BaselineInclusive, BaselinePrior} {
		t.Run(string(mode), func(t *testing.T) {
			d := NewDetector(2.0, mode)
			h := NewHistory(5)

			ev, err := d.Evaluate("BTC_USDT", models.Futures, []float64{0, 0}, h)
			require.NoError(t, err)
			assert.True(t, ev.Insufficient)
			assert.False(t, ev.IsAnomaly)
			assert.Zero(t, ev.Multiplier)
			assert.Equal(t, 1, ev.HistoryLen)
			assert.Equal(t, 5, ev.HistoryCap)
		})
	}
}

func TestDetector_PriorModeFirstSampleInsufficient(t *testing.T) {
	d := NewDetector(2.0, BaselinePrior)
	h := NewHistory(5)

	ev, err := d.Evaluate("ETHUSDT", models.Spot, []float64{100, 500}, h)
	require.NoError(t, err)
	assert.True(t, ev.Insufficient)
	assert.Equal(t, []float64{500}, h.Values())
}

func TestDetector_ShortSeries(t *testing.T) {
	d := NewDetector(2.0, BaselineInclusive)
	h := NewHistory(5)

	_, err := d.Evaluate("ETHUSDT", models.Spot, []float64{100}, h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortSeries))
	assert.Zero(t, h.Size())
}

func TestDetector_ShortTermAverage(t *testing.T) {
	d := NewDetector(2.0, BaselineInclusive)
	ev, err := d.Evaluate("ETHUSDT", models.Spot, []float64{10, 20, 30, 99}, NewHistory(3))
	require.NoError(t, err)
	assert.InDelta(t, 20, ev.ShortTermAverage, 1e-9)
	assert.Equal(t, 99.0, ev.CurrentVolume)
}

func TestDetector_InclusiveScenario(t *testing.T) {
	d := NewDetector(2.0, BaselineInclusive)
	h := NewHistory(3)

	cycles := [][]float64{
		{50, 100},
		{100, 100},
		{100, 100},
		{100, 500},
	}

	var ev models.Evaluation
	for i, series := range cycles {
		var err error
		ev, err = d.Evaluate("BTCUSDT", models.Spot, series, h)
		require.NoError(t, err)
		if i < 3 {
			assert.False(t, ev.IsAnomaly, "cycle %d", i+1)
			assert.InDelta(t, 1.0, ev.Multiplier, 1e-9)
		}
	}

	assert.Equal(t, []float64{100, 100, 500}, h.Values())
	assert.InDelta(t, 233.3333333, ev.HistoricalAverage, 1e-6)
	assert.InDelta(t, 2.142857, ev.Multiplier, 1e-6)
	assert.True(t, ev.IsAnomaly)

	event := ev.Event(time.Unix(1_700_000_000, 0))
	assert.Equal(t, "BTCUSDT", event.Symbol)
	assert.Equal(t, ev.Multiplier, event.Multiplier)
	assert.Equal(t, int64(1_700_000_000), event.DetectedAt.Unix())
}

func TestParseBaselineMode(t *testing.T) {
	m, err := ParseBaselineMode("")
	require.NoError(t, err)
	assert.Equal(t, BaselineInclusive, m)

	m, err = ParseBaselineMode("Prior")
	require.NoError(t, err)
	assert.Equal(t, BaselinePrior, m)

	_, err = ParseBaselineMode("median")
	assert.Error(t, err)
}
