package market

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
)

func TestCoerceVolume(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "numeric string", input: "1234.56", expected: 1234.56},
		{name: "float", input: 42.5, expected: 42.5},
		{name: "json number", input: json.Number("10"), expected: 10},
		{name: "exponent string", input: "1.5e3", expected: 1500},
		{name: "negative string", input: "-5", expected: 0},
		{name: "negative float", input: -5.0, expected: 0},
		{name: "garbage", input: "abc", expected: 0},
		{name: "empty", input: "", expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "bool", input: true, expected: 0},
		{name: "nan", input: math.NaN(), expected: 0},
		{name: "inf", input: math.Inf(1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CoerceVolume(tt.input), 1e-9)
		})
	}
}

func TestCoerceSeries(t *testing.T) {
	raw := []any{"1", 2.0, "bad", "4", "5"}

	assert.Equal(t, []float64{1, 2, 0, 4, 5}, CoerceSeries(raw, 0))
	assert.Equal(t, []float64{4, 5}, CoerceSeries(raw, 2))
	assert.Equal(t, []float64{}, CoerceSeries([]any{}, 3))
}

func TestDataUnavailableError(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unavailable("spot klines", "BTCUSDT", models.Spot, cause)

	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.True(t, errors.Is(err, cause))

	var due *DataUnavailableError
	assert.True(t, errors.As(err, &due))
	assert.Equal(t, "BTCUSDT", due.Symbol)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSources_Source(t *testing.T) {
	spot := &fakeSource{}
	futures := &fakeSource{}
	v := &Sources{
		VenueName: "test",
		Spot:      spot,
		Futures:   futures,
		URL: func(symbol string, mt models.MarketType) string {
			return mt.String() + "/" + symbol
		},
	}

	assert.Same(t, spot, v.Source(models.Spot))
	assert.Same(t, futures, v.Source(models.Futures))
	assert.Equal(t, "futures/BTC_USDT", v.TradeURL("BTC_USDT", models.Futures))
	assert.Equal(t, "", (&Sources{}).TradeURL("X", models.Spot))
}
