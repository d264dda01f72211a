package market

import (
	"testing"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		symbol    string
		overrides map[string]models.MarketType
		expected  models.MarketType
	}{
		{
			name:     "separator means futures",
			symbol:   "BTC_USDT",
			expected: models.Futures,
		},
		{
			name:     "no separator means spot",
			symbol:   "BTCUSDT",
			expected: models.Spot,
		},
		{
			name:      "override wins over convention",
			symbol:    "BTCUSDT",
			overrides: map[string]models.MarketType{"BTCUSDT": models.Futures},
			expected:  models.Futures,
		},
		{
			name:      "override can force spot",
			symbol:    "AUDIO_USDT",
			overrides: map[string]models.MarketType{"AUDIO_USDT": models.Spot},
			expected:  models.Spot,
		},
		{
			name:      "override for another symbol is ignored",
			symbol:    "ETH_USDT",
			overrides: map[string]models.MarketType{"BTCUSDT": models.Spot},
			expected:  models.Futures,
		},
		{
			name:     "empty symbol",
			symbol:   "",
			expected: models.Spot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.symbol, tt.overrides))
		})
	}
}

func TestCount(t *testing.T) {
	symbols := []string{"STABLEUSDT", "BTC_USDT", "AUDIO_USDT", "ETHUSDT"}
	spot, futures := Count(symbols, map[string]models.MarketType{"ETHUSDT": models.Futures})
	assert.Equal(t, 1, spot)
	assert.Equal(t, 3, futures)
}

func TestResolveAll(t *testing.T) {
	got := ResolveAll([]string{"BTCUSDT", "BTC_USDT"}, nil)
	assert.Equal(t, map[string]models.MarketType{
		"BTCUSDT":  models.Spot,
		"BTC_USDT": models.Futures,
	}, got)
}
