package screener

import (
	"context"
	"errors"
	"testing"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	tickers []models.Ticker
	err     error
}

func (f fakeLister) ListTickers(context.Context) ([]models.Ticker, error) {
	return f.tickers, f.err
}

func ticker(symbol string, volume, change float64) models.Ticker {
	return models.Ticker{Symbol: symbol, MarketType: models.Spot, QuoteVolume: volume, PriceChangePercent: change}
}

func symbols(tickers []models.Ticker) []string {
	out := make([]string, len(tickers))
	for i, t := range tickers {
		out[i] = t.Symbol
	}
	return out
}

var sample = []models.Ticker{
	ticker("BTCUSDT", 900_000_000, 1.2),
	ticker("ETHUSDT", 400_000_000, -2.5),
	ticker("PEPEUSDT", 250_000, 35),
	ticker("DOGEUSDT", 120_000, -18),
	ticker("TINYUSDT", 60_000, 3),
	ticker("DUSTUSDT", 5_000, 80),
	ticker("ETHBTC", 1_000_000, 20),
}

func TestScreener_Tickers(t *testing.T) {
	s := New(fakeLister{tickers: sample}, "")
	got, err := s.Tickers(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, symbols(got), "ETHBTC")
	assert.Len(t, got, 6)

	_, err = New(fakeLister{err: errors.New("down")}, "USDT").Tickers(context.Background())
	assert.Error(t, err)
}

func TestTopVolume(t *testing.T) {
	got := TopVolume(Quoted(sample, "USDT"), 2)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols(got))
}

func TestHighVolatility(t *testing.T) {
	got := HighVolatility(Quoted(sample, "USDT"), 15, 10_000)
	assert.Equal(t, []string{"PEPEUSDT", "DOGEUSDT"}, symbols(got))
}

func TestLowCap(t *testing.T) {
	got := LowCap(Quoted(sample, "USDT"), 50_000, 300_000)
	assert.Equal(t, []string{"PEPEUSDT", "DOGEUSDT", "TINYUSDT"}, symbols(got))
}

func TestSuggest(t *testing.T) {
	got := Suggest(Quoted(sample, "USDT"), SpotPreset)
	assert.Equal(t, []string{"PEPEUSDT", "DOGEUSDT", "TINYUSDT"}, got)

	p := FuturesPreset
	p.LowCapMin, p.LowCapMax = 50_000, 300_000
	p.VolatileMinVolume = 10_000
	got = Suggest(Quoted(sample, "USDT"), p)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "PEPEUSDT", "DOGEUSDT", "TINYUSDT"}, got)
}

func TestPresetFor(t *testing.T) {
	assert.Equal(t, FuturesPreset, PresetFor(models.Futures))
	assert.Equal(t, SpotPreset, PresetFor(models.Spot))
}
