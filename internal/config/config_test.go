package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/anomaly"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SYMBOLS", "btcusdt, ETH_USDT ,")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETH_USDT"}, cfg.Symbols)
	assert.Equal(t, 2.0, cfg.VolumeMultiplier)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, time.Second, cfg.SymbolDelay)
	assert.Equal(t, 24, cfg.HistorySize)
	assert.Equal(t, 5, cfg.CandleIntervalMinutes)
	assert.Equal(t, 12, cfg.CandleCount)
	assert.Equal(t, anomaly.BaselineInclusive, cfg.BaselineMode)
	assert.Equal(t, VenueMEXC, cfg.Venue)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.AlertsEnabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SYMBOLS", "BTCUSDT,PEPE")
	t.Setenv("MARKET_TYPES", "PEPE=futures")
	t.Setenv("VOLUME_MULTIPLIER", "3.5")
	t.Setenv("POLL_INTERVAL_MS", "30000")
	t.Setenv("HISTORY_SIZE", "10")
	t.Setenv("BASELINE_MODE", "prior")
	t.Setenv("ALERT_COOLDOWN_MS", "600000")
	t.Setenv("VENUE", "Binance")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123, 42")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, map[string]models.MarketType{"PEPE": models.Futures}, cfg.MarketTypes)
	assert.Equal(t, 3.5, cfg.VolumeMultiplier)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, anomaly.BaselinePrior, cfg.BaselineMode)
	assert.Equal(t, 10*time.Minute, cfg.AlertCooldown)
	assert.Equal(t, VenueBinance, cfg.Venue)
	assert.Equal(t, []int64{-100123, 42}, cfg.TelegramChatIDs)
	assert.True(t, cfg.AlertsEnabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
symbols: [BTCUSDT, SOL_USDT]
market_types:
  BTCUSDT: futures
volume_multiplier: 4
poll_interval: 2m
history_size: 6
telegram:
  chat_ids: [1, 2]
database:
  host: localhost
  name: alerts
status_addr: ":8080"
`), 0o600))

	t.Setenv("HISTORY_SIZE", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "SOL_USDT"}, cfg.Symbols)
	assert.Equal(t, models.Futures, cfg.MarketTypes["BTCUSDT"])
	assert.Equal(t, 4.0, cfg.VolumeMultiplier)
	assert.Equal(t, 2*time.Minute, cfg.PollInterval)
	assert.Equal(t, 8, cfg.HistorySize)
	assert.Equal(t, []int64{1, 2}, cfg.TelegramChatIDs)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, ":8080", cfg.StatusAddr)
}

func TestLoad_RequestTimeoutFromFile(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		env      string
		expected time.Duration
	}{
		{name: "sub-second kept", yaml: "1500ms", expected: 1500 * time.Millisecond},
		{name: "below one second", yaml: "500ms", expected: 500 * time.Millisecond},
		{name: "env seconds override", yaml: "1500ms", env: "3", expected: 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "monitor.yaml")
			require.NoError(t, os.WriteFile(path, []byte("symbols: [BTCUSDT]\nrequest_timeout: "+tt.yaml+"\n"), 0o600))
			t.Setenv("SYMBOLS", "")
			t.Setenv("REQUEST_TIMEOUT", tt.env)

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.RequestTimeout)
		})
	}
}

func TestLoad_ValidationCollectsEveryProblem(t *testing.T) {
	t.Setenv("SYMBOLS", "BTCUSDT,btcusdt")
	t.Setenv("VOLUME_MULTIPLIER", "0.5")
	t.Setenv("HISTORY_SIZE", "zero")
	t.Setenv("CANDLE_COUNT", "1")
	t.Setenv("MARKET_TYPES", "BTCUSDT=options")

	_, err := Load("")
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Problems, 5)
	assert.Contains(t, err.Error(), "duplicate symbols BTCUSDT")
	assert.Contains(t, err.Error(), "VOLUME_MULTIPLIER")
	assert.Contains(t, err.Error(), "HISTORY_SIZE")
	assert.Contains(t, err.Error(), "CANDLE_COUNT")
	assert.Contains(t, err.Error(), "options")
}

func TestLoad_MissingSymbols(t *testing.T) {
	t.Setenv("SYMBOLS", "")

	_, err := Load("")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Problems[0], "SYMBOLS")
}

func TestParseChatIDs(t *testing.T) {
	ids, err := ParseChatIDs("1, -2,,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, ids)

	_, err = ParseChatIDs("1,abc")
	assert.Error(t, err)
}
