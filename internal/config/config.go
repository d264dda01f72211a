package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/anomaly"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	VenueMEXC    = "mexc"
	VenueBinance = "binance"
)

// Config holds all application configuration
type Config struct {
	Symbols               []string
	MarketTypes           map[string]models.MarketType
	VolumeMultiplier      float64
	PollInterval          time.Duration
	SymbolDelay           time.Duration
	HistorySize           int
	CandleIntervalMinutes int
	CandleCount           int
	BaselineMode          anomaly.BaselineMode
	AlertCooldown         time.Duration

	Venue            string
	BinanceAPIKey    string
	BinanceAPISecret string
	RequestTimeout   time.Duration
	RequestsPerSec   int

	TelegramBotToken string
	TelegramChatIDs  []int64

	Database Database

	StatusAddr    string
	ShutdownGrace time.Duration
	LogLevel      string
}

// Database holds optional PostgreSQL settings for the subscriber store
type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// AlertsEnabled reports whether a Telegram token was supplied.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramBotToken != ""
}

// fileConfig mirrors Config in the YAML file. Zero values are left unset.
type fileConfig struct {
	Symbols               []string          `yaml:"symbols"`
	MarketTypes           map[string]string `yaml:"market_types"`
	VolumeMultiplier      float64           `yaml:"volume_multiplier"`
	PollInterval          time.Duration     `yaml:"poll_interval"`
	SymbolDelay           time.Duration     `yaml:"symbol_delay"`
	HistorySize           int               `yaml:"history_size"`
	CandleIntervalMinutes int               `yaml:"candle_interval_minutes"`
	CandleCount           int               `yaml:"candle_count"`
	BaselineMode          string            `yaml:"baseline_mode"`
	AlertCooldown         time.Duration     `yaml:"alert_cooldown"`
	Venue                 string            `yaml:"venue"`
	RequestTimeout        time.Duration     `yaml:"request_timeout"`
	RequestsPerSec        int               `yaml:"requests_per_sec"`
	Telegram              struct {
		BotToken string  `yaml:"bot_token"`
		ChatIDs  []int64 `yaml:"chat_ids"`
	} `yaml:"telegram"`
	Database      Database      `yaml:"database"`
	StatusAddr    string        `yaml:"status_addr"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	LogLevel      string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		MarketTypes:           map[string]models.MarketType{},
		VolumeMultiplier:      2.0,
		PollInterval:          60 * time.Second,
		SymbolDelay:           time.Second,
		HistorySize:           24,
		CandleIntervalMinutes: 5,
		CandleCount:           12,
		BaselineMode:          anomaly.BaselineInclusive,
		Venue:                 VenueMEXC,
		RequestTimeout:        10 * time.Second,
		RequestsPerSec:        5,
		ShutdownGrace:         5 * time.Second,
		LogLevel:              "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. The result is validated.
func Load(path string) (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	cfg := Default()
	l := &loader{}

	if path != "" {
		if err := l.applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	l.applyEnv(cfg)

	if err := cfg.validate(l.problems); err != nil {
		return nil, err
	}
	return cfg, nil
}

type loader struct {
	problems []string
}

func (l *loader) addf(format string, args ...any) {
	l.problems = append(l.problems, fmt.Sprintf(format, args...))
}

func (l *loader) applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if len(fc.Symbols) > 0 {
		cfg.Symbols = normalizeSymbols(fc.Symbols)
	}
	for sym, mt := range fc.MarketTypes {
		l.setMarketType(cfg, sym, mt)
	}
	if fc.VolumeMultiplier != 0 {
		cfg.VolumeMultiplier = fc.VolumeMultiplier
	}
	if fc.PollInterval != 0 {
		cfg.PollInterval = fc.PollInterval
	}
	if fc.SymbolDelay != 0 {
		cfg.SymbolDelay = fc.SymbolDelay
	}
	if fc.HistorySize != 0 {
		cfg.HistorySize = fc.HistorySize
	}
	if fc.CandleIntervalMinutes != 0 {
		cfg.CandleIntervalMinutes = fc.CandleIntervalMinutes
	}
	if fc.CandleCount != 0 {
		cfg.CandleCount = fc.CandleCount
	}
	if fc.BaselineMode != "" {
		l.setBaselineMode(cfg, fc.BaselineMode)
	}
	if fc.AlertCooldown != 0 {
		cfg.AlertCooldown = fc.AlertCooldown
	}
	if fc.Venue != "" {
		cfg.Venue = strings.ToLower(fc.Venue)
	}
	if fc.RequestTimeout != 0 {
		cfg.RequestTimeout = fc.RequestTimeout
	}
	if fc.RequestsPerSec != 0 {
		cfg.RequestsPerSec = fc.RequestsPerSec
	}
	if fc.Telegram.BotToken != "" {
		cfg.TelegramBotToken = fc.Telegram.BotToken
	}
	if len(fc.Telegram.ChatIDs) > 0 {
		cfg.TelegramChatIDs = fc.Telegram.ChatIDs
	}
	if fc.Database != (Database{}) {
		cfg.Database = fc.Database
	}
	if fc.StatusAddr != "" {
		cfg.StatusAddr = fc.StatusAddr
	}
	if fc.ShutdownGrace != 0 {
		cfg.ShutdownGrace = fc.ShutdownGrace
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}

func (l *loader) applyEnv(cfg *Config) {
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = normalizeSymbols(strings.Split(v, ","))
	}
	if v := os.Getenv("MARKET_TYPES"); v != "" {
		for _, pair := range strings.Split(v, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			sym, mt, ok := strings.Cut(pair, "=")
			if !ok {
				l.addf("MARKET_TYPES: entry %q must look like SYMBOL=spot|futures", pair)
				continue
			}
			l.setMarketType(cfg, sym, mt)
		}
	}

	cfg.VolumeMultiplier = l.getEnvFloatWithDefault("VOLUME_MULTIPLIER", cfg.VolumeMultiplier)
	cfg.PollInterval = l.getEnvMillisWithDefault("POLL_INTERVAL_MS", cfg.PollInterval)
	cfg.SymbolDelay = l.getEnvMillisWithDefault("SYMBOL_DELAY_MS", cfg.SymbolDelay)
	cfg.HistorySize = l.getEnvIntWithDefault("HISTORY_SIZE", cfg.HistorySize)
	cfg.CandleIntervalMinutes = l.getEnvIntWithDefault("CANDLE_INTERVAL_MINUTES", cfg.CandleIntervalMinutes)
	cfg.CandleCount = l.getEnvIntWithDefault("CANDLE_COUNT", cfg.CandleCount)
	if v := os.Getenv("BASELINE_MODE"); v != "" {
		l.setBaselineMode(cfg, v)
	}
	cfg.AlertCooldown = l.getEnvMillisWithDefault("ALERT_COOLDOWN_MS", cfg.AlertCooldown)

	cfg.Venue = strings.ToLower(getEnvWithDefault("VENUE", cfg.Venue))
	cfg.BinanceAPIKey = getEnvWithDefault("BINANCE_API_KEY", cfg.BinanceAPIKey)
	cfg.BinanceAPISecret = getEnvWithDefault("BINANCE_API_SECRET", cfg.BinanceAPISecret)
	if os.Getenv("REQUEST_TIMEOUT") != "" {
		cfg.RequestTimeout = time.Duration(l.getEnvIntWithDefault("REQUEST_TIMEOUT", int(cfg.RequestTimeout/time.Second))) * time.Second
	}
	cfg.RequestsPerSec = l.getEnvIntWithDefault("REQUESTS_PER_SEC", cfg.RequestsPerSec)

	cfg.TelegramBotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		ids, err := ParseChatIDs(v)
		if err != nil {
			l.addf("TELEGRAM_CHAT_ID: %v", err)
		} else {
			cfg.TelegramChatIDs = ids
		}
	}

	cfg.Database.Host = getEnvWithDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvWithDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnvWithDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnvWithDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnvWithDefault("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.StatusAddr = getEnvWithDefault("STATUS_ADDR", cfg.StatusAddr)
	cfg.ShutdownGrace = l.getEnvMillisWithDefault("SHUTDOWN_GRACE_MS", cfg.ShutdownGrace)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
}

func (l *loader) setMarketType(cfg *Config, symbol, value string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	mt, err := models.ParseMarketType(value)
	if err != nil {
		l.addf("market type for %s: %v", symbol, err)
		return
	}
	cfg.MarketTypes[symbol] = mt
}

func (l *loader) setBaselineMode(cfg *Config, value string) {
	mode, err := anomaly.ParseBaselineMode(value)
	if err != nil {
		l.addf("BASELINE_MODE: %v", err)
		return
	}
	cfg.BaselineMode = mode
}

// ParseChatIDs parses a comma-separated list of Telegram chat ids.
func ParseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func normalizeSymbols(raw []string) []string {
	return lo.FilterMap(raw, func(s string, _ int) (string, bool) {
		s = strings.ToUpper(strings.TrimSpace(s))
		return s, s != ""
	})
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			l.addf("%s: %q is not an integer", key, value)
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}

func (l *loader) getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			l.addf("%s: %q is not a number", key, value)
			return defaultValue
		}
		return floatValue
	}
	return defaultValue
}

func (l *loader) getEnvMillisWithDefault(key string, defaultValue time.Duration) time.Duration {
	ms := l.getEnvIntWithDefault(key, int(defaultValue/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
