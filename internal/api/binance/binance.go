package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/market"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	spotTradeURL    = "https://www.binance.com/en/trade/%s?type=spot"
	futuresTradeURL = "https://www.binance.com/en/futures/%s"
)

// ClientOptions holds options for the Binance sources
type ClientOptions struct {
	APIKey         string
	APISecret      string
	RequestTimeout time.Duration
	// Base URL overrides, mostly for tests.
	SpotBaseURL    string
	FuturesBaseURL string
}

// NewVenue creates spot and futures sources backed by go-binance.
func NewVenue(opts ClientOptions) *market.Sources {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	spot := binance.NewClient(opts.APIKey, opts.APISecret)
	spot.HTTPClient = &http.Client{Timeout: opts.RequestTimeout}
	if opts.SpotBaseURL != "" {
		spot.BaseURL = opts.SpotBaseURL
	}

	fut := futures.NewClient(opts.APIKey, opts.APISecret)
	fut.HTTPClient = &http.Client{Timeout: opts.RequestTimeout}
	if opts.FuturesBaseURL != "" {
		fut.BaseURL = opts.FuturesBaseURL
	}

	return &market.Sources{
		VenueName: "binance",
		Spot: &SpotSource{
			cli:    spot,
			logger: log.With().Str("component", "binance_spot").Logger(),
		},
		Futures: &FuturesSource{
			cli:    fut,
			logger: log.With().Str("component", "binance_futures").Logger(),
		},
		URL: TradeURL,
	}
}

// TradeURL links to the Binance trading page for the symbol
func TradeURL(symbol string, mt models.MarketType) string {
	if mt == models.Futures {
		return fmt.Sprintf(futuresTradeURL, apiSymbol(symbol))
	}
	return fmt.Sprintf(spotTradeURL, symbol)
}

// apiSymbol converts BTC_USDT to the BTCUSDT form the Binance API expects.
func apiSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(symbol), market.FuturesSeparator, "")
}

func interval(minutes int) (string, error) {
	switch minutes {
	case 1, 3, 5, 15, 30:
		return fmt.Sprintf("%dm", minutes), nil
	case 60:
		return "1h", nil
	case 120, 240, 360, 480, 720:
		return fmt.Sprintf("%dh", minutes/60), nil
	case 1440:
		return "1d", nil
	default:
		return "", fmt.Errorf("unsupported interval: %d minutes", minutes)
	}
}

// SpotSource reads Binance spot klines
type SpotSource struct {
	cli    *binance.Client
	logger zerolog.Logger
}

var (
	_ models.VolumeSource = (*SpotSource)(nil)
	_ models.TickerLister = (*SpotSource)(nil)
)

func (s *SpotSource) FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error) {
	iv, err := interval(intervalMinutes)
	if err != nil {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, err)
	}

	klines, err := s.cli.NewKlinesService().Symbol(apiSymbol(symbol)).Interval(iv).Limit(count).Do(ctx)
	if err != nil {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, err)
	}
	if len(klines) == 0 {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, fmt.Errorf("empty data returned"))
	}

	raw := make([]string, len(klines))
	for i, k := range klines {
		raw[i] = k.QuoteAssetVolume
	}
	s.logger.Debug().Str("symbol", symbol).Int("count", len(raw)).Msg("Fetched klines")
	return market.CoerceSeries(raw, count), nil
}

func (s *SpotSource) Fetch24hVolume(ctx context.Context, symbol string) (float64, error) {
	stats, err := s.cli.NewListPriceChangeStatsService().Symbol(apiSymbol(symbol)).Do(ctx)
	if err != nil {
		return 0, market.Unavailable("spot ticker", symbol, models.Spot, err)
	}
	if len(stats) == 0 {
		return 0, market.Unavailable("spot ticker", symbol, models.Spot, fmt.Errorf("empty data returned"))
	}
	return market.CoerceVolume(stats[0].QuoteVolume), nil
}

func (s *SpotSource) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	stats, err := s.cli.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, market.Unavailable("spot tickers", "*", models.Spot, err)
	}

	out := make([]models.Ticker, 0, len(stats))
	for _, st := range stats {
		out = append(out, models.Ticker{
			Symbol:             st.Symbol,
			MarketType:         models.Spot,
			QuoteVolume:        market.CoerceVolume(st.QuoteVolume),
			PriceChangePercent: signed(st.PriceChangePercent),
			LastPrice:          market.CoerceVolume(st.LastPrice),
		})
	}
	return out, nil
}

// FuturesSource reads Binance USD-M futures klines
type FuturesSource struct {
	cli    *futures.Client
	logger zerolog.Logger
}

var (
	_ models.VolumeSource = (*FuturesSource)(nil)
	_ models.TickerLister = (*FuturesSource)(nil)
)

func (s *FuturesSource) FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error) {
	iv, err := interval(intervalMinutes)
	if err != nil {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, err)
	}

	klines, err := s.cli.NewKlinesService().Symbol(apiSymbol(symbol)).Interval(iv).Limit(count).Do(ctx)
	if err != nil {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, err)
	}
	if len(klines) == 0 {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, fmt.Errorf("empty data returned"))
	}

	raw := make([]string, len(klines))
	for i, k := range klines {
		raw[i] = k.QuoteAssetVolume
	}
	s.logger.Debug().Str("symbol", symbol).Int("count", len(raw)).Msg("Fetched klines")
	return market.CoerceSeries(raw, count), nil
}

func (s *FuturesSource) Fetch24hVolume(ctx context.Context, symbol string) (float64, error) {
	stats, err := s.cli.NewListPriceChangeStatsService().Symbol(apiSymbol(symbol)).Do(ctx)
	if err != nil {
		return 0, market.Unavailable("futures ticker", symbol, models.Futures, err)
	}
	if len(stats) == 0 {
		return 0, market.Unavailable("futures ticker", symbol, models.Futures, fmt.Errorf("empty data returned"))
	}
	return market.CoerceVolume(stats[0].QuoteVolume), nil
}

func (s *FuturesSource) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	stats, err := s.cli.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, market.Unavailable("futures tickers", "*", models.Futures, err)
	}

	out := make([]models.Ticker, 0, len(stats))
	for _, st := range stats {
		out = append(out, models.Ticker{
			Symbol:             st.Symbol,
			MarketType:         models.Futures,
			QuoteVolume:        market.CoerceVolume(st.QuoteVolume),
			PriceChangePercent: signed(st.PriceChangePercent),
			LastPrice:          market.CoerceVolume(st.LastPrice),
		})
	}
	return out, nil
}

func signed(s string) float64 {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return -market.CoerceVolume(s[1:])
	}
	return market.CoerceVolume(s)
}
