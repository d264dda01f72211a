package mexc

import (
	"fmt"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/market"
	httpClient "github.com/Alias1177/VolumeMonitor/internal/platform/http"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSpotBaseURL    = "https://api.mexc.com"
	DefaultFuturesBaseURL = "https://contract.mexc.com"

	spotTradeURL    = "https://www.mexc.com/exchange/%s"
	futuresTradeURL = "https://futures.mexc.com/exchange/%s"
)

// ClientOptions holds options for creating the MEXC sources
type ClientOptions struct {
	SpotBaseURL    string
	FuturesBaseURL string
	RequestTimeout time.Duration
	RequestsPerSec int
	// Now is used to compute futures kline windows. Defaults to time.Now.
	Now func() time.Time
}

// NewVenue creates spot and futures sources sharing one rate-limited HTTP client.
func NewVenue(opts ClientOptions) *market.Sources {
	if opts.SpotBaseURL == "" {
		opts.SpotBaseURL = DefaultSpotBaseURL
	}
	if opts.FuturesBaseURL == "" {
		opts.FuturesBaseURL = DefaultFuturesBaseURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	hc := httpClient.NewClient(httpClient.ClientOptions{
		Timeout:        opts.RequestTimeout,
		RequestsPerSec: opts.RequestsPerSec,
	})

	return &market.Sources{
		VenueName: "mexc",
		Spot: &SpotSource{
			baseURL: opts.SpotBaseURL,
			http:    hc,
			logger:  log.With().Str("component", "mexc_spot").Logger(),
		},
		Futures: &FuturesSource{
			baseURL: opts.FuturesBaseURL,
			http:    hc,
			now:     opts.Now,
			logger:  log.With().Str("component", "mexc_futures").Logger(),
		},
		URL: TradeURL,
	}
}

// TradeURL links to the MEXC trading page for the symbol
func TradeURL(symbol string, mt models.MarketType) string {
	if mt == models.Futures {
		return fmt.Sprintf(futuresTradeURL, symbol)
	}
	return fmt.Sprintf(spotTradeURL, symbol)
}

