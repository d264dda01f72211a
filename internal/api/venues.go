// Package api builds the exchange clients selected by configuration.
package api

import (
	"github.com/Alias1177/VolumeMonitor/internal/api/binance"
	"github.com/Alias1177/VolumeMonitor/internal/api/mexc"
	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/market"
)

// NewVenue returns the spot and futures sources of the configured venue.
func NewVenue(cfg *config.Config) (*market.Sources, error) {
	switch cfg.Venue {
	case config.VenueMEXC, "":
		return mexc.NewVenue(mexc.ClientOptions{
			RequestTimeout: cfg.RequestTimeout,
			RequestsPerSec: cfg.RequestsPerSec,
		}), nil
	case config.VenueBinance:
		return binance.NewVenue(binance.ClientOptions{
			APIKey:         cfg.BinanceAPIKey,
			APISecret:      cfg.BinanceAPISecret,
			RequestTimeout: cfg.RequestTimeout,
		}), nil
	default:
		return nil, market.ErrUnknownVenue(cfg.Venue)
	}
}
