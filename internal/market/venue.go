package market

import (
	"fmt"

	"github.com/Alias1177/VolumeMonitor/models"
)

// Venue is an exchange offering a spot and a futures market.
type Venue interface {
	Name() string
	Source(mt models.MarketType) models.VolumeSource
	TradeURL(symbol string, mt models.MarketType) string
}

// Sources is a ready-made Venue built from its parts.
type Sources struct {
	VenueName string
	Spot      models.VolumeSource
	Futures   models.VolumeSource
	URL       func(symbol string, mt models.MarketType) string
}

var _ Venue = (*Sources)(nil)

func (s *Sources) Name() string {
	return s.VenueName
}

// Source picks the implementation for the market type.
func (s *Sources) Source(mt models.MarketType) models.VolumeSource {
	if mt == models.Futures {
		return s.Futures
	}
	return s.Spot
}

func (s *Sources) TradeURL(symbol string, mt models.MarketType) string {
	if s.URL == nil {
		return ""
	}
	return s.URL(symbol, mt)
}

// ErrUnknownVenue is returned for venue names that have no implementation.
type ErrUnknownVenue string

func (e ErrUnknownVenue) Error() string {
	return fmt.Sprintf("unknown venue %q", string(e))
}
