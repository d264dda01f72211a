// Package market classifies symbols by market type and normalizes upstream
// volume data so the detector sees one shape regardless of venue.
package market

import (
	"strings"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/samber/lo"
)

// FuturesSeparator marks a futures contract symbol, e.g. BTC_USDT.
const FuturesSeparator = "_"

// Resolve maps a symbol to its market type. An explicit override wins over the
// naming convention.
func Resolve(symbol string, overrides map[string]models.MarketType) models.MarketType {
	if mt, ok := overrides[symbol]; ok {
		return mt
	}
	if strings.Contains(symbol, FuturesSeparator) {
		return models.Futures
	}
	return models.Spot
}

// ResolveAll classifies every symbol.
func ResolveAll(symbols []string, overrides map[string]models.MarketType) map[string]models.MarketType {
	return lo.SliceToMap(symbols, func(s string) (string, models.MarketType) {
		return s, Resolve(s, overrides)
	})
}

// Count returns how many symbols resolve to spot and to futures.
func Count(symbols []string, overrides map[string]models.MarketType) (spot, futures int) {
	futures = lo.CountBy(symbols, func(s string) bool {
		return Resolve(s, overrides) == models.Futures
	})
	return len(symbols) - futures, futures
}
