// Package screener ranks 24h tickers to help pick symbols worth monitoring.
package screener

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/samber/lo"
)

// Preset holds the thresholds used by Suggest for one market type.
type Preset struct {
	LowCapMin         float64
	LowCapMax         float64
	MinChangePercent  float64
	VolatileMinVolume float64

	TopVolumeN int
	VolatileN  int
	LowCapN    int
	MaxSymbols int
}

var (
	SpotPreset = Preset{
		LowCapMin:         50_000,
		LowCapMax:         300_000,
		MinChangePercent:  15,
		VolatileMinVolume: 10_000,
		VolatileN:         5,
		LowCapN:           5,
		MaxSymbols:        10,
	}
	FuturesPreset = Preset{
		LowCapMin:         100_000,
		LowCapMax:         1_000_000,
		MinChangePercent:  5,
		VolatileMinVolume: 100_000,
		TopVolumeN:        3,
		VolatileN:         3,
		LowCapN:           4,
		MaxSymbols:        10,
	}
)

// PresetFor returns the default preset of a market type.
func PresetFor(mt models.MarketType) Preset {
	if mt == models.Futures {
		return FuturesPreset
	}
	return SpotPreset
}

// Screener loads tickers from a venue and keeps the ones quoted in Quote.
type Screener struct {
	lister models.TickerLister
	quote  string
}

func New(lister models.TickerLister, quote string) *Screener {
	if quote == "" {
		quote = "USDT"
	}
	return &Screener{lister: lister, quote: strings.ToUpper(quote)}
}

// Tickers fetches all tickers quoted in the screener's quote asset.
func (s *Screener) Tickers(ctx context.Context) ([]models.Ticker, error) {
	tickers, err := s.lister.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tickers: %w", err)
	}
	return Quoted(tickers, s.quote), nil
}

// Quoted keeps tickers whose symbol ends with the quote asset.
func Quoted(tickers []models.Ticker, quote string) []models.Ticker {
	return lo.Filter(tickers, func(t models.Ticker, _ int) bool {
		return strings.HasSuffix(t.Symbol, quote)
	})
}

// TopVolume returns the limit highest 24h volumes, highest first.
func TopVolume(tickers []models.Ticker, limit int) []models.Ticker {
	out := lo.Filter(tickers, func(t models.Ticker, _ int) bool {
		return t.QuoteVolume > 0
	})
	sortBy(out, func(t models.Ticker) float64 { return t.QuoteVolume })
	return head(out, limit)
}

// HighVolatility returns tickers whose absolute price change is at least
// minChangePercent and whose volume exceeds minVolume, most volatile first.
func HighVolatility(tickers []models.Ticker, minChangePercent, minVolume float64) []models.Ticker {
	out := lo.Filter(tickers, func(t models.Ticker, _ int) bool {
		return math.Abs(t.PriceChangePercent) >= minChangePercent && t.QuoteVolume > minVolume
	})
	sortBy(out, func(t models.Ticker) float64 { return math.Abs(t.PriceChangePercent) })
	return out
}

// LowCap returns tickers with 24h volume in [minVolume, maxVolume], highest first.
func LowCap(tickers []models.Ticker, minVolume, maxVolume float64) []models.Ticker {
	out := lo.Filter(tickers, func(t models.Ticker, _ int) bool {
		return t.QuoteVolume >= minVolume && t.QuoteVolume <= maxVolume
	})
	sortBy(out, func(t models.Ticker) float64 { return t.QuoteVolume })
	return out
}

// Suggest combines the top volume, volatile and low cap lists into a
// de-duplicated symbol list.
func Suggest(tickers []models.Ticker, p Preset) []string {
	var picks []models.Ticker
	picks = append(picks, head(TopVolume(tickers, p.TopVolumeN), p.TopVolumeN)...)
	picks = append(picks, head(HighVolatility(tickers, p.MinChangePercent, p.VolatileMinVolume), p.VolatileN)...)
	picks = append(picks, head(LowCap(tickers, p.LowCapMin, p.LowCapMax), p.LowCapN)...)

	symbols := lo.Uniq(lo.Map(picks, func(t models.Ticker, _ int) string {
		return t.Symbol
	}))
	return head(symbols, p.MaxSymbols)
}

func sortBy(tickers []models.Ticker, key func(models.Ticker) float64) {
	sort.SliceStable(tickers, func(i, j int) bool {
		return key(tickers[i]) > key(tickers[j])
	})
}

func head[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
