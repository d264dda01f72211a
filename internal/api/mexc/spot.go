package mexc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/Alias1177/VolumeMonitor/internal/market"
	httpClient "github.com/Alias1177/VolumeMonitor/internal/platform/http"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog"
)

// spot kline row: [openTime, open, high, low, close, volume, closeTime, quoteVolume]
const spotQuoteVolumeIndex = 7

// SpotSource reads the MEXC spot REST API
type SpotSource struct {
	baseURL string
	http    *httpClient.Client
	logger  zerolog.Logger
}

var (
	_ models.VolumeSource = (*SpotSource)(nil)
	_ models.TickerLister = (*SpotSource)(nil)
)

type spotTicker struct {
	Symbol             string `json:"symbol"`
	PriceChangePercent string `json:"priceChangePercent"`
	LastPrice          string `json:"lastPrice"`
	QuoteVolume        string `json:"quoteVolume"`
}

func (t spotTicker) toModel() models.Ticker {
	return models.Ticker{
		Symbol:             t.Symbol,
		MarketType:         models.Spot,
		QuoteVolume:        market.CoerceVolume(t.QuoteVolume),
		PriceChangePercent: parseSigned(t.PriceChangePercent),
		LastPrice:          market.CoerceVolume(t.LastPrice),
	}
}

// FetchRecentVolumeSeries fetches the last count klines and returns their quote volumes
func (s *SpotSource) FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error) {
	interval, err := spotInterval(intervalMinutes)
	if err != nil {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, err)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", fmt.Sprint(count))

	s.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("limit", count).Msg("Fetching klines")

	var rows [][]json.RawMessage
	if err := s.http.GetJSON(ctx, s.baseURL+"/api/v3/klines?"+q.Encode(), &rows); err != nil {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, err)
	}
	if len(rows) == 0 {
		return nil, market.Unavailable("spot klines", symbol, models.Spot, fmt.Errorf("empty data returned"))
	}

	raw := make([]any, len(rows))
	for i, row := range rows {
		if len(row) <= spotQuoteVolumeIndex {
			continue
		}
		raw[i] = decodeScalar(row[spotQuoteVolumeIndex])
	}

	volumes := market.CoerceSeries(raw, count)
	s.logger.Debug().Int("count", len(volumes)).Msg("Fetched klines")
	return volumes, nil
}

// Fetch24hVolume returns the 24h quote volume
func (s *SpotSource) Fetch24hVolume(ctx context.Context, symbol string) (float64, error) {
	var t spotTicker
	if err := s.http.GetJSON(ctx, s.baseURL+"/api/v3/ticker/24hr?symbol="+url.QueryEscape(symbol), &t); err != nil {
		return 0, market.Unavailable("spot ticker", symbol, models.Spot, err)
	}
	return t.toModel().QuoteVolume, nil
}

// ListTickers returns 24h tickers for every spot symbol
func (s *SpotSource) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	var tickers []spotTicker
	if err := s.http.GetJSON(ctx, s.baseURL+"/api/v3/ticker/24hr", &tickers); err != nil {
		return nil, market.Unavailable("spot tickers", "*", models.Spot, err)
	}

	out := make([]models.Ticker, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, t.toModel())
	}
	return out, nil
}

func spotInterval(minutes int) (string, error) {
	switch minutes {
	case 1, 5, 15, 30, 60:
		return fmt.Sprintf("%dm", minutes), nil
	case 240:
		return "4h", nil
	case 1440:
		return "1d", nil
	default:
		return "", fmt.Errorf("unsupported spot interval: %d minutes", minutes)
	}
}

// decodeScalar turns a raw JSON scalar into a string or json.Number.
func decodeScalar(raw json.RawMessage) any {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}
