package mexc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/market"
	httpClient "github.com/Alias1177/VolumeMonitor/internal/platform/http"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog"
)

// FuturesSource reads the MEXC contract REST API
type FuturesSource struct {
	baseURL string
	http    *httpClient.Client
	now     func() time.Time
	logger  zerolog.Logger
}

var (
	_ models.VolumeSource = (*FuturesSource)(nil)
	_ models.TickerLister = (*FuturesSource)(nil)
)

// envelope wraps every contract API response
type envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func (e envelope[T]) err() error {
	if !e.Success {
		return fmt.Errorf("contract API error: code=%d message=%q", e.Code, e.Message)
	}
	return nil
}

// contract klines are column oriented: one array per field
type futuresKlines struct {
	Time   []int64       `json:"time"`
	Amount []json.Number `json:"amount"` // quote volume
	Vol    []json.Number `json:"vol"`
}

type futuresTicker struct {
	Symbol       string      `json:"symbol"`
	LastPrice    json.Number `json:"lastPrice"`
	Volume24     json.Number `json:"volume24"`
	Amount24     json.Number `json:"amount24"`
	RiseFallRate json.Number `json:"riseFallRate"`
}

func (t futuresTicker) toModel() models.Ticker {
	quote := market.CoerceVolume(t.Amount24)
	if quote == 0 {
		quote = market.CoerceVolume(t.Volume24)
	}
	return models.Ticker{
		Symbol:             t.Symbol,
		MarketType:         models.Futures,
		QuoteVolume:        quote,
		PriceChangePercent: parseSigned(t.RiseFallRate.String()) * 100,
		LastPrice:          market.CoerceVolume(t.LastPrice),
	}
}

// FetchRecentVolumeSeries fetches the klines covering the last count intervals
func (s *FuturesSource) FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error) {
	interval, err := futuresInterval(intervalMinutes)
	if err != nil {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, err)
	}

	end := s.now().Unix()
	start := end - int64(count*intervalMinutes*60)

	q := url.Values{}
	q.Set("interval", interval)
	q.Set("start", strconv.FormatInt(start, 10))
	q.Set("end", strconv.FormatInt(end, 10))

	s.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int64("start", start).Msg("Fetching klines")

	var resp envelope[futuresKlines]
	u := s.baseURL + "/api/v1/contract/kline/" + url.PathEscape(symbol) + "?" + q.Encode()
	if err := s.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, err)
	}
	if err := resp.err(); err != nil {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, err)
	}
	if len(resp.Data.Amount) == 0 {
		return nil, market.Unavailable("futures klines", symbol, models.Futures, fmt.Errorf("empty data returned"))
	}

	volumes := market.CoerceSeries(resp.Data.Amount, count)
	s.logger.Debug().Int("count", len(volumes)).Msg("Fetched klines")
	return volumes, nil
}

// Fetch24hVolume returns the 24h turnover of the contract
func (s *FuturesSource) Fetch24hVolume(ctx context.Context, symbol string) (float64, error) {
	var resp envelope[futuresTicker]
	if err := s.http.GetJSON(ctx, s.baseURL+"/api/v1/contract/ticker?symbol="+url.QueryEscape(symbol), &resp); err != nil {
		return 0, market.Unavailable("futures ticker", symbol, models.Futures, err)
	}
	if err := resp.err(); err != nil {
		return 0, market.Unavailable("futures ticker", symbol, models.Futures, err)
	}
	return resp.Data.toModel().QuoteVolume, nil
}

// ListTickers returns tickers for every contract
func (s *FuturesSource) ListTickers(ctx context.Context) ([]models.Ticker, error) {
	var resp envelope[[]futuresTicker]
	if err := s.http.GetJSON(ctx, s.baseURL+"/api/v1/contract/ticker", &resp); err != nil {
		return nil, market.Unavailable("futures tickers", "*", models.Futures, err)
	}
	if err := resp.err(); err != nil {
		return nil, market.Unavailable("futures tickers", "*", models.Futures, err)
	}

	out := make([]models.Ticker, 0, len(resp.Data))
	for _, t := range resp.Data {
		if t.Symbol == "" {
			continue
		}
		out = append(out, t.toModel())
	}
	return out, nil
}

func futuresInterval(minutes int) (string, error) {
	switch minutes {
	case 1, 5, 15, 30, 60:
		return fmt.Sprintf("Min%d", minutes), nil
	case 240:
		return "Hour4", nil
	case 480:
		return "Hour8", nil
	case 1440:
		return "Day1", nil
	default:
		return "", fmt.Errorf("unsupported futures interval: %d minutes", minutes)
	}
}

// parseSigned parses a possibly negative number, 0 on failure.
func parseSigned(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
