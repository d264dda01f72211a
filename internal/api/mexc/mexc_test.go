package mexc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/market"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVenue(t *testing.T, handler http.HandlerFunc) *market.Sources {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewVenue(ClientOptions{
		SpotBaseURL:    srv.URL,
		FuturesBaseURL: srv.URL,
		RequestTimeout: time.Second,
		RequestsPerSec: 100,
		Now:            func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
}

func TestSpotSource_FetchRecentVolumeSeries(t *testing.T) {
	var gotQuery string
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/klines", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			[1700000000000,"1","2","0.5","1.5","10",1700000299999,"100.5"],
			[1700000300000,"1","2","0.5","1.5","10",1700000599999,"-4"],
			[1700000600000,"1","2","0.5","1.5","10",1700000899999,"garbage"],
			[1700000900000,"1","2","0.5","1.5","10",1700001199999,250]
		]`))
	})

	series, err := v.Source(models.Spot).FetchRecentVolumeSeries(context.Background(), "BTCUSDT", 5, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{100.5, 0, 0, 250}, series)
	assert.Contains(t, gotQuery, "interval=5m")
	assert.Contains(t, gotQuery, "limit=4")
	assert.Contains(t, gotQuery, "symbol=BTCUSDT")
}

func TestSpotSource_EmptyResponse(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := v.Source(models.Spot).FetchRecentVolumeSeries(context.Background(), "BTCUSDT", 5, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrDataUnavailable))
}

func TestSpotSource_UnsupportedInterval(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := v.Source(models.Spot).FetchRecentVolumeSeries(context.Background(), "BTCUSDT", 7, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrDataUnavailable))
}

func TestSpotSource_Fetch24hVolume(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		w.Write([]byte(`{"symbol":"BTCUSDT","priceChangePercent":"-1.5","lastPrice":"42000","quoteVolume":"123456789.12"}`))
	})

	vol, err := v.Source(models.Spot).Fetch24hVolume(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 123456789.12, vol, 1e-6)
}

func TestFuturesSource_FetchRecentVolumeSeries(t *testing.T) {
	var start, end, interval string
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/contract/kline/BTC_USDT", r.URL.Path)
		start = r.URL.Query().Get("start")
		end = r.URL.Query().Get("end")
		interval = r.URL.Query().Get("interval")
		w.Write([]byte(`{"success":true,"code":0,"data":{
			"time":[1,2,3,4],
			"amount":[10.5,20,30,40],
			"vol":[1,2,3,4]
		}}`))
	})

	series, err := v.Source(models.Futures).FetchRecentVolumeSeries(context.Background(), "BTC_USDT", 5, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 30, 40}, series)
	assert.Equal(t, "Min5", interval)
	assert.Equal(t, "1700000000", end)
	assert.Equal(t, "1699999100", start)
}

func TestFuturesSource_UnsuccessfulEnvelope(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"code":1001,"message":"contract not exists"}`))
	})

	_, err := v.Source(models.Futures).FetchRecentVolumeSeries(context.Background(), "NOPE_USDT", 5, 12)
	require.Error(t, err)

	var dataErr *market.DataUnavailableError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "NOPE_USDT", dataErr.Symbol)
	assert.Equal(t, models.Futures, dataErr.MarketType)
	assert.Contains(t, err.Error(), "1001")
}

func TestFuturesSource_ServerError(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := v.Source(models.Futures).Fetch24hVolume(context.Background(), "BTC_USDT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrDataUnavailable))
}

func TestFuturesSource_Fetch24hVolume(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{
			name: "amount24",
			body: `{"success":true,"code":0,"data":{"symbol":"BTC_USDT","amount24":5000000,"volume24":123}}`,
			want: 5000000,
		},
		{
			name: "falls back to volume24",
			body: `{"success":true,"code":0,"data":{"symbol":"BTC_USDT","volume24":123}}`,
			want: 123,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			got, err := v.Source(models.Futures).Fetch24hVolume(context.Background(), "BTC_USDT")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListTickers(t *testing.T) {
	v := newTestVenue(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/ticker/24hr":
			w.Write([]byte(`[{"symbol":"ETHUSDT","priceChangePercent":"3.2","lastPrice":"2500","quoteVolume":"1000"}]`))
		case "/api/v1/contract/ticker":
			w.Write([]byte(`{"success":true,"code":0,"data":[{"symbol":"ETH_USDT","lastPrice":2500,"amount24":2000,"riseFallRate":-0.05}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	spot, err := v.Spot.(models.TickerLister).ListTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, spot, 1)
	assert.Equal(t, models.Ticker{Symbol: "ETHUSDT", MarketType: models.Spot, QuoteVolume: 1000, PriceChangePercent: 3.2, LastPrice: 2500}, spot[0])

	futures, err := v.Futures.(models.TickerLister).ListTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, futures, 1)
	assert.Equal(t, "ETH_USDT", futures[0].Symbol)
	assert.InDelta(t, -5.0, futures[0].PriceChangePercent, 1e-9)
	assert.Equal(t, 2000.0, futures[0].QuoteVolume)
}

func TestTradeURL(t *testing.T) {
	assert.Equal(t, "https://www.mexc.com/exchange/BTCUSDT", TradeURL("BTCUSDT", models.Spot))
	assert.Equal(t, "https://futures.mexc.com/exchange/BTC_USDT", TradeURL("BTC_USDT", models.Futures))
}
