package models

import "context"

// VolumeSource fetches volume data for one market type of one venue
type VolumeSource interface {
	// FetchRecentVolumeSeries returns the last count per-interval quote volumes, oldest first.
	FetchRecentVolumeSeries(ctx context.Context, symbol string, intervalMinutes, count int) ([]float64, error)
	// Fetch24hVolume returns the rolling 24h quote volume.
	Fetch24hVolume(ctx context.Context, symbol string) (float64, error)
}

// TickerLister lists 24h tickers for every symbol of a market
type TickerLister interface {
	ListTickers(ctx context.Context) ([]Ticker, error)
}

// Notifier delivers an anomaly alert
type Notifier interface {
	Notify(ctx context.Context, event AnomalyEvent) error
}
