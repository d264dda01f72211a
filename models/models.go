package models

import (
	"fmt"
	"strings"
	"time"
)

// MarketType identifies which market a symbol trades on.
type MarketType string

const (
	Spot    MarketType = "spot"
	Futures MarketType = "futures"
)

// ParseMarketType accepts "spot" or "futures" in any case.
func ParseMarketType(s string) (MarketType, error) {
	switch MarketType(strings.ToLower(strings.TrimSpace(s))) {
	case Spot:
		return Spot, nil
	case Futures:
		return Futures, nil
	default:
		return "", fmt.Errorf("unknown market type %q", s)
	}
}

func (m MarketType) String() string {
	return string(m)
}

// Label is the upper-case name used in alerts.
func (m MarketType) Label() string {
	return strings.ToUpper(string(m))
}

// VolumeSample is a single observation of quote-currency volume
type VolumeSample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Volume24h float64   `json:"volume_24h,omitempty"` // informational only
}

// Ticker is a 24h summary for one symbol
type Ticker struct {
	Symbol             string     `json:"symbol"`
	MarketType         MarketType `json:"market_type"`
	QuoteVolume        float64    `json:"quote_volume"`
	PriceChangePercent float64    `json:"price_change_percent"`
	LastPrice          float64    `json:"last_price"`
}

// AnomalyEvent is produced when the current volume crosses the threshold.
// It lives for one monitoring cycle and is never stored.
type AnomalyEvent struct {
	Symbol            string     `json:"symbol"`
	MarketType        MarketType `json:"market_type"`
	CurrentVolume     float64    `json:"current_volume"`
	HistoricalAverage float64    `json:"historical_average"`
	Multiplier        float64    `json:"multiplier"`
	Volume24h         float64    `json:"volume_24h,omitempty"`
	TradeURL          string     `json:"trade_url,omitempty"`
	DetectedAt        time.Time  `json:"detected_at"`
}

// Evaluation is the detector's verdict for one symbol in one cycle
type Evaluation struct {
	Symbol            string     `json:"symbol"`
	MarketType        MarketType `json:"market_type"`
	CurrentVolume     float64    `json:"current_volume"`
	ShortTermAverage  float64    `json:"short_term_average"` // diagnostic, not used for the decision
	HistoricalAverage float64    `json:"historical_average"`
	Multiplier        float64    `json:"multiplier"`
	IsAnomaly         bool       `json:"is_anomaly"`
	Insufficient      bool       `json:"insufficient"`
	HistoryLen        int        `json:"history_len"`
	HistoryCap        int        `json:"history_cap"`
}

// Event builds the alert payload. Only meaningful when IsAnomaly is set.
func (e Evaluation) Event(at time.Time) AnomalyEvent {
	return AnomalyEvent{
		Symbol:            e.Symbol,
		MarketType:        e.MarketType,
		CurrentVolume:     e.CurrentVolume,
		HistoricalAverage: e.HistoricalAverage,
		Multiplier:        e.Multiplier,
		DetectedAt:        at,
	}
}
