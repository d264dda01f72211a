package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/VolumeMonitor/models"
)

// FormatVolume renders a volume with a K, M or B suffix and two decimals.
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func marketEmoji(mt models.MarketType) string {
	if mt == models.Futures {
		return "📈"
	}
	return "💰"
}

// FormatAlert builds the plain-text alert message for an anomaly.
func FormatAlert(ev models.AnomalyEvent) string {
	var b strings.Builder

	b.WriteString("🚨 ABNORMAL VOLUME DETECTED 🚨\n\n")
	fmt.Fprintf(&b, "%s Market: %s\n", marketEmoji(ev.MarketType), ev.MarketType.Label())
	fmt.Fprintf(&b, "💰 Symbol: %s\n", ev.Symbol)
	fmt.Fprintf(&b, "📊 Current volume: $%s\n", FormatVolume(ev.CurrentVolume))
	fmt.Fprintf(&b, "📈 Average volume: $%s\n", FormatVolume(ev.HistoricalAverage))
	fmt.Fprintf(&b, "🔥 Multiplier: x%.2f\n", ev.Multiplier)
	if ev.Volume24h > 0 {
		fmt.Fprintf(&b, "📦 24h volume: $%s\n", FormatVolume(ev.Volume24h))
	}
	fmt.Fprintf(&b, "\n⏰ Time: %s\n", ev.DetectedAt.UTC().Format(time.RFC1123))
	if ev.TradeURL != "" {
		fmt.Fprintf(&b, "\n🔗 Trade: %s", ev.TradeURL)
	}

	return strings.TrimRight(b.String(), "\n")
}
