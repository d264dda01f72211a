package notify

import (
	"context"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog/log"
)

// Nop is used when alerting is disabled. Anomalies are only logged.
type Nop struct{}

var _ models.Notifier = Nop{}

func (Nop) Notify(_ context.Context, ev models.AnomalyEvent) error {
	log.Debug().Str("component", "notify").Str("symbol", ev.Symbol).Msg("Alerting disabled, skipping notification")
	return nil
}
