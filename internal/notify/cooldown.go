package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cooldown suppresses repeated alerts for the same symbol and market within
// a window. Only delivered alerts start a window. A zero window passes
// every alert through.
type Cooldown struct {
	next   models.Notifier
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time

	logger zerolog.Logger
}

var _ models.Notifier = (*Cooldown)(nil)

func NewCooldown(next models.Notifier, window time.Duration) *Cooldown {
	return &Cooldown{
		next:   next,
		window: window,
		last:   make(map[string]time.Time),
		logger: log.With().Str("component", "cooldown").Logger(),
	}
}

func (c *Cooldown) Notify(ctx context.Context, ev models.AnomalyEvent) error {
	if c.window <= 0 {
		return c.next.Notify(ctx, ev)
	}

	key := ev.MarketType.String() + ":" + ev.Symbol

	c.mu.Lock()
	if at, ok := c.last[key]; ok && ev.DetectedAt.Sub(at) < c.window {
		c.mu.Unlock()
		c.logger.Info().Str("symbol", ev.Symbol).Time("last_alert", at).Msg("Alert suppressed by cooldown")
		return nil
	}
	c.mu.Unlock()

	if err := c.next.Notify(ctx, ev); err != nil {
		return err
	}

	c.mu.Lock()
	if at, ok := c.last[key]; !ok || ev.DetectedAt.After(at) {
		c.last[key] = ev.DetectedAt
	}
	c.mu.Unlock()
	return nil
}
