package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Destinations returns the chats an alert goes to.
type Destinations interface {
	ChatIDs(ctx context.Context) ([]int64, error)
}

// StaticDestinations is a fixed chat list from configuration.
type StaticDestinations []int64

func (s StaticDestinations) ChatIDs(context.Context) ([]int64, error) {
	return s, nil
}

// SubscriberStore lists chats that subscribed through the bot.
type SubscriberStore interface {
	ActiveChatIDs(ctx context.Context) ([]int64, error)
}

// SubscriberDestinations merges configured chats with active subscribers.
// A failing store degrades to the configured chats.
type SubscriberDestinations struct {
	Static StaticDestinations
	Store  SubscriberStore

	logger zerolog.Logger
}

func NewSubscriberDestinations(static []int64, store SubscriberStore) *SubscriberDestinations {
	return &SubscriberDestinations{
		Static: static,
		Store:  store,
		logger: log.With().Str("component", "destinations").Logger(),
	}
}

func (d *SubscriberDestinations) ChatIDs(ctx context.Context) ([]int64, error) {
	ids := append([]int64(nil), d.Static...)
	if d.Store == nil {
		return lo.Uniq(ids), nil
	}

	subs, err := d.Store.ActiveChatIDs(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to load subscribers, using configured chats only")
		return lo.Uniq(ids), nil
	}

	return lo.Uniq(append(ids, subs...)), nil
}
