package notify

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// BroadcastStats counts delivery outcomes.
type BroadcastStats struct {
	Total  int
	Sent   int
	Failed int
}

// Broadcast sends text to each chat one at a time, pausing delay between
// messages to stay under Telegram's per-bot rate limit.
func Broadcast(ctx context.Context, sender Sender, chats []int64, text string, delay time.Duration) BroadcastStats {
	stats := BroadcastStats{Total: len(chats)}
	logger := log.With().Str("component", "broadcast").Logger()

	for i, chatID := range chats {
		if ctx.Err() != nil {
			stats.Failed += len(chats) - i
			break
		}

		if _, err := sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
			stats.Failed++
		} else {
			logger.Info().Int64("chat_id", chatID).Msgf("Message sent [%d/%d]", i+1, len(chats))
			stats.Sent++
		}

		if i < len(chats)-1 && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}

	return stats
}
