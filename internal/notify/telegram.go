package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Alias1177/VolumeMonitor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sender is the part of tgbotapi.BotAPI used for delivery.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot creates a Telegram client with a bounded HTTP timeout.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}
	return bot, nil
}

// Telegram sends anomaly alerts to every destination chat.
type Telegram struct {
	sender       Sender
	destinations Destinations
	logger       zerolog.Logger
}

var _ models.Notifier = (*Telegram)(nil)

func NewTelegram(sender Sender, destinations Destinations) *Telegram {
	return &Telegram{
		sender:       sender,
		destinations: destinations,
		logger:       log.With().Str("component", "telegram").Logger(),
	}
}

// Notify sends the alert once to each chat. Failed chats do not stop the
// others; their errors are joined into the result.
func (t *Telegram) Notify(ctx context.Context, ev models.AnomalyEvent) error {
	return t.SendText(ctx, FormatAlert(ev))
}

// SendText delivers an arbitrary message to every destination chat.
func (t *Telegram) SendText(ctx context.Context, text string) error {
	chats, err := t.destinations.ChatIDs(ctx)
	if err != nil {
		return fmt.Errorf("resolving destinations: %w", err)
	}
	if len(chats) == 0 {
		t.logger.Warn().Msg("No destination chats configured")
		return nil
	}

	var errs []error
	for _, chatID := range chats {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		msg := tgbotapi.NewMessage(chatID, text)
		msg.DisableWebPagePreview = true
		if _, err := t.sender.Send(msg); err != nil {
			t.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
			errs = append(errs, &DeliveryError{ChatID: chatID, Err: err})
			continue
		}
		t.logger.Debug().Int64("chat_id", chatID).Msg("Message sent")
	}

	return errors.Join(errs...)
}
