// Package bot answers Telegram commands that manage alert subscriptions.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alias1177/VolumeMonitor/internal/database"
	"github.com/Alias1177/VolumeMonitor/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store persists subscriptions.
type Store interface {
	Subscribe(ctx context.Context, chatID int64, title string) error
	Unsubscribe(ctx context.Context, chatID int64) error
	GetSubscriber(ctx context.Context, chatID int64) (*database.Subscriber, error)
}

// Handler replies to bot commands.
type Handler struct {
	sender  notify.Sender
	store   Store
	symbols []string
	logger  zerolog.Logger
}

// NewHandler creates a handler. store may be nil, in which case
// subscription commands explain how to configure chats instead.
func NewHandler(sender notify.Sender, store Store, symbols []string) *Handler {
	return &Handler{
		sender:  sender,
		store:   store,
		symbols: symbols,
		logger:  log.With().Str("component", "bot").Logger(),
	}
}

// Run handles updates until ctx is done or the channel closes.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				h.HandleMessage(ctx, update.Message)
			}
		}
	}
}

// HandleMessage answers a single message.
func (h *Handler) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID
	logger := h.logger.With().Int64("chat_id", chatID).Str("text", message.Text).Logger()

	command := message.Command()
	if command == "" {
		command = strings.ToLower(strings.TrimSpace(message.Text))
	}

	switch command {
	case "start", "help":
		h.reply(logger, chatID, welcomeText, true)
	case "chatid":
		h.reply(logger, chatID, fmt.Sprintf("Chat ID: %d\nType: %s\nName: %s", chatID, message.Chat.Type, ChatTitle(message.Chat)), false)
	case "symbols":
		if len(h.symbols) == 0 {
			h.reply(logger, chatID, "No symbols configured.", false)
			return
		}
		h.reply(logger, chatID, "Monitored symbols:\n"+strings.Join(h.symbols, "\n"), false)
	case "subscribe":
		if h.store == nil {
			h.reply(logger, chatID, noStoreText(chatID), false)
			return
		}
		if err := h.store.Subscribe(ctx, chatID, ChatTitle(message.Chat)); err != nil {
			logger.Error().Err(err).Msg("Error creating subscription")
			h.reply(logger, chatID, "Sorry, there was an error. Please try again later.", false)
			return
		}
		logger.Info().Msg("Chat subscribed")
		h.reply(logger, chatID, "✅ Subscribed. Volume alerts will be sent to this chat.", true)
	case "unsubscribe":
		if h.store == nil {
			h.reply(logger, chatID, noStoreText(chatID), false)
			return
		}
		if err := h.store.Unsubscribe(ctx, chatID); err != nil {
			logger.Error().Err(err).Msg("Error closing subscription")
			h.reply(logger, chatID, "Sorry, there was an error. Please try again later.", false)
			return
		}
		logger.Info().Msg("Chat unsubscribed")
		h.reply(logger, chatID, "Unsubscribed. Send /subscribe to receive alerts again.", true)
	case "status":
		h.reply(logger, chatID, h.statusText(ctx, logger, chatID), false)
	default:
		if message.IsCommand() {
			h.reply(logger, chatID, "Unknown command. Send /help for the list of commands.", false)
		}
	}
}

func (h *Handler) statusText(ctx context.Context, logger zerolog.Logger, chatID int64) string {
	if h.store == nil {
		return noStoreText(chatID)
	}
	sub, err := h.store.GetSubscriber(ctx, chatID)
	if err != nil {
		logger.Error().Err(err).Msg("Error retrieving subscription")
		return "Sorry, there was an error. Please try again later."
	}
	if sub == nil || sub.Status != database.StatusActive {
		return "This chat is not subscribed. Send /subscribe to receive alerts."
	}
	return fmt.Sprintf("This chat is subscribed since %s.", sub.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
}

func (h *Handler) reply(logger zerolog.Logger, chatID int64, text string, withMenu bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if withMenu {
		msg.ReplyMarkup = mainMenuKeyboard()
	}
	if _, err := h.sender.Send(msg); err != nil {
		logger.Error().Err(err).Msg("Failed to send reply")
	}
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/subscribe"),
			tgbotapi.NewKeyboardButton("/unsubscribe"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("/status"),
			tgbotapi.NewKeyboardButton("/symbols"),
			tgbotapi.NewKeyboardButton("/chatid"),
		),
	)
}

const welcomeText = `👋 Volume anomaly alerts bot.

/subscribe - receive alerts in this chat
/unsubscribe - stop alerts
/status - subscription status
/symbols - monitored symbols
/chatid - show this chat's ID`

func noStoreText(chatID int64) string {
	return fmt.Sprintf("Subscriptions are not enabled. Add this chat to TELEGRAM_CHAT_ID instead: %d", chatID)
}

// ChatTitle picks a readable name for a chat.
func ChatTitle(chat *tgbotapi.Chat) string {
	switch {
	case chat == nil:
		return ""
	case chat.Title != "":
		return chat.Title
	case chat.UserName != "":
		return "@" + chat.UserName
	default:
		return strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	}
}
