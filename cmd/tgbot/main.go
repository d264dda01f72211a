package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/bot"
	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/database"
	"github.com/Alias1177/VolumeMonitor/internal/notify"
	"github.com/Alias1177/VolumeMonitor/internal/platform/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	discover := pflag.Bool("discover", false, "print the chats that recently messaged the bot and exit")
	test := pflag.Bool("test", false, "send a test alert to TELEGRAM_CHAT_ID and exit")
	pflag.Parse()

	logging.Setup(os.Getenv("LOG_LEVEL"))

	// Get bot token from environment
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	tg, err := notify.NewBot(botToken, 90*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", tg.Self.UserName).Msg("Authorized on Telegram")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *discover:
		runDiscover(tg)
	case *test:
		runTest(ctx, tg)
	default:
		runBot(ctx, tg)
	}
}

// runDiscover prints every chat found in pending updates
func runDiscover(tg *tgbotapi.BotAPI) {
	updates, err := tg.GetUpdates(tgbotapi.UpdateConfig{Offset: 0, Limit: 100, Timeout: 0})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get updates")
	}

	chats := bot.DiscoverChats(updates)
	if len(chats) == 0 {
		fmt.Println("No chats found. Send any message to the bot (or add it to a group) and run again.")
		return
	}

	fmt.Printf("\n===== CHATS SEEN BY @%s =====\n", tg.Self.UserName)
	for _, c := range chats {
		fmt.Printf("%-16d %-12s %s\n", c.ID, c.Type, c.Title)
	}
	fmt.Printf("\nAdd the IDs you want to TELEGRAM_CHAT_ID, e.g.\nTELEGRAM_CHAT_ID=%d\n", chats[0].ID)
}

// runTest sends a sample alert to the configured chats
func runTest(ctx context.Context, tg *tgbotapi.BotAPI) {
	ids, err := config.ParseChatIDs(os.Getenv("TELEGRAM_CHAT_ID"))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TELEGRAM_CHAT_ID")
	}
	if len(ids) == 0 {
		log.Fatal().Msg("TELEGRAM_CHAT_ID not set in environment, run with --discover to find it")
	}

	sender := notify.NewTelegram(tg, notify.StaticDestinations(ids))
	text := "✅ Test message from the volume monitor.\n\nIf you can read this, alerts will be delivered to this chat."
	if err := sender.SendText(ctx, text); err != nil {
		log.Fatal().Err(err).Msg("Test message failed")
	}
	log.Info().Ints64("chat_ids", ids).Msg("Test message sent")
}

// runBot long-polls for commands until interrupted
func runBot(ctx context.Context, tg *tgbotapi.BotAPI) {
	var store bot.Store
	params := database.ConnectionParams{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
	if params.Configured() {
		db, err := database.New(ctx, params)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		store = db
	} else {
		log.Warn().Msg("Database not configured, /subscribe is disabled")
	}

	var symbols []string
	if cfg, err := config.Load(os.Getenv("CONFIG_FILE")); err == nil {
		symbols = cfg.Symbols
	}

	// Setup update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := tg.GetUpdatesChan(updateConfig)
	defer tg.StopReceivingUpdates()

	log.Info().Msg("Listening for commands")
	if err := bot.NewHandler(tg, store, symbols).Run(ctx, updates); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Bot stopped")
	}
	log.Info().Msg("Shutdown signal received, exiting")
}
