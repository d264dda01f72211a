package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/database"
	"github.com/Alias1177/VolumeMonitor/internal/notify"
	"github.com/Alias1177/VolumeMonitor/internal/platform/logging"
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
	message := pflag.StringP("message", "m", "", "text to send (required)")
	delay := pflag.Duration("delay", 50*time.Millisecond, "pause between messages")
	pflag.Parse()

	logging.Setup(os.Getenv("LOG_LEVEL"))

	text := strings.TrimSpace(*message)
	if text == "" {
		text = strings.TrimSpace(strings.Join(pflag.Args(), " "))
	}
	if text == "" {
		log.Fatal().Msg("Nothing to send, pass --message")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize database
	dbParams := database.ConnectionParams{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	var store notify.SubscriberStore
	if dbParams.Configured() {
		db, err := database.New(ctx, dbParams)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		store = db
	}

	static, err := config.ParseChatIDs(os.Getenv("TELEGRAM_CHAT_ID"))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TELEGRAM_CHAT_ID")
	}

	// Initialize Telegram bot
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}
	bot, err := notify.NewBot(botToken, 30*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	chats, err := notify.NewSubscriberDestinations(static, store).ChatIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load chats")
	}
	log.Info().Int("chats", len(chats)).Msg("Broadcasting")

	stats := notify.Broadcast(ctx, bot, chats, text, *delay)

	// Final statistics
	fmt.Printf("\n🎯 Broadcast completed!\n")
	fmt.Printf("📊 Stats: %d sent, %d failed out of %d total chats\n", stats.Sent, stats.Failed, stats.Total)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
