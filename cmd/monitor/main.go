package main

import (
	"context"
	"errors"
	"os"

	"github.com/Alias1177/VolumeMonitor/internal/anomaly"
	"github.com/Alias1177/VolumeMonitor/internal/api"
	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/database"
	"github.com/Alias1177/VolumeMonitor/internal/monitor"
	"github.com/Alias1177/VolumeMonitor/internal/notify"
	"github.com/Alias1177/VolumeMonitor/internal/platform/app"
	"github.com/Alias1177/VolumeMonitor/internal/platform/logging"
	"github.com/Alias1177/VolumeMonitor/internal/server"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config (overrides CONFIG_FILE)")
	pflag.Parse()

	ctx := context.Background()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	logging.Setup(cfg.LogLevel)
	log.Info().Msg("Starting Volume Monitor")
	printConfig(cfg)

	// 3. Market data
	venue, err := api.NewVenue(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create market data client")
	}

	// 4. Alerting
	notifier, closeDB := setupNotifier(ctx, cfg)
	defer closeDB()

	// 5. Monitor
	mon := monitor.New(
		venue,
		anomaly.NewDetector(cfg.VolumeMultiplier, cfg.BaselineMode),
		notifier,
		monitor.Options{
			Symbols:         cfg.Symbols,
			MarketTypes:     cfg.MarketTypes,
			PollInterval:    cfg.PollInterval,
			SymbolDelay:     cfg.SymbolDelay,
			HistorySize:     cfg.HistorySize,
			IntervalMinutes: cfg.CandleIntervalMinutes,
			CandleCount:     cfg.CandleCount,
		},
	)

	runner := app.New(cfg.ShutdownGrace).
		WithService("monitor", mon).
		WithService("interrupter", app.Interrupter{})
	if cfg.StatusAddr != "" {
		runner.WithService("status_api", server.New(cfg.StatusAddr, mon.State()))
	}

	err = runner.Run(ctx)
	switch {
	case errors.Is(err, app.ErrInterrupted):
		log.Info().Msg("Shutdown signal received, exiting")
	case errors.Is(err, app.ErrShutdownTimeout):
		log.Warn().Msg("Forced exit after grace period")
	case err != nil:
		log.Error().Err(err).Msg("Volume monitor stopped")
		closeDB()
		os.Exit(1)
	}
}

// setupNotifier wires Telegram when a token is configured. Without one,
// anomalies are only logged.
func setupNotifier(ctx context.Context, cfg *config.Config) (models.Notifier, func()) {
	noop := func() {}
	if !cfg.AlertsEnabled() {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set, alerts disabled")
		return notify.Nop{}, noop
	}

	bot, err := notify.NewBot(cfg.TelegramBotToken, cfg.RequestTimeout*3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")

	var destinations notify.Destinations = notify.StaticDestinations(cfg.TelegramChatIDs)
	closeDB := noop

	params := database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}
	if params.Configured() {
		db, err := database.New(ctx, params)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		closeDB = func() { db.Close() }
		destinations = notify.NewSubscriberDestinations(cfg.TelegramChatIDs, db)
	} else if len(cfg.TelegramChatIDs) == 0 {
		log.Warn().Msg("No TELEGRAM_CHAT_ID and no subscriber database, alerts have no destination")
	}

	return notify.NewCooldown(notify.NewTelegram(bot, destinations), cfg.AlertCooldown), closeDB
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Strs("Symbols", cfg.Symbols).
		Float64("VolumeMultiplier", cfg.VolumeMultiplier).
		Dur("PollInterval", cfg.PollInterval).
		Dur("SymbolDelay", cfg.SymbolDelay).
		Int("HistorySize", cfg.HistorySize).
		Int("CandleIntervalMinutes", cfg.CandleIntervalMinutes).
		Int("CandleCount", cfg.CandleCount).
		Str("BaselineMode", string(cfg.BaselineMode)).
		Dur("AlertCooldown", cfg.AlertCooldown).
		Str("Venue", cfg.Venue).
		Bool("Alerts", cfg.AlertsEnabled()).
		Str("StatusAddr", cfg.StatusAddr).
		Msg("Configuration loaded")
}
