package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Alias1177/VolumeMonitor/internal/api"
	"github.com/Alias1177/VolumeMonitor/internal/config"
	"github.com/Alias1177/VolumeMonitor/internal/market"
	"github.com/Alias1177/VolumeMonitor/internal/notify"
	"github.com/Alias1177/VolumeMonitor/internal/platform/logging"
	"github.com/Alias1177/VolumeMonitor/internal/screener"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const usage = `Usage: finder [flags] <top|volatile|lowcap|suggest>

Lists symbols worth monitoring from 24h ticker data.

Flags:
`

func main() {
	marketFlag := pflag.StringP("market", "m", "spot", "market to scan: spot, futures or both")
	venueFlag := pflag.String("venue", "", "exchange to scan (mexc or binance), defaults to VENUE")
	quote := pflag.String("quote", "USDT", "quote asset")
	limit := pflag.IntP("limit", "n", 30, "rows to print")
	minChange := pflag.Float64("min-change", 0, "minimum absolute 24h price change in percent (volatile)")
	minVolume := pflag.Float64("min-volume", 0, "minimum 24h volume (lowcap)")
	maxVolume := pflag.Float64("max-volume", 0, "maximum 24h volume (lowcap)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logging.Setup(os.Getenv("LOG_LEVEL"))

	command := pflag.Arg(0)
	if command == "" {
		command = "suggest"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Default()
	cfg.Venue = strings.ToLower(os.Getenv("VENUE"))
	if *venueFlag != "" {
		cfg.Venue = strings.ToLower(*venueFlag)
	}
	venue, err := api.NewVenue(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create market data client")
	}

	markets, err := parseMarkets(*marketFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --market")
	}

	var suggestions []string
	for _, mt := range markets {
		lister, ok := venue.Source(mt).(models.TickerLister)
		if !ok {
			log.Fatal().Str("market", mt.String()).Msg("Venue cannot list tickers")
		}

		tickers, err := screener.New(lister, *quote).Tickers(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("market", mt.String()).Msg("Failed to load tickers")
		}
		log.Info().Str("venue", venue.Name()).Str("market", mt.String()).Int("tickers", len(tickers)).Msg("Tickers loaded")

		preset := screener.PresetFor(mt)
		switch command {
		case "top":
			printTable(fmt.Sprintf("TOP %d %s BY 24H VOLUME", *limit, mt.Label()), screener.TopVolume(tickers, *limit), *limit)
		case "volatile":
			change := orDefault(*minChange, preset.MinChangePercent)
			printTable(fmt.Sprintf("%s WITH |CHANGE| >= %.0f%%", mt.Label(), change),
				screener.HighVolatility(tickers, change, preset.VolatileMinVolume), *limit)
		case "lowcap":
			lo, hi := orDefault(*minVolume, preset.LowCapMin), orDefault(*maxVolume, preset.LowCapMax)
			printTable(fmt.Sprintf("%s WITH VOLUME $%s - $%s", mt.Label(), notify.FormatVolume(lo), notify.FormatVolume(hi)),
				screener.LowCap(tickers, lo, hi), *limit)
		case "suggest":
			picked := screener.Suggest(tickers, preset)
			fmt.Printf("\n%s suggestions: %s\n", mt.Label(), strings.Join(picked, ", "))
			if mt == models.Futures {
				for i, sym := range picked {
					picked[i] = futuresSymbol(sym, strings.ToUpper(*quote))
				}
			}
			suggestions = append(suggestions, picked...)
		default:
			pflag.Usage()
			os.Exit(2)
		}
	}

	if command == "suggest" {
		spot, futures := market.Count(suggestions, nil)
		fmt.Printf("\nReady to use (%d spot, %d futures):\nSYMBOLS=%s\n", spot, futures, strings.Join(suggestions, ","))
	}
}

func parseMarkets(s string) ([]models.MarketType, error) {
	if strings.EqualFold(s, "both") {
		return []models.MarketType{models.Spot, models.Futures}, nil
	}
	mt, err := models.ParseMarketType(s)
	if err != nil {
		return nil, err
	}
	return []models.MarketType{mt}, nil
}

// futuresSymbol writes a contract so the monitor resolves it as futures,
// e.g. BTCUSDT becomes BTC_USDT.
func futuresSymbol(sym, quote string) string {
	if strings.Contains(sym, market.FuturesSeparator) || !strings.HasSuffix(sym, quote) {
		return sym
	}
	return strings.TrimSuffix(sym, quote) + market.FuturesSeparator + quote
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// printTable outputs a ranked ticker list
func printTable(title string, tickers []models.Ticker, limit int) {
	fmt.Printf("\n===== %s =====\n", title)
	fmt.Printf("%-5s%-20s%-18s%-14s%s\n", "#", "Symbol", "Volume 24h", "Change", "Price")
	fmt.Println(strings.Repeat("=", 70))

	if len(tickers) > limit {
		tickers = tickers[:limit]
	}
	for i, t := range tickers {
		fmt.Printf("%-5s%-20s%-18s%-14s%g\n",
			fmt.Sprintf("%d.", i+1),
			t.Symbol,
			"$"+notify.FormatVolume(t.QuoteVolume),
			fmt.Sprintf("%+.2f%%", t.PriceChangePercent),
			t.LastPrice,
		)
	}
	fmt.Printf("Total matches shown: %d\n", len(tickers))
}
