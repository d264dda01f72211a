package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/VolumeMonitor/internal/anomaly"
	"github.com/Alias1177/VolumeMonitor/internal/market"
	"github.com/Alias1177/VolumeMonitor/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures a Monitor. Symbols are checked in the given order.
type Options struct {
	Symbols         []string
	MarketTypes     map[string]models.MarketType
	PollInterval    time.Duration
	SymbolDelay     time.Duration
	HistorySize     int
	IntervalMinutes int
	CandleCount     int
}

// CycleReport summarizes one pass over all symbols.
type CycleReport struct {
	ID        string
	Checked   int
	Skipped   int
	Anomalies int
}

// Monitor polls every configured symbol, keeps its volume history and
// raises alerts for anomalous volume.
type Monitor struct {
	venue    market.Venue
	detector *anomaly.Detector
	notifier models.Notifier
	clock    Clock
	opts     Options

	markets   map[string]models.MarketType
	histories map[string]*anomaly.History
	state     *State

	logger zerolog.Logger
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// New creates a monitor with one empty history per symbol.
func New(venue market.Venue, detector *anomaly.Detector, notifier models.Notifier, opts Options, options ...Option) *Monitor {
	m := &Monitor{
		venue:     venue,
		detector:  detector,
		notifier:  notifier,
		clock:     RealClock(),
		opts:      opts,
		markets:   market.ResolveAll(opts.Symbols, opts.MarketTypes),
		histories: make(map[string]*anomaly.History, len(opts.Symbols)),
		logger:    log.With().Str("component", "monitor").Logger(),
	}
	for _, o := range options {
		o(m)
	}

	for _, sym := range opts.Symbols {
		m.histories[sym] = anomaly.NewHistory(opts.HistorySize)
	}
	m.state = newState(opts.Symbols, m.markets, m.clock.Now())

	return m
}

// State exposes the status snapshot shared with readers.
func (m *Monitor) State() *State {
	return m.state
}

// Run loops until ctx is done. Cycles are separated by the poll interval.
func (m *Monitor) Run(ctx context.Context) error {
	m.logSummary()

	for {
		report := m.RunCycle(ctx)
		m.logger.Info().
			Str("cycle", report.ID).
			Int("checked", report.Checked).
			Int("skipped", report.Skipped).
			Int("anomalies", report.Anomalies).
			Dur("next_in", m.opts.PollInterval).
			Msg("Cycle finished")

		if err := m.clock.Sleep(ctx, m.opts.PollInterval); err != nil {
			m.logger.Info().Msg("Monitor stopped")
			return err
		}
	}
}

// RunCycle checks every symbol once. A failing symbol never stops the others.
func (m *Monitor) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{ID: uuid.NewString()}
	logger := m.logger.With().Str("cycle", report.ID).Logger()

	for i, sym := range m.opts.Symbols {
		if ctx.Err() != nil {
			break
		}

		ev, err := m.checkSymbol(ctx, logger, sym)
		switch {
		case err != nil:
			report.Skipped++
		default:
			report.Checked++
			if ev.IsAnomaly {
				report.Anomalies++
			}
		}

		if i < len(m.opts.Symbols)-1 {
			if err := m.clock.Sleep(ctx, m.opts.SymbolDelay); err != nil {
				break
			}
		}
	}

	m.state.cycleFinished(report.ID, m.clock.Now())
	return report
}

func (m *Monitor) checkSymbol(ctx context.Context, cycleLogger zerolog.Logger, symbol string) (ev models.Evaluation, err error) {
	mt := m.markets[symbol]
	logger := cycleLogger.With().Str("symbol", symbol).Str("market", mt.String()).Logger()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while checking %s: %v", symbol, r)
			logger.Error().Err(err).Msg("Recovered from panic")
			m.state.recordError(symbol, err, m.clock.Now())
		}
	}()

	source := m.venue.Source(mt)

	series, err := source.FetchRecentVolumeSeries(ctx, symbol, m.opts.IntervalMinutes, m.opts.CandleCount)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to fetch volume data, skipping")
		m.state.recordError(symbol, err, m.clock.Now())
		return ev, err
	}

	volume24h, err := source.Fetch24hVolume(ctx, symbol)
	if err != nil {
		logger.Debug().Err(err).Msg("24h volume unavailable")
		volume24h = 0
	}

	ev, err = m.detector.Evaluate(symbol, mt, series, m.histories[symbol])
	if err != nil {
		if errors.Is(err, anomaly.ErrShortSeries) {
			err = market.Unavailable("evaluate", symbol, mt, err)
		}
		logger.Warn().Err(err).Int("values", len(series)).Msg("Not enough data, skipping")
		m.state.recordError(symbol, err, m.clock.Now())
		return ev, err
	}

	now := m.clock.Now()
	m.state.recordEvaluation(ev, volume24h, now)

	if ev.Insufficient {
		logger.Info().
			Int("history", ev.HistoryLen).
			Int("capacity", ev.HistoryCap).
			Msg("Accumulating history")
		return ev, nil
	}

	logger.Info().
		Float64("current", ev.CurrentVolume).
		Float64("average", ev.HistoricalAverage).
		Float64("short_term_average", ev.ShortTermAverage).
		Float64("multiplier", ev.Multiplier).
		Float64("volume_24h", volume24h).
		Bool("anomaly", ev.IsAnomaly).
		Msg("Volume checked")

	if !ev.IsAnomaly {
		return ev, nil
	}

	event := ev.Event(now)
	event.Volume24h = volume24h
	event.TradeURL = m.venue.TradeURL(symbol, mt)

	logger.Warn().Float64("multiplier", ev.Multiplier).Msg("Abnormal volume detected")

	if err := m.notifier.Notify(ctx, event); err != nil {
		logger.Error().Err(err).Msg("Failed to deliver alert")
	} else {
		m.state.recordAlert(symbol, now)
	}

	return ev, nil
}

func (m *Monitor) logSummary() {
	spot, futures := market.Count(m.opts.Symbols, m.opts.MarketTypes)
	m.logger.Info().
		Str("venue", m.venue.Name()).
		Int("spot", spot).
		Int("futures", futures).
		Float64("threshold", m.detector.Threshold()).
		Str("baseline", string(m.detector.Mode())).
		Dur("poll_interval", m.opts.PollInterval).
		Int("history_size", m.opts.HistorySize).
		Strs("symbols", m.opts.Symbols).
		Msg("Volume monitor started")
}
