package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ValidationError lists every configuration problem found at startup.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	return c.validate(nil)
}

func (c *Config) validate(problems []string) error {
	if len(c.Symbols) == 0 {
		problems = append(problems, "SYMBOLS: at least one symbol is required")
	}
	if dups := lo.FindDuplicates(c.Symbols); len(dups) > 0 {
		problems = append(problems, fmt.Sprintf("SYMBOLS: duplicate symbols %s", strings.Join(dups, ", ")))
	}
	if c.VolumeMultiplier < 1 {
		problems = append(problems, fmt.Sprintf("VOLUME_MULTIPLIER: must be >= 1, got %g", c.VolumeMultiplier))
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "POLL_INTERVAL_MS: must be positive")
	}
	if c.SymbolDelay < 0 {
		problems = append(problems, "SYMBOL_DELAY_MS: must not be negative")
	}
	if c.HistorySize <= 0 {
		problems = append(problems, "HISTORY_SIZE: must be positive")
	}
	if c.CandleIntervalMinutes <= 0 {
		problems = append(problems, "CANDLE_INTERVAL_MINUTES: must be positive")
	}
	if c.CandleCount < 2 {
		problems = append(problems, "CANDLE_COUNT: must be at least 2")
	}
	if c.AlertCooldown < 0 {
		problems = append(problems, "ALERT_COOLDOWN_MS: must not be negative")
	}
	if c.Venue != VenueMEXC && c.Venue != VenueBinance {
		problems = append(problems, fmt.Sprintf("VENUE: unknown venue %q", c.Venue))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT: must be positive")
	}
	if c.RequestsPerSec <= 0 {
		problems = append(problems, "REQUESTS_PER_SEC: must be positive")
	}
	if c.ShutdownGrace < 0 {
		problems = append(problems, "SHUTDOWN_GRACE_MS: must not be negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
