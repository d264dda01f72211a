package anomaly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/VolumeMonitor/models"
)

// ErrShortSeries is returned when a volume series has fewer than two values.
var ErrShortSeries = errors.New("volume series too short")

// BaselineMode selects which samples form the historical average.
type BaselineMode string

const (
	// BaselineInclusive pushes the current volume first and averages the
	// resulting window, current value included.
	BaselineInclusive BaselineMode = "inclusive"
	// BaselinePrior averages the samples seen before the current one.
	BaselinePrior BaselineMode = "prior"
)

// ParseBaselineMode accepts "inclusive" or "prior"; empty means inclusive.
func ParseBaselineMode(s string) (BaselineMode, error) {
	switch BaselineMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BaselineInclusive:
		return BaselineInclusive, nil
	case BaselinePrior:
		return BaselinePrior, nil
	default:
		return "", fmt.Errorf("unknown baseline mode %q", s)
	}
}

// Detector compares the latest volume of a series against a symbol's history.
type Detector struct {
	threshold float64
	mode      BaselineMode
}

// NewDetector creates a detector flagging volumes at least threshold times
// the historical average.
func NewDetector(threshold float64, mode BaselineMode) *Detector {
	if mode == "" {
		mode = BaselineInclusive
	}
	return &Detector{threshold: threshold, mode: mode}
}

func (d *Detector) Threshold() float64 {
	return d.threshold
}

func (d *Detector) Mode() BaselineMode {
	return d.mode
}

// Evaluate records the last value of series in history and decides whether
// it is anomalous. history is left untouched when the series is too short.
func (d *Detector) Evaluate(symbol string, mt models.MarketType, series []float64, history *History) (models.Evaluation, error) {
	if len(series) < 2 {
		return models.Evaluation{}, fmt.Errorf("%s: got %d values: %w", symbol, len(series), ErrShortSeries)
	}

	current := series[len(series)-1]
	shortTerm := mean(series[:len(series)-1])

	var average float64
	switch d.mode {
	case BaselinePrior:
		average = history.Average()
		history.Push(current)
	default:
		history.Push(current)
		average = history.Average()
	}

	ev := models.Evaluation{
		Symbol:            symbol,
		MarketType:        mt,
		CurrentVolume:     current,
		ShortTermAverage:  shortTerm,
		HistoricalAverage: average,
		HistoryLen:        history.Size(),
		HistoryCap:        history.Capacity(),
	}

	if average <= 0 {
		ev.Insufficient = true
		return ev, nil
	}

	ev.Multiplier = current / average
	ev.IsAnomaly = ev.Multiplier >= d.threshold
	return ev, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
