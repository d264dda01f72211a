package market

import (
	"errors"
	"fmt"

	"github.com/Alias1177/VolumeMonitor/models"
)

// ErrDataUnavailable matches every DataUnavailableError via errors.Is.
var ErrDataUnavailable = errors.New("market data unavailable")

// DataUnavailableError reports that upstream data for a symbol could not be
// fetched or decoded. The caller skips the symbol for the current cycle.
type DataUnavailableError struct {
	Op         string
	Symbol     string
	MarketType models.MarketType
	Err        error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Symbol, e.MarketType, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unavailable wraps err as a DataUnavailableError.
func Unavailable(op, symbol string, mt models.MarketType, err error) error {
	return &DataUnavailableError{Op: op, Symbol: symbol, MarketType: mt, Err: err}
}
