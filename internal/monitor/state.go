package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/Alias1177/VolumeMonitor/models"
)

// SymbolStatus is the latest known outcome for one symbol.
type SymbolStatus struct {
	Symbol        string             `json:"symbol"`
	MarketType    models.MarketType  `json:"market_type"`
	LastCheckedAt time.Time          `json:"last_checked_at,omitempty"`
	Evaluation    *models.Evaluation `json:"evaluation,omitempty"`
	LastError     string             `json:"last_error,omitempty"`
	Volume24h     float64            `json:"volume_24h"`
	Alerts        int                `json:"alerts"`
	LastAlertAt   *time.Time         `json:"last_alert_at,omitempty"`
}

// Snapshot is a point-in-time copy of the monitor state.
type Snapshot struct {
	StartedAt   time.Time      `json:"started_at"`
	Cycles      int            `json:"cycles"`
	LastCycleID string         `json:"last_cycle_id,omitempty"`
	LastCycleAt time.Time      `json:"last_cycle_at,omitempty"`
	Symbols     []SymbolStatus `json:"symbols"`
}

// State is written by the loop and read by the status API.
type State struct {
	mx sync.RWMutex

	startedAt   time.Time
	cycles      int
	lastCycleID string
	lastCycleAt time.Time
	order       []string
	symbols     map[string]*SymbolStatus
}

func newState(symbols []string, markets map[string]models.MarketType, startedAt time.Time) *State {
	s := &State{
		startedAt: startedAt,
		order:     append([]string(nil), symbols...),
		symbols:   make(map[string]*SymbolStatus, len(symbols)),
	}
	for _, sym := range symbols {
		s.symbols[sym] = &SymbolStatus{Symbol: sym, MarketType: markets[sym]}
	}
	return s
}

func (s *State) cycleFinished(id string, at time.Time) {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.cycles++
	s.lastCycleID = id
	s.lastCycleAt = at
}

func (s *State) recordEvaluation(ev models.Evaluation, volume24h float64, at time.Time) {
	s.mx.Lock()
	defer s.mx.Unlock()

	st := s.symbols[ev.Symbol]
	if st == nil {
		return
	}
	st.Evaluation = &ev
	st.Volume24h = volume24h
	st.LastCheckedAt = at
	st.LastError = ""
}

func (s *State) recordError(symbol string, err error, at time.Time) {
	s.mx.Lock()
	defer s.mx.Unlock()

	st := s.symbols[symbol]
	if st == nil {
		return
	}
	st.LastError = err.Error()
	st.LastCheckedAt = at
}

func (s *State) recordAlert(symbol string, at time.Time) {
	s.mx.Lock()
	defer s.mx.Unlock()

	st := s.symbols[symbol]
	if st == nil {
		return
	}
	st.Alerts++
	st.LastAlertAt = &at
}

// Snapshot returns a copy safe to use after the lock is released.
func (s *State) Snapshot() Snapshot {
	s.mx.RLock()
	defer s.mx.RUnlock()

	snap := Snapshot{
		StartedAt:   s.startedAt,
		Cycles:      s.cycles,
		LastCycleID: s.lastCycleID,
		LastCycleAt: s.lastCycleAt,
		Symbols:     make([]SymbolStatus, 0, len(s.order)),
	}
	for _, sym := range s.order {
		snap.Symbols = append(snap.Symbols, copyStatus(s.symbols[sym]))
	}
	return snap
}

// Symbol returns the status of one symbol.
func (s *State) Symbol(symbol string) (SymbolStatus, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	st, ok := s.symbols[symbol]
	if !ok {
		return SymbolStatus{}, false
	}
	return copyStatus(st), true
}

// Anomalous lists symbols whose last evaluation was anomalous, by symbol name.
func (s *State) Anomalous() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	var out []string
	for sym, st := range s.symbols {
		if st.Evaluation != nil && st.Evaluation.IsAnomaly {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

func copyStatus(st *SymbolStatus) SymbolStatus {
	c := *st
	if st.Evaluation != nil {
		ev := *st.Evaluation
		c.Evaluation = &ev
	}
	if st.LastAlertAt != nil {
		at := *st.LastAlertAt
		c.LastAlertAt = &at
	}
	return c
}
