// Package risk enforces the session-wide circuit breaker: daily loss,
// position size, and concurrent open-trade limits.
//
// Unlike the teacher's internal/risk/manager.go — which runs as a
// standalone goroutine aggregating PositionReports across many concurrent
// markets — spec.md's Risk Manager is a synchronous per-trade gate called
// directly from the single-threaded engine loop (spec.md §4.3, §4.5). The
// state machine (ARMED/TRIPPED), the kill-switch naming, and the
// trip-then-latch discipline are grounded on the teacher's manager; the
// concurrency model is simplified to match spec.md's single-engine-thread
// design, retaining only a mutex for safe read access from an
// observability goroutine.
package risk

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"hftbot/pkg/types"
)

// ErrCircuitBreakerTripped is returned by any operation attempted (or
// found to exceed a limit) once the circuit breaker has latched.
var ErrCircuitBreakerTripped = errors.New("circuit breaker tripped")

// Limits is the immutable risk configuration (spec.md §3, RiskLimits).
type Limits struct {
	MaxDailyLossPct       float64 // documented-but-not-active, see Open Question 1
	MaxDailyLossValue     float64
	MaxPositionSizePct    float64
	MaxOpenTrades         int
	CircuitBreakerEnabled bool
}

// State is the current ARMED/TRIPPED phase of the circuit breaker.
type State int

const (
	Armed State = iota
	Tripped
)

func (s State) String() string {
	if s == Tripped {
		return "TRIPPED"
	}
	return "ARMED"
}

// Manager is the per-session circuit breaker. Once TRIPPED it never
// returns to ARMED (spec.md §4.3).
type Manager struct {
	mu sync.Mutex

	limits     Limits
	dailyPnL   float64
	openTrades int
	state      State

	logger *slog.Logger
}

// NewManager creates a risk manager in the ARMED state.
func NewManager(limits Limits, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		limits: limits,
		state:  Armed,
		logger: logger.With("component", "risk"),
	}
}

// State returns the current circuit breaker phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// DailyPnL returns the accumulated realized PnL registered this session.
func (m *Manager) DailyPnL() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dailyPnL
}

// OpenTrades returns the current open-trade counter.
func (m *Manager) OpenTrades() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openTrades
}

// ValidatePositionSize checks a prospective trade's notional against
// max_position_size_pct of equity. Trips the breaker and returns
// ErrCircuitBreakerTripped if exceeded.
func (m *Manager) ValidatePositionSize(equity, notional float64) error {
	if equity <= 0 {
		return fmt.Errorf("%w: equity must be positive, got %v", types.ErrArgument, equity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Tripped {
		return ErrCircuitBreakerTripped
	}

	pct := (notional / equity) * 100
	if pct > m.limits.MaxPositionSizePct {
		m.tripLocked(fmt.Sprintf("position size %.2f%% exceeds max_position_size_pct %.2f%%",
			pct, m.limits.MaxPositionSizePct))
		return ErrCircuitBreakerTripped
	}
	return nil
}

// RegisterTradePnL accumulates realized PnL into the daily total and trips
// the breaker if the cumulative loss reaches max_daily_loss_value. A no-op
// once already TRIPPED.
//
// Open Question 1 (spec.md §4.3, §9): max_daily_loss_pct is configured but
// only max_daily_loss_value is enforced here. Treated as
// documented-but-not-active per spec.md's explicit instruction not to guess.
func (m *Manager) RegisterTradePnL(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Tripped {
		return
	}

	m.dailyPnL += pnl

	if m.limits.CircuitBreakerEnabled && m.dailyPnL < 0 && -m.dailyPnL >= m.limits.MaxDailyLossValue {
		m.tripLocked(fmt.Sprintf("daily loss %.2f reached max_daily_loss_value %.2f",
			m.dailyPnL, m.limits.MaxDailyLossValue))
	}
}

// IncrementOpenTrades increments the open-trade counter. Fails with
// ErrCircuitBreakerTripped if already tripped, or if incrementing would
// exceed max_open_trades (which also trips the breaker).
func (m *Manager) IncrementOpenTrades() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Tripped {
		return ErrCircuitBreakerTripped
	}

	if m.openTrades+1 > m.limits.MaxOpenTrades {
		m.tripLocked(fmt.Sprintf("open trades would exceed max_open_trades %d", m.limits.MaxOpenTrades))
		return ErrCircuitBreakerTripped
	}

	m.openTrades++
	return nil
}

// DecrementOpenTrades decrements the open-trade counter, floored at 0.
func (m *Manager) DecrementOpenTrades() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openTrades > 0 {
		m.openTrades--
	}
}

// tripLocked latches the breaker. Caller must hold m.mu.
func (m *Manager) tripLocked(reason string) {
	if m.state == Tripped {
		return
	}
	m.state = Tripped
	m.logger.Error("circuit breaker tripped", "reason", reason)
}
