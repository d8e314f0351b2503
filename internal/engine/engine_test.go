package engine

import (
	"errors"
	"testing"

	"hftbot/internal/exchange"
	"hftbot/internal/inventory"
	"hftbot/internal/risk"
	"hftbot/pkg/types"
)

// scriptedStrategy emits a fixed queue of signals, one slice per OnTick call.
type scriptedStrategy struct {
	queue [][]types.Signal
	i     int
	fills []types.Side
}

func (s *scriptedStrategy) Name() string { return "scripted" }

func (s *scriptedStrategy) OnFill(side types.Side, size, price float64) {
	s.fills = append(s.fills, side)
}

func (s *scriptedStrategy) OnTick(tick types.Tick) ([]types.Signal, error) {
	if s.i >= len(s.queue) {
		return nil, nil
	}
	sigs := s.queue[s.i]
	s.i++
	return sigs, nil
}

func newTestEngine(t *testing.T, strat *scriptedStrategy, riskLimits risk.Limits, invLimits inventory.Limits, equity float64) *Engine {
	t.Helper()
	riskMgr := risk.NewManager(riskLimits, nil)
	invMgr := inventory.New(invLimits)
	execClient := exchange.NewDryRun(equity, nil)
	return New(Config{Symbol: "BTC-USD", RaiseOnCircuitBreaker: false}, strat, riskMgr, invMgr, execClient, nil)
}

func permissiveLimits() (risk.Limits, inventory.Limits) {
	return risk.Limits{
			MaxDailyLossValue:     1_000_000,
			MaxPositionSizePct:    100,
			MaxOpenTrades:         1000,
			CircuitBreakerEnabled: true,
		}, inventory.Limits{
			MaxAbsQty:      1_000_000,
			MaxNotionalPct: 1_000_000,
		}
}

// Property 16: a tick with no last yields zero events.
func TestProcessTick_NoLastYieldsNoEvents(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{{{Side: types.Buy, Size: 1, OrderType: types.Market}}}}
	riskLimits, invLimits := permissiveLimits()
	eng := newTestEngine(t, strat, riskLimits, invLimits, 10_000)

	events, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected 0 events, got %d", len(events))
	}
	if eng.TickCount() != 1 {
		t.Fatalf("expected tick count 1, got %d", eng.TickCount())
	}
}

// Property 17: inventory rejection emits exactly one SignalRejected and
// the engine continues to the next signal.
func TestProcessTick_InventoryRejectionThenContinues(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{{
		{Side: types.Buy, Size: 10, OrderType: types.Market, Tag: "big"},
		{Side: types.Buy, Size: 1, OrderType: types.Market, Tag: "small"},
	}}}
	riskLimits, _ := permissiveLimits()
	invLimits := inventory.Limits{MaxAbsQty: 5, MaxNotionalPct: 1_000_000}
	eng := newTestEngine(t, strat, riskLimits, invLimits, 10_000)

	events, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != types.EventSignalRejected {
		t.Fatalf("expected first event SignalRejected, got %v", events[0].Kind)
	}
	if events[0].SignalRejected.Reason != types.ReasonInventoryLimitExceeded {
		t.Fatalf("expected inventory_limit_exceeded, got %v", events[0].SignalRejected.Reason)
	}
	if events[1].Kind != types.EventTradeExecuted {
		t.Fatalf("expected second event TradeExecuted, got %v", events[1].Kind)
	}
}

// Property 18: on a circuit-breaker trip mid-signal, running becomes
// false, CircuitBreaker is the last event, and further ticks return [].
func TestProcessTick_CircuitBreakerStopsEngine(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{{
		{Side: types.Buy, Size: 2, OrderType: types.Market, Tag: "too-big"},
	}}}
	riskLimits := risk.Limits{
		MaxDailyLossValue:     1_000_000,
		MaxPositionSizePct:    10,
		MaxOpenTrades:         1000,
		CircuitBreakerEnabled: true,
	}
	invLimits := inventory.Limits{MaxAbsQty: 1_000_000, MaxNotionalPct: 1_000_000}
	eng := newTestEngine(t, strat, riskLimits, invLimits, 1000)

	events, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) == 0 || events[len(events)-1].Kind != types.EventCircuitBreaker {
		t.Fatalf("expected last event CircuitBreaker, got %+v", events)
	}
	if eng.Running() {
		t.Fatalf("expected engine to be stopped")
	}

	events, err = eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events after trip, got %+v", events)
	}
}

// E3: circuit breaker on size — equity=1000, max_position_size_pct=10,
// notional 200 trips immediately.
func TestProcessTick_E3_CircuitBreakerOnSize(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{{
		{Side: types.Buy, Size: 2, OrderType: types.Market, Tag: "e3"},
	}}}
	riskLimits := risk.Limits{
		MaxDailyLossValue:     1_000_000,
		MaxPositionSizePct:    10,
		MaxOpenTrades:         1000,
		CircuitBreakerEnabled: true,
	}
	invLimits := inventory.Limits{MaxAbsQty: 1_000_000, MaxNotionalPct: 1_000_000}
	eng := newTestEngine(t, strat, riskLimits, invLimits, 1000)

	events, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cbCount := 0
	for _, ev := range events {
		if ev.Kind == types.EventCircuitBreaker {
			cbCount++
		}
	}
	if cbCount != 1 {
		t.Fatalf("expected exactly one CircuitBreaker event, got %d", cbCount)
	}
	if eng.Running() {
		t.Fatalf("expected engine stopped")
	}
}

// E4: inventory block — max_abs_qty=0.02, position 0.015, BUY 0.01 is
// rejected and position is unchanged.
func TestProcessTick_E4_InventoryBlock(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{
		{{Side: types.Buy, Size: 0.015, OrderType: types.Market, Tag: "seed"}},
		{{Side: types.Buy, Size: 0.01, OrderType: types.Market, Tag: "e4"}},
	}}
	riskLimits, _ := permissiveLimits()
	invLimits := inventory.Limits{MaxAbsQty: 0.02, MaxNotionalPct: 1_000_000}
	eng := newTestEngine(t, strat, riskLimits, invLimits, 100_000)

	if _, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := eng.Position().Snapshot()

	events, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Kind != types.EventSignalRejected {
		t.Fatalf("expected one SignalRejected event, got %+v", events)
	}
	after := eng.Position().Snapshot()
	if after != before {
		t.Fatalf("expected position unchanged: before=%+v after=%+v", before, after)
	}
}

// RaiseOnCircuitBreaker propagates the error to the caller.
func TestProcessTick_RaiseOnCircuitBreaker(t *testing.T) {
	strat := &scriptedStrategy{queue: [][]types.Signal{{
		{Side: types.Buy, Size: 2, OrderType: types.Market, Tag: "e3"},
	}}}
	riskLimits := risk.Limits{
		MaxDailyLossValue:     1_000_000,
		MaxPositionSizePct:    10,
		MaxOpenTrades:         1000,
		CircuitBreakerEnabled: true,
	}
	invLimits := inventory.Limits{MaxAbsQty: 1_000_000, MaxNotionalPct: 1_000_000}
	riskMgr := risk.NewManager(riskLimits, nil)
	invMgr := inventory.New(invLimits)
	execClient := exchange.NewDryRun(1000, nil)
	eng := New(Config{Symbol: "BTC-USD", RaiseOnCircuitBreaker: true}, strat, riskMgr, invMgr, execClient, nil)

	_, err := eng.ProcessTick(types.Tick{Symbol: "BTC-USD", Last: 100})
	if !errors.Is(err, risk.ErrCircuitBreakerTripped) {
		t.Fatalf("expected ErrCircuitBreakerTripped, got %v", err)
	}
}
