// Package engine implements the Trading Engine: the single-threaded
// tick-to-execution pipeline orchestrator (spec.md §4.5).
//
// Unlike the teacher's internal/engine/engine.go — which runs a goroutine
// per concurrently-traded Polymarket market, fanning out WebSocket events
// across a map of market slots — spec.md's engine processes exactly one
// symbol on exactly one goroutine: the driver calls ProcessTick once per
// tick and reacts to the returned events. The component wiring (a single
// New() constructor assembling strategy/risk/inventory/execution/position
// collaborators behind one struct, logging with "component" context) and
// the lifecycle discipline (explicit Stop/kill-switch handling) are
// grounded on the teacher; the concurrency model is simplified to match
// the single-threaded cooperative scheduling spec.md §5 requires.
package engine

import (
	"errors"
	"log/slog"

	"hftbot/internal/exchange"
	"hftbot/internal/inventory"
	"hftbot/internal/position"
	"hftbot/internal/risk"
	"hftbot/internal/strategy"
	"hftbot/pkg/types"
)

// Config tunes the engine's own behavior, independent of its
// collaborators' configuration.
type Config struct {
	Symbol string

	// RaiseOnCircuitBreaker selects whether a circuit-breaker trip
	// propagates an error to ProcessTick's caller (true) or is only
	// visible via the returned CircuitBreaker event and Running()==false
	// (false). Resolves spec.md §9 Open Question 2.
	RaiseOnCircuitBreaker bool
}

// ErrCircuitBreakerTripped is returned by ProcessTick when
// Config.RaiseOnCircuitBreaker is set and a signal trips the breaker
// during this tick.
var ErrCircuitBreakerTripped = risk.ErrCircuitBreakerTripped

// Engine orchestrates one symbol's tick-to-execution pipeline. It owns a
// Position, a risk.Manager, an inventory.Manager, a Strategy, and an
// exchange.Client (spec.md §3, "Ownership").
type Engine struct {
	cfg Config

	strategy  strategy.Strategy
	riskMgr   *risk.Manager
	invMgr    *inventory.Manager
	execution exchange.Client
	pos       *position.Position

	running    bool
	tickCount  int
	tradeCount int

	logger *slog.Logger
}

// New wires an engine's collaborators. The engine starts running.
func New(cfg Config, strat strategy.Strategy, riskMgr *risk.Manager, invMgr *inventory.Manager, execution exchange.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		strategy:  strat,
		riskMgr:   riskMgr,
		invMgr:    invMgr,
		execution: execution,
		pos:       position.New(cfg.Symbol),
		running:   true,
		logger:    logger.With("component", "engine", "symbol", cfg.Symbol),
	}
}

// Running reports whether the engine will still process ticks.
func (e *Engine) Running() bool { return e.running }

// TickCount returns the number of ticks seen, including skipped ones.
func (e *Engine) TickCount() int { return e.tickCount }

// TradeCount returns the number of trades executed so far.
func (e *Engine) TradeCount() int { return e.tradeCount }

// Position returns the engine's position manager for observability.
func (e *Engine) Position() *position.Position { return e.pos }

// ProcessTick runs one tick through the full pipeline (spec.md §4.5):
//
//	strategy.OnTick → for each signal: inventory gate → risk gate →
//	execution → position accounting → risk bookkeeping → event emission.
//
// Returns the events produced, in emission order. A tick with no usable
// Last price is skipped and yields no events. Once the circuit breaker
// trips, ProcessTick stops processing and returns []; if
// Config.RaiseOnCircuitBreaker is set, the tick that caused the trip
// instead returns ErrCircuitBreakerTripped alongside its events.
func (e *Engine) ProcessTick(tick types.Tick) ([]types.EngineEvent, error) {
	if !e.running {
		return nil, nil
	}
	e.tickCount++

	if !tick.HasLast() {
		return nil, nil
	}

	signals, err := e.strategy.OnTick(tick)
	if err != nil {
		return []types.EngineEvent{types.NewError(err)}, nil
	}

	var events []types.EngineEvent
	for _, sig := range signals {
		ev, tripped, err := e.processSignal(tick, sig)
		events = append(events, ev...)
		if tripped {
			if e.cfg.RaiseOnCircuitBreaker {
				return events, err
			}
			break
		}
	}
	return events, nil
}

// processSignal runs one signal through validation, execution, and
// accounting. Returns the events it produced and whether this signal
// tripped the circuit breaker (in which case the engine is now stopped
// and the caller must not process further signals this tick).
func (e *Engine) processSignal(tick types.Tick, sig types.Signal) ([]types.EngineEvent, bool, error) {
	if err := sig.Validate(); err != nil {
		return []types.EngineEvent{types.NewError(err)}, false, nil
	}

	fillPrice := tick.Last
	if sig.OrderType == types.Limit {
		fillPrice = sig.Price
	}

	equity, err := e.execution.GetAccountEquity()
	if err != nil {
		return []types.EngineEvent{types.NewError(err)}, false, nil
	}

	snapshot := e.pos.Snapshot()

	if err := e.invMgr.Validate(snapshot.Qty, sig.Side, sig.Size, fillPrice, equity); err != nil {
		if errors.Is(err, inventory.ErrLimitExceeded) {
			e.logger.Info("signal rejected", "reason", types.ReasonInventoryLimitExceeded, "tag", sig.Tag)
			return []types.EngineEvent{types.NewSignalRejected(types.SignalRejectedPayload{
				Signal: sig,
				Reason: types.ReasonInventoryLimitExceeded,
			})}, false, nil
		}
		return []types.EngineEvent{types.NewError(err)}, false, nil
	}

	notional := abs(sig.Size * fillPrice)
	if err := e.riskMgr.ValidatePositionSize(equity, notional); err != nil {
		return e.trip(err)
	}
	if err := e.riskMgr.IncrementOpenTrades(); err != nil {
		return e.trip(err)
	}

	response, err := e.execution.SendOrder(e.cfg.Symbol, sig)
	if err != nil {
		e.riskMgr.DecrementOpenTrades()
		return []types.EngineEvent{types.NewError(err)}, false, nil
	}

	realizedBefore := e.pos.Snapshot().RealizedPnL
	if err := e.pos.OnTrade(sig.Side, sig.Size, fillPrice); err != nil {
		e.riskMgr.DecrementOpenTrades()
		return []types.EngineEvent{types.NewError(err)}, false, nil
	}
	after := e.pos.Snapshot()
	tradePnL := after.RealizedPnL - realizedBefore

	e.riskMgr.RegisterTradePnL(tradePnL)
	e.riskMgr.DecrementOpenTrades()
	e.strategy.OnFill(sig.Side, sig.Size, fillPrice)
	e.tradeCount++

	e.logger.Info("trade executed", "side", sig.Side, "size", sig.Size, "price", fillPrice, "tag", sig.Tag, "trade_pnl", tradePnL)

	return []types.EngineEvent{types.NewTradeExecuted(types.TradeExecutedPayload{
		Side:        sig.Side,
		Size:        sig.Size,
		Price:       fillPrice,
		Tag:         sig.Tag,
		Response:    response,
		TradePnL:    tradePnL,
		PositionQty: after.Qty,
		PositionAvg: after.AvgPrice,
		RealizedPnL: after.RealizedPnL,
		Equity:      equity,
	})}, false, nil
}

// trip stops the engine and emits a CircuitBreaker event in response to
// err (expected to wrap risk.ErrCircuitBreakerTripped).
func (e *Engine) trip(err error) ([]types.EngineEvent, bool, error) {
	e.running = false
	e.logger.Error("circuit breaker tripped, engine stopped", "error", err)
	return []types.EngineEvent{types.NewCircuitBreaker(types.CircuitBreakerPayload{
		Reason: err.Error(),
	})}, true, err
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
