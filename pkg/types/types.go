// Package types defines shared data structures used across all packages.
//
// This package is the common vocabulary for the bot — ticks, signals,
// engine events, and execution payloads. It has no dependencies on
// internal packages, so it can be imported by any layer.
package types

import "fmt"

// ————————————————————————————————————————————————————————————————————————
// Core enums
// ————————————————————————————————————————————————————————————————————————

// Side represents the direction of an order: BUY or SELL.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Dir returns +1 for BUY and -1 for SELL, the sign convention used
// throughout the position and inventory math.
func (s Side) Dir() float64 {
	if s == Buy {
		return 1
	}
	return -1
}

// OrderType enumerates the supported order lifecycles a Signal can request.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// SideBias restricts which side a strategy is allowed to emit.
type SideBias string

const (
	BiasBoth      SideBias = "both"
	BiasLongOnly  SideBias = "long_only"
	BiasShortOnly SideBias = "short_only"
)

// Allows reports whether a signal of the given side is permitted by this bias.
func (b SideBias) Allows(side Side) bool {
	switch b {
	case BiasLongOnly:
		return side == Buy
	case BiasShortOnly:
		return side == Sell
	default:
		return true
	}
}

// ————————————————————————————————————————————————————————————————————————
// Market data
// ————————————————————————————————————————————————————————————————————————

// PriceLevel is a single price/size pair in an order book, index 0 is best.
type PriceLevel struct {
	Price float64
	Size  float64
}

// Tick is a snapshot of market state consumed by strategies.
//
// Symbol, Last and Timestamp are required. Bid/Ask/BidSize/AskSize are
// top-of-book aggregates; Bids/Asks are an ordered full-depth view, index 0
// is best. A Tick whose Last is zero is considered incomplete and is
// skipped by the engine (see engine.Engine.ProcessTick).
type Tick struct {
	Symbol    string
	Last      float64
	Timestamp float64 // seconds since epoch

	Bid     float64
	Ask     float64
	BidSize float64
	AskSize float64

	Bids []PriceLevel
	Asks []PriceLevel
}

// HasLast reports whether Last is a usable (non-zero) trade price.
func (t Tick) HasLast() bool {
	return t.Last != 0
}

// Mid returns (bid+ask)/2 and whether both sides are present and positive.
func (t Tick) Mid() (float64, bool) {
	if t.Bid <= 0 || t.Ask <= 0 {
		return 0, false
	}
	return (t.Bid + t.Ask) / 2, true
}

// ————————————————————————————————————————————————————————————————————————
// Signals
// ————————————————————————————————————————————————————————————————————————

// Signal is an immutable order intent emitted by a strategy.
//
// A MARKET signal carries no Price; the engine fills it at the tick's Last
// price. A LIMIT signal must carry a positive Price. Tag is an opaque
// string surfaced on TradeExecuted/SignalRejected events for observability.
type Signal struct {
	Side      Side
	Size      float64
	OrderType OrderType
	Price     float64 // required iff OrderType == Limit
	Tag       string
}

// Validate checks the structural invariants of a Signal in isolation
// (size positivity, price required/forbidden by order type). It does not
// know about the tick or account state; those checks live in the engine.
func (s Signal) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("%w: signal size must be positive, got %v", ErrArgument, s.Size)
	}
	switch s.OrderType {
	case Market:
		if s.Price != 0 {
			return fmt.Errorf("%w: MARKET signal must not carry a price", ErrArgument)
		}
	case Limit:
		if s.Price <= 0 {
			return fmt.Errorf("%w: LIMIT signal requires a positive price", ErrArgument)
		}
	default:
		return fmt.Errorf("%w: unknown order type %q", ErrArgument, s.OrderType)
	}
	if s.Side != Buy && s.Side != Sell {
		return fmt.Errorf("%w: unknown side %q", ErrArgument, s.Side)
	}
	return nil
}

// ————————————————————————————————————————————————————————————————————————
// Events
// ————————————————————————————————————————————————————————————————————————

// EventKind tags which payload field of an EngineEvent is populated.
type EventKind string

const (
	EventTradeExecuted  EventKind = "trade_executed"
	EventSignalRejected EventKind = "signal_rejected"
	EventCircuitBreaker EventKind = "circuit_breaker"
	EventError          EventKind = "error"
)

// RejectReason enumerates why a signal was rejected locally.
type RejectReason string

const (
	ReasonInventoryLimitExceeded RejectReason = "inventory_limit_exceeded"
)

// TradeExecutedPayload carries the full result of a filled signal.
type TradeExecutedPayload struct {
	Side         Side
	Size         float64
	Price        float64
	Tag          string
	Response     map[string]any
	TradePnL     float64
	PositionQty  float64
	PositionAvg  float64
	RealizedPnL  float64
	Equity       float64
}

// SignalRejectedPayload carries a soft (non-fatal) rejection.
type SignalRejectedPayload struct {
	Signal Signal
	Reason RejectReason
}

// CircuitBreakerPayload carries the reason a session was halted.
type CircuitBreakerPayload struct {
	Reason string
}

// ErrorPayload carries a diagnostic error surfaced to the driver.
type ErrorPayload struct {
	Err error
}

// EngineEvent is a tagged variant emitted once per decision the engine
// makes while processing a tick. Exactly one of the payload fields is
// populated, selected by Kind, so consumers destructure statically
// instead of probing a free-form attribute map.
type EngineEvent struct {
	Kind EventKind

	TradeExecuted  *TradeExecutedPayload
	SignalRejected *SignalRejectedPayload
	CircuitBreaker *CircuitBreakerPayload
	Error          *ErrorPayload
}

func NewTradeExecuted(p TradeExecutedPayload) EngineEvent {
	return EngineEvent{Kind: EventTradeExecuted, TradeExecuted: &p}
}

func NewSignalRejected(p SignalRejectedPayload) EngineEvent {
	return EngineEvent{Kind: EventSignalRejected, SignalRejected: &p}
}

func NewCircuitBreaker(p CircuitBreakerPayload) EngineEvent {
	return EngineEvent{Kind: EventCircuitBreaker, CircuitBreaker: &p}
}

func NewError(err error) EngineEvent {
	return EngineEvent{Kind: EventError, Error: &ErrorPayload{Err: err}}
}

// ————————————————————————————————————————————————————————————————————————
// Backtest records
// ————————————————————————————————————————————————————————————————————————

// BacktestTrade is one materialized fill recorded during replay.
type BacktestTrade struct {
	Timestamp   float64
	Side        Side
	Size        float64
	Price       float64
	Fee         float64
	PnL         float64
	EquityAfter float64
	SignalTag   string
}

// EquityPoint is one sample of the backtest's equity curve.
type EquityPoint struct {
	Timestamp float64
	Equity    float64
}

// BacktestResult is the materialized summary of a backtest replay.
type BacktestResult struct {
	InitialEquity float64
	FinalEquity   float64
	NetPnL        float64
	TotalTrades   int
	Wins          int
	Losses        int
	WinRatePct    float64
	MaxDrawdown   float64
	Trades        []BacktestTrade
	EquityCurve   []EquityPoint
}

// ————————————————————————————————————————————————————————————————————————
// Shared errors
// ————————————————————————————————————————————————————————————————————————

// ErrArgument is the sentinel wrapped by argument-validation errors raised
// across package boundaries (Signal.Validate, position, inventory, risk).
// Components wrap it with errors.Is-compatible context via fmt.Errorf.
var ErrArgument = errArgument{}

type errArgument struct{}

func (errArgument) Error() string { return "argument error" }
