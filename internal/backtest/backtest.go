// Package backtest implements the Backtest Engine: the same
// tick-to-execution pipeline as internal/engine, with the live execution
// client replaced by a synthetic fill model (slippage + fees) and a
// materialized trade/equity-curve result (spec.md §4.8).
//
// Grounded on the teacher's internal/market/scanner.go periodic-sampling
// loop for the outer replay shape, and internal/risk/manager.go's
// PnL-aggregation discipline for the running equity/drawdown bookkeeping;
// the synthetic fill model itself (slippage bps, fee_rate) has no teacher
// analogue (the teacher only ever trades live) and is built directly from
// spec.md §4.8's formulas.
package backtest

import (
	"errors"
	"log/slog"

	"hftbot/internal/inventory"
	"hftbot/internal/position"
	"hftbot/internal/risk"
	"hftbot/internal/strategy"
	"hftbot/pkg/types"
)

// Config tunes the synthetic fill model and starting conditions.
type Config struct {
	Symbol        string
	InitialEquity float64
	FeeRate       float64 // fraction of notional, e.g. 0.001 for 10bps
	SlippageBps   float64 // adverse price movement at fill, in bps
}

// Engine replays a finite tick sequence through the strategy/risk/
// inventory pipeline, recording materialized trades and an equity curve
// instead of contacting a venue.
type Engine struct {
	cfg Config

	strategy strategy.Strategy
	riskMgr  *risk.Manager
	invMgr   *inventory.Manager
	pos      *position.Position

	equity      float64
	runningMax  float64
	maxDrawdown float64

	trades []types.BacktestTrade
	curve  []types.EquityPoint

	logger *slog.Logger
}

// New creates a backtest engine starting at cfg.InitialEquity.
func New(cfg Config, strat strategy.Strategy, riskMgr *risk.Manager, invMgr *inventory.Manager, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		strategy:   strat,
		riskMgr:    riskMgr,
		invMgr:     invMgr,
		pos:        position.New(cfg.Symbol),
		equity:     cfg.InitialEquity,
		runningMax: cfg.InitialEquity,
		logger:     logger.With("component", "backtest", "symbol", cfg.Symbol),
	}
}

// Run replays ticks to completion (or until the circuit breaker trips)
// and returns the summarized result (spec.md §4.8).
func (e *Engine) Run(ticks []types.Tick) types.BacktestResult {
	for _, tick := range ticks {
		if !e.step(tick) {
			break
		}
	}
	return e.result()
}

// step processes one tick and reports whether replay should continue.
func (e *Engine) step(tick types.Tick) bool {
	if !tick.HasLast() {
		return true
	}

	signals, err := e.strategy.OnTick(tick)
	if err != nil {
		e.logger.Error("strategy error", "error", err)
		return true
	}

	for _, sig := range signals {
		if !e.fill(tick, sig) {
			return false
		}
	}
	return true
}

// fill runs one signal through the synthetic fill model. Returns false
// if the circuit breaker tripped and replay must stop.
func (e *Engine) fill(tick types.Tick, sig types.Signal) bool {
	if err := sig.Validate(); err != nil {
		e.logger.Error("invalid signal", "error", err)
		return true
	}

	rawPrice := tick.Last
	if sig.OrderType == types.Limit {
		rawPrice = sig.Price
	}
	fillPrice := applySlippage(rawPrice, sig.Side, e.cfg.SlippageBps)
	fee := abs(sig.Size*fillPrice) * e.cfg.FeeRate

	snapshot := e.pos.Snapshot()
	if err := e.invMgr.Validate(snapshot.Qty, sig.Side, sig.Size, fillPrice, e.equity); err != nil {
		if errors.Is(err, inventory.ErrLimitExceeded) {
			return true
		}
		e.logger.Error("inventory error", "error", err)
		return true
	}

	notional := abs(sig.Size * fillPrice)
	if err := e.riskMgr.ValidatePositionSize(e.equity, notional); err != nil {
		e.logger.Warn("circuit breaker tripped, stopping replay", "error", err)
		return false
	}
	if err := e.riskMgr.IncrementOpenTrades(); err != nil {
		e.logger.Warn("circuit breaker tripped, stopping replay", "error", err)
		return false
	}

	realizedBefore := e.pos.Snapshot().RealizedPnL
	if err := e.pos.OnTrade(sig.Side, sig.Size, fillPrice); err != nil {
		e.riskMgr.DecrementOpenTrades()
		e.logger.Error("position error", "error", err)
		return true
	}
	after := e.pos.Snapshot()
	tradePnL := (after.RealizedPnL - realizedBefore) - fee

	e.riskMgr.RegisterTradePnL(tradePnL)
	e.riskMgr.DecrementOpenTrades()
	e.strategy.OnFill(sig.Side, sig.Size, fillPrice)

	e.equity += tradePnL
	if e.equity > e.runningMax {
		e.runningMax = e.equity
	}
	if dd := e.runningMax - e.equity; dd > e.maxDrawdown {
		e.maxDrawdown = dd
	}

	e.trades = append(e.trades, types.BacktestTrade{
		Timestamp:   tick.Timestamp,
		Side:        sig.Side,
		Size:        sig.Size,
		Price:       fillPrice,
		Fee:         fee,
		PnL:         tradePnL,
		EquityAfter: e.equity,
		SignalTag:   sig.Tag,
	})
	e.curve = append(e.curve, types.EquityPoint{Timestamp: tick.Timestamp, Equity: e.equity})

	return true
}

// result computes the summary statistics over the recorded trades
// (spec.md §4.8).
func (e *Engine) result() types.BacktestResult {
	wins, losses := 0, 0
	for _, tr := range e.trades {
		switch {
		case tr.PnL > 0:
			wins++
		case tr.PnL < 0:
			losses++
		}
	}

	winRate := 0.0
	if len(e.trades) > 0 {
		winRate = float64(wins) / float64(len(e.trades)) * 100
	}

	return types.BacktestResult{
		InitialEquity: e.cfg.InitialEquity,
		FinalEquity:   e.equity,
		NetPnL:        e.equity - e.cfg.InitialEquity,
		TotalTrades:   len(e.trades),
		Wins:          wins,
		Losses:        losses,
		WinRatePct:    winRate,
		MaxDrawdown:   e.maxDrawdown,
		Trades:        e.trades,
		EquityCurve:   e.curve,
	}
}

// applySlippage adjusts the fill price adversely: BUY fills higher,
// SELL fills lower, by bps basis points.
func applySlippage(price float64, side types.Side, bps float64) float64 {
	adj := bps / 10_000
	if side == types.Buy {
		return price * (1 + adj)
	}
	return price * (1 - adj)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
