// Package metrics exposes Prometheus instrumentation for the tick-to-
// execution pipeline: ticks processed, trades executed, signals
// rejected, circuit breaker trips, and current equity.
//
// Grounded on the teacher's metrics.go-equivalent pattern found in
// chidi150c-coinbase/metrics.go (package-level CounterVec/GaugeVec
// declarations, registered in init(), thin Inc/Set helper functions) —
// generalized from that bot's win/loss/exit-reason label set to the
// engine's event taxonomy (spec.md §3's EngineEvent kinds).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"hftbot/pkg/types"
)

var (
	Ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hftbot_ticks_total",
			Help: "Ticks processed by the engine, by symbol.",
		},
		[]string{"symbol"},
	)

	Trades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hftbot_trades_total",
			Help: "Trades executed, by symbol and side.",
		},
		[]string{"symbol", "side"},
	)

	SignalsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hftbot_signals_rejected_total",
			Help: "Signals rejected locally, by symbol and reason.",
		},
		[]string{"symbol", "reason"},
	)

	CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hftbot_circuit_breaker_trips_total",
			Help: "Circuit breaker trips, by symbol.",
		},
		[]string{"symbol"},
	)

	Equity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hftbot_equity_usd",
			Help: "Last observed account equity, by symbol.",
		},
		[]string{"symbol"},
	)

	RealizedPnL = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hftbot_realized_pnl_usd",
			Help: "Cumulative realized PnL, by symbol.",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(Ticks, Trades, SignalsRejected, CircuitBreakerTrips, Equity, RealizedPnL)
}

// Observe updates the metric set from one batch of engine events, the
// way a driver loop would after each ProcessTick call.
func Observe(symbol string, events []types.EngineEvent) {
	Ticks.WithLabelValues(symbol).Inc()
	for _, ev := range events {
		switch ev.Kind {
		case types.EventTradeExecuted:
			p := ev.TradeExecuted
			Trades.WithLabelValues(symbol, string(p.Side)).Inc()
			Equity.WithLabelValues(symbol).Set(p.Equity)
			RealizedPnL.WithLabelValues(symbol).Set(p.RealizedPnL)
		case types.EventSignalRejected:
			SignalsRejected.WithLabelValues(symbol, string(ev.SignalRejected.Reason)).Inc()
		case types.EventCircuitBreaker:
			CircuitBreakerTrips.WithLabelValues(symbol).Inc()
		}
	}
}
