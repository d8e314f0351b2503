// hftbot-bot is the live/dry-run driver: loads config, wires the tick
// pipeline, and feeds it ticks from either a simulated feed (local
// development) or a live WebSocket venue feed until interrupted.
//
// Architecture:
//
//	main.go                  — entry point: loads config, wires engine, waits for SIGINT/SIGTERM
//	internal/engine          — tick-to-execution pipeline orchestrator
//	internal/strategy        — Strategy contract + six implementations
//	internal/risk            — circuit breaker (daily loss / position size / open trades)
//	internal/inventory       — per-signal exposure admission gate
//	internal/position        — average-price PnL accounting
//	internal/feed            — simulated and live tick sources
//	internal/exchange        — dry-run and live execution clients
//	internal/metrics         — Prometheus instrumentation
//
// Grounded on the teacher's cmd/bot/main.go: config load → validate →
// logger setup → component wiring → signal-driven shutdown. The
// teacher's engine owns its own goroutines and a dashboard server; this
// driver instead owns the tick loop directly, since spec.md's engine is
// a synchronous per-tick call rather than a self-scheduling actor.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hftbot/internal/config"
	"hftbot/internal/engine"
	"hftbot/internal/exchange"
	"hftbot/internal/feed"
	"hftbot/internal/inventory"
	"hftbot/internal/metrics"
	"hftbot/internal/risk"
	"hftbot/internal/strategy"
	"hftbot/pkg/types"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("HFT_CONFIG"); p != "" {
		cfgPath = p
	}
	env := os.Getenv("HFT_ENV")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	cfg.Harden(env)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		logger.Error("failed to build strategy", "error", err)
		os.Exit(1)
	}

	riskMgr := risk.NewManager(risk.Limits{
		MaxDailyLossPct:       cfg.Risk.MaxDailyLossPct,
		MaxDailyLossValue:     cfg.Risk.MaxDailyLossValue,
		MaxPositionSizePct:    cfg.Risk.MaxPositionSizePct,
		MaxOpenTrades:         cfg.Risk.MaxOpenTrades,
		CircuitBreakerEnabled: cfg.Risk.CircuitBreaker.Enabled,
	}, logger)

	invMgr := inventory.New(inventory.Limits{
		MaxAbsQty:      cfg.Risk.Inventory.MaxAbsQty,
		MaxNotionalPct: cfg.Risk.Inventory.MaxNotionalPct,
	})

	var execClient exchange.Client
	if cfg.Trading.DryRun {
		execClient = exchange.NewDryRun(cfg.Backtest.InitialEquity, logger)
		logger.Warn("DRY-RUN MODE — no real orders will be placed")
	} else {
		execClient = exchange.NewLiveClient(exchange.LiveConfig{
			BaseURL: cfg.API.BaseURL,
			APIKey:  cfg.API.APIKey,
			Secret:  cfg.API.Secret,
		}, logger)
	}

	eng := engine.New(engine.Config{
		Symbol:                cfg.Trading.Symbol,
		RaiseOnCircuitBreaker: false,
	}, strat, riskMgr, invMgr, execClient, logger)

	feedCtx, cancelFeed := context.WithCancel(context.Background())
	defer cancelFeed()

	var tickFeed feed.Feed
	if cfg.API.WSURL != "" {
		tickFeed = feed.NewLiveFeed(cfg.API.WSURL, cfg.Trading.Symbol, logger)
	} else {
		sim := feed.NewSimulated(feed.SimulatedConfig{
			Symbol:          cfg.Trading.Symbol,
			StartPrice:      100,
			Volatility:      0.001,
			BaseSpreadTicks: 2,
			DepthLevels:     5,
			BaseLiquidity:   10,
			Seed:            1,
		})
		go sim.Run(feedCtx, 50*time.Millisecond)
		tickFeed = sim
		logger.Warn("no api.ws_url configured, using simulated feed")
	}

	if err := tickFeed.Connect(); err != nil {
		logger.Error("failed to connect feed", "error", err)
		os.Exit(1)
	}

	go serveMetrics(cfg.Logging, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("hftbot started", "symbol", cfg.Trading.Symbol, "strategy", cfg.Strategy.Name, "dry_run", cfg.Trading.DryRun)

	driveLoop(eng, tickFeed, sigCh, logger)

	tickFeed.Disconnect()
	logger.Info("shutdown complete")
}

// driveLoop reads ticks from the feed and pushes them through the
// engine, one at a time, until the engine trips its circuit breaker or
// an external interruption is observed (spec.md §5, "Cancellation").
func driveLoop(eng *engine.Engine, tickFeed feed.Feed, sigCh <-chan os.Signal, logger *slog.Logger) {
	ticks := tickFeed.Ticks()
	for {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig.String())
			return
		case tick, ok := <-ticks:
			if !ok {
				logger.Info("feed closed")
				return
			}
			events, err := eng.ProcessTick(tick)
			if err != nil {
				logger.Error("engine error", "error", err)
			}
			metrics.Observe(tick.Symbol, events)
			logEvents(logger, events)
			if !eng.Running() {
				logger.Error("engine stopped by circuit breaker")
				return
			}
		}
	}
}

// logEvents surfaces each engine event at the log level its kind
// warrants: a diagnostic for Error/CircuitBreaker, info-level detail for
// a fill, debug for a local rejection.
func logEvents(logger *slog.Logger, events []types.EngineEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case types.EventTradeExecuted:
			p := ev.TradeExecuted
			logger.Info("trade executed", "side", p.Side, "size", p.Size, "price", p.Price, "trade_pnl", p.TradePnL, "equity", p.Equity)
		case types.EventSignalRejected:
			logger.Debug("signal rejected", "reason", ev.SignalRejected.Reason, "tag", ev.SignalRejected.Signal.Tag)
		case types.EventCircuitBreaker:
			logger.Error("circuit breaker", "reason", ev.CircuitBreaker.Reason)
		case types.EventError:
			logger.Error("engine error", "error", ev.Error.Err)
		}
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func serveMetrics(cfg config.LoggingConfig, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ":9090", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}
