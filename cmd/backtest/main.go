// hftbot-backtest replays a simulated (or recorded) tick stream through
// the backtest engine and prints the summarized result (spec.md §4.8).
//
// Grounded on the teacher's cmd/bot/main.go config-load/validate/wire
// sequence, substituting the live engine+feed loop for a finite
// generate-then-replay pass: the simulated feed produces a bounded
// number of ticks up front instead of streaming indefinitely.
package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	"hftbot/internal/backtest"
	"hftbot/internal/config"
	"hftbot/internal/feed"
	"hftbot/internal/inventory"
	"hftbot/internal/risk"
	"hftbot/internal/strategy"
	"hftbot/pkg/types"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("HFT_CONFIG"); p != "" {
		cfgPath = p
	}
	numTicks := 10_000
	if raw := os.Getenv("HFT_BACKTEST_TICKS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			numTicks = n
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

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

	eng := backtest.New(backtest.Config{
		Symbol:        cfg.Trading.Symbol,
		InitialEquity: cfg.Backtest.InitialEquity,
		FeeRate:       cfg.Backtest.FeeRate,
		SlippageBps:   cfg.Backtest.SlippageBps,
	}, strat, riskMgr, invMgr, logger)

	ticks := generateTicks(cfg.Trading.Symbol, numTicks)

	result := eng.Run(ticks)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summarize(result)); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}

// generateTicks drains the simulated feed for n ticks. In production use
// this would instead read a recorded CSV tick stream; spec.md's Feed
// contract treats both as an equivalent finite tick sequence.
func generateTicks(symbol string, n int) []types.Tick {
	sim := feed.NewSimulated(feed.SimulatedConfig{
		Symbol:          symbol,
		StartPrice:      100,
		Volatility:      0.001,
		BaseSpreadTicks: 2,
		DepthLevels:     5,
		BaseLiquidity:   10,
		Seed:            42,
	})

	out := make([]types.Tick, n)
	for i := 0; i < n; i++ {
		out[i] = sim.Next()
	}
	return out
}

// summary is the JSON-friendly view of types.BacktestResult, omitting
// the full trade/equity-curve detail to keep stdout readable.
type summary struct {
	InitialEquity float64 `json:"initial_equity"`
	FinalEquity   float64 `json:"final_equity"`
	NetPnL        float64 `json:"net_pnl"`
	TotalTrades   int     `json:"total_trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRatePct    float64 `json:"win_rate_pct"`
	MaxDrawdown   float64 `json:"max_drawdown"`
}

func summarize(r types.BacktestResult) summary {
	return summary{
		InitialEquity: r.InitialEquity,
		FinalEquity:   r.FinalEquity,
		NetPnL:        r.NetPnL,
		TotalTrades:   r.TotalTrades,
		Wins:          r.Wins,
		Losses:        r.Losses,
		WinRatePct:    r.WinRatePct,
		MaxDrawdown:   r.MaxDrawdown,
	}
}
