// Package config defines the external configuration surface the core
// consumes (spec.md §6): risk limits, inventory limits, trading mode,
// strategy selection/parameters, and backtest parameters. Loaded from a
// YAML file with HFT_*-prefixed environment variable overrides.
//
// Grounded on the teacher's internal/config/config.go: same
// mapstructure-tagged struct tree, the same viper.New/SetEnvPrefix/
// SetEnvKeyReplacer/AutomaticEnv loading sequence, and the same
// Validate() convention. The teacher's wallet/API-credential fields are
// replaced by the generic risk/inventory/strategy/backtest groups spec.md
// §6 specifies; venue-specific fields (chain ID, signature type, funder
// address) are dropped as out of core scope.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration, mapping directly onto the YAML
// file structure.
type Config struct {
	Trading  TradingConfig  `mapstructure:"trading"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	API      APIConfig      `mapstructure:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TradingConfig selects the run mode.
type TradingConfig struct {
	DryRun bool   `mapstructure:"dry_run"`
	Symbol string `mapstructure:"symbol"`
}

// RiskConfig carries the circuit-breaker limits and the nested
// inventory-gate limits (spec.md §6, groups `risk` and `risk.inventory`).
type RiskConfig struct {
	MaxDailyLossPct    float64         `mapstructure:"max_daily_loss_pct"`
	MaxDailyLossValue  float64         `mapstructure:"max_daily_loss_value"`
	MaxPositionSizePct float64         `mapstructure:"max_position_size_pct"`
	MaxOpenTrades      int             `mapstructure:"max_open_trades"`
	CircuitBreaker     CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Inventory          InventoryConfig `mapstructure:"inventory"`
}

// CircuitBreakerConfig toggles whether the daily-loss leg of the breaker
// is armed (spec.md §6: `risk.circuit_breaker.enabled`).
type CircuitBreakerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// InventoryConfig is the per-trade exposure admission gate's
// configuration (spec.md §6: `risk.inventory`).
type InventoryConfig struct {
	MaxAbsQty      float64 `mapstructure:"max_abs_qty"`
	MaxNotionalPct float64 `mapstructure:"max_notional_pct"`
}

// StrategyConfig selects the active strategy and carries every
// strategy's parameters; only the block matching Name is consulted by
// the driver (spec.md §6, §4.6 defaults).
type StrategyConfig struct {
	Name string `mapstructure:"name"`

	MMv1  MMv1Config  `mapstructure:"mmv1"`
	MMv2  MMv2Config  `mapstructure:"mmv2"`
	MRv1  MRv1Config  `mapstructure:"mrv1"`
	Micro MicroConfig `mapstructure:"micro_momentum"`
	Imb   ImbConfig   `mapstructure:"imbalance"`
	SMT   SMTConfig   `mapstructure:"simple_maker_taker"`
}

type MMv1Config struct {
	TickInterval int     `mapstructure:"tick_interval"`
	SpreadPct    float64 `mapstructure:"spread_pct"`
	MinSpread    float64 `mapstructure:"min_spread"`
}

type MMv2Config struct {
	TickInterval int     `mapstructure:"tick_interval"`
	VolWindow    int     `mapstructure:"vol_window"`
	SpreadPct    float64 `mapstructure:"spread_pct"`
	MinSpread    float64 `mapstructure:"min_spread"`
	MaxSpread    float64 `mapstructure:"max_spread"`
	VolFactor    float64 `mapstructure:"vol_factor"`
}

type MRv1Config struct {
	LookbackTicks int     `mapstructure:"lookback_ticks"`
	ZThreshold    float64 `mapstructure:"z_threshold"`
	MaxZCap       float64 `mapstructure:"max_z_cap"`
	CooldownTicks int     `mapstructure:"cooldown_ticks"`
	SideBias      string  `mapstructure:"side_bias"`
	Size          float64 `mapstructure:"size"`
}

type MicroConfig struct {
	LookbackTicks int     `mapstructure:"lookback_ticks"`
	MinMoves      int     `mapstructure:"min_moves"`
	MinReturn     float64 `mapstructure:"min_return"`
	CooldownTicks int     `mapstructure:"cooldown_ticks"`
	SideBias      string  `mapstructure:"side_bias"`
	Size          float64 `mapstructure:"size"`
}

type ImbConfig struct {
	MinTotalSize float64 `mapstructure:"min_total_size"`
	Threshold    float64 `mapstructure:"threshold"`
	CooldownTicks int    `mapstructure:"cooldown_ticks"`
	SideBias     string  `mapstructure:"side_bias"`
	Size         float64 `mapstructure:"size"`
}

// SMTConfig is the simple_maker_taker block. Size is loaded but
// strategy.New does not pass it on: SimpleMakerTaker always quotes size 1.
type SMTConfig struct {
	TickInterval int     `mapstructure:"tick_interval"`
	MinSpread    float64 `mapstructure:"min_spread"`
	Size         float64 `mapstructure:"size"`
}

// BacktestConfig parameterizes the synthetic fill model (spec.md §6,
// group `backtest`).
type BacktestConfig struct {
	InitialEquity float64 `mapstructure:"initial_equity"`
	FeeRate       float64 `mapstructure:"fee_rate"`
	SlippageBps   float64 `mapstructure:"slippage_bps"`
}

// APIConfig holds the live venue's connection details.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	WSURL   string `mapstructure:"ws_url"`
	APIKey  string `mapstructure:"api_key"`
	Secret  string `mapstructure:"secret"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from a YAML file with HFT_*-prefixed env overrides,
// mirroring the teacher's Load (internal/config/config.go).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("HFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if key := os.Getenv("HFT_API_KEY"); key != "" {
		cfg.API.APIKey = key
	}
	if secret := os.Getenv("HFT_API_SECRET"); secret != "" {
		cfg.API.Secret = secret
	}
	if os.Getenv("HFT_DRY_RUN") == "true" || os.Getenv("HFT_DRY_RUN") == "1" {
		cfg.Trading.DryRun = true
	}

	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	if c.Risk.MaxPositionSizePct <= 0 {
		return fmt.Errorf("risk.max_position_size_pct must be > 0")
	}
	if c.Risk.MaxOpenTrades <= 0 {
		return fmt.Errorf("risk.max_open_trades must be > 0")
	}
	if c.Risk.Inventory.MaxAbsQty <= 0 {
		return fmt.Errorf("risk.inventory.max_abs_qty must be > 0")
	}
	if c.Risk.Inventory.MaxNotionalPct <= 0 {
		return fmt.Errorf("risk.inventory.max_notional_pct must be > 0")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	return nil
}

// Harden applies the environment-hardening policy spec.md §6 documents
// as a driver concern: in a "live" environment, the circuit breaker is
// forced on, and dry-run may only be disabled when both consent
// variables are explicitly set.
func (c *Config) Harden(env string) {
	if env != "live" {
		return
	}
	c.Risk.CircuitBreaker.Enabled = true

	confirmed := os.Getenv("HFT_LIVE_TRADING_CONFIRMED") == "yes"
	understood := os.Getenv("HFT_I_UNDERSTAND_THE_RISK") == "yes"
	if !(confirmed && understood) {
		c.Trading.DryRun = true
	}
}
