package strategy

import (
	"math"

	"hftbot/pkg/types"
)

// MRv1Config configures the mean-reversion strategy.
type MRv1Config struct {
	LookbackTicks int
	ZThreshold    float64
	MaxZCap       float64
	CooldownTicks int
	SideBias      types.SideBias
	Size          float64
}

// MRv1 trades against short-term deviations from a rolling mean,
// gated by a z-score threshold and a post-signal cooldown (spec.md §4.6).
// Grounded on the teacher's FlowTracker window-then-score pattern
// (internal/strategy/flow_tracker.go), replacing the toxicity score with
// a z-score computed over internal/strategy/rolling.go's window.
type MRv1 struct {
	cfg      MRv1Config
	prices   *window
	cooldown int
}

// NewMRv1 creates a mean-reversion strategy.
func NewMRv1(cfg MRv1Config) *MRv1 {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	return &MRv1{cfg: cfg, prices: newWindow(cfg.LookbackTicks)}
}

func (s *MRv1) Name() string { return "mrv1" }

func (s *MRv1) OnFill(side types.Side, size, price float64) {}

func (s *MRv1) OnTick(tick types.Tick) ([]types.Signal, error) {
	if !tick.HasLast() {
		return nil, nil
	}
	s.prices.Push(tick.Last)

	if s.cooldown > 0 {
		s.cooldown--
		return nil, nil
	}

	if !s.prices.Full() {
		return nil, nil
	}

	mu := s.prices.Mean()
	sigma := s.prices.StdDev()
	if sigma <= 0 {
		return nil, nil
	}

	z := clampFloat((tick.Last-mu)/sigma, -s.cfg.MaxZCap, s.cfg.MaxZCap)
	if math.Abs(z) < s.cfg.ZThreshold {
		return nil, nil
	}

	var side types.Side
	if z <= -s.cfg.ZThreshold {
		side = types.Buy
	} else {
		side = types.Sell
	}

	if !s.cfg.SideBias.Allows(side) {
		return nil, nil
	}

	s.cooldown = s.cfg.CooldownTicks

	return []types.Signal{
		{Side: side, Size: s.cfg.Size, OrderType: types.Market, Tag: "mrv1"},
	}, nil
}
