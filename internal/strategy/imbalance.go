package strategy

import (
	"math"

	"hftbot/pkg/types"
)

// ImbalanceConfig configures the order-book imbalance strategy.
type ImbalanceConfig struct {
	MinTotalSize  float64
	Threshold     float64
	CooldownTicks int
	SideBias      types.SideBias
	Size          float64
}

// Imbalance trades the skew between top-of-book bid and ask size
// (spec.md §4.6): I = (bid_size - ask_size)/(bid_size + ask_size), gated
// on minimum combined depth. Grounded on the teacher's book.MidPrice /
// top-of-book aggregation (internal/market/book.go), generalized from a
// staleness/mid check to a size-imbalance signal.
type Imbalance struct {
	cfg      ImbalanceConfig
	cooldown int
}

// NewImbalance creates an order-book imbalance strategy.
func NewImbalance(cfg ImbalanceConfig) *Imbalance {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	return &Imbalance{cfg: cfg}
}

func (s *Imbalance) Name() string { return "imbalance" }

func (s *Imbalance) OnFill(side types.Side, size, price float64) {}

func (s *Imbalance) OnTick(tick types.Tick) ([]types.Signal, error) {
	if s.cooldown > 0 {
		s.cooldown--
		return nil, nil
	}

	total := tick.BidSize + tick.AskSize
	if total < s.cfg.MinTotalSize || total == 0 {
		return nil, nil
	}

	imbalance := (tick.BidSize - tick.AskSize) / total
	if math.Abs(imbalance) < s.cfg.Threshold {
		return nil, nil
	}

	var side types.Side
	if imbalance > 0 {
		side = types.Buy
	} else {
		side = types.Sell
	}

	if !s.cfg.SideBias.Allows(side) {
		return nil, nil
	}

	s.cooldown = s.cfg.CooldownTicks

	return []types.Signal{
		{Side: side, Size: s.cfg.Size, OrderType: types.Market, Tag: "imbalance"},
	}, nil
}
