package strategy

import "hftbot/pkg/types"

// SimpleMakerTakerConfig configures the alternating baseline strategy.
type SimpleMakerTakerConfig struct {
	TickInterval int
	MinSpread    float64
}

// SimpleMakerTaker is the simplest baseline: every N ticks, if the book
// spread is wide enough, it posts one LIMIT order, alternating BUY at
// bid and SELL at ask. Grounded on the teacher's fixed-interval
// ticker.C loop in quoteUpdate (internal/strategy/maker.go), stripped of
// inventory/volatility adjustment to the degenerate alternating case.
type SimpleMakerTaker struct {
	cfg       SimpleMakerTakerConfig
	tickCount int
	nextIsBuy bool
}

// NewSimpleMakerTaker creates the alternating baseline strategy.
func NewSimpleMakerTaker(cfg SimpleMakerTakerConfig) *SimpleMakerTaker {
	return &SimpleMakerTaker{cfg: cfg, nextIsBuy: true}
}

func (s *SimpleMakerTaker) Name() string { return "simple_maker_taker" }

func (s *SimpleMakerTaker) OnFill(side types.Side, size, price float64) {}

func (s *SimpleMakerTaker) OnTick(tick types.Tick) ([]types.Signal, error) {
	s.tickCount++
	if s.cfg.TickInterval > 0 && s.tickCount%s.cfg.TickInterval != 0 {
		return nil, nil
	}

	if tick.Bid <= 0 || tick.Ask <= 0 {
		return nil, nil
	}
	if tick.Ask-tick.Bid < s.cfg.MinSpread {
		return nil, nil
	}

	var sig types.Signal
	if s.nextIsBuy {
		sig = types.Signal{Side: types.Buy, Size: 1, OrderType: types.Limit, Price: tick.Bid, Tag: "simple_maker_taker"}
	} else {
		sig = types.Signal{Side: types.Sell, Size: 1, OrderType: types.Limit, Price: tick.Ask, Tag: "simple_maker_taker"}
	}
	s.nextIsBuy = !s.nextIsBuy

	return []types.Signal{sig}, nil
}
