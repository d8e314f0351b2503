package strategy

import (
	"math"

	"hftbot/pkg/types"
)

// MicroMomentumConfig configures the micro-momentum strategy.
type MicroMomentumConfig struct {
	LookbackTicks int
	MinMoves      int
	MinReturn     float64
	CooldownTicks int
	SideBias      types.SideBias
	Size          float64
}

// MicroMomentum trades breakouts: it requires the last min_moves price
// changes to be strict, same-signed moves and the total return over the
// lookback window to exceed ±min_return (spec.md §4.6). Grounded on the
// teacher's FlowTracker directional-imbalance counting
// (internal/strategy/flow_tracker.go), adapted from counting fill
// direction to counting consecutive price-move direction.
type MicroMomentum struct {
	cfg      MicroMomentumConfig
	prices   *window
	cooldown int
}

// NewMicroMomentum creates a micro-momentum strategy.
func NewMicroMomentum(cfg MicroMomentumConfig) *MicroMomentum {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	return &MicroMomentum{cfg: cfg, prices: newWindow(cfg.LookbackTicks)}
}

func (s *MicroMomentum) Name() string { return "micro_momentum" }

func (s *MicroMomentum) OnFill(side types.Side, size, price float64) {}

func (s *MicroMomentum) OnTick(tick types.Tick) ([]types.Signal, error) {
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

	values := s.prices.Values()
	dir, moves := consecutiveMoves(values)
	if dir == 0 || moves < s.cfg.MinMoves {
		return nil, nil
	}

	p0, pN := values[0], values[len(values)-1]
	if p0 == 0 {
		return nil, nil
	}
	totalReturn := (pN - p0) / p0
	if math.Abs(totalReturn) < s.cfg.MinReturn {
		return nil, nil
	}
	if (dir > 0) != (totalReturn > 0) {
		return nil, nil
	}

	var side types.Side
	if dir > 0 {
		side = types.Buy
	} else {
		side = types.Sell
	}

	if !s.cfg.SideBias.Allows(side) {
		return nil, nil
	}

	s.cooldown = s.cfg.CooldownTicks

	return []types.Signal{
		{Side: side, Size: s.cfg.Size, OrderType: types.Market, Tag: "micro_momentum"},
	}, nil
}

// consecutiveMoves scans values from the end backwards and reports the
// sign of the run of strictly monotone consecutive moves and its length.
// A flat (equal-price) step resets the run. Returns dir=0 if the last
// move is flat.
func consecutiveMoves(values []float64) (dir int, moves int) {
	n := len(values)
	if n < 2 {
		return 0, 0
	}
	last := values[n-1] - values[n-2]
	switch {
	case last > 0:
		dir = 1
	case last < 0:
		dir = -1
	default:
		return 0, 0
	}

	moves = 1
	for i := n - 2; i > 0; i-- {
		d := values[i] - values[i-1]
		if (dir > 0 && d > 0) || (dir < 0 && d < 0) {
			moves++
			continue
		}
		break
	}
	return dir, moves
}
