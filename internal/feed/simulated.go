package feed

import (
	"context"
	"math/rand"
	"time"

	"hftbot/pkg/types"
)

// SimulatedConfig parameterizes the synthetic order-book generator
// (spec.md §4.7).
type SimulatedConfig struct {
	Symbol          string
	StartPrice      float64
	Volatility      float64
	BaseSpreadTicks float64
	DepthLevels     int
	BaseLiquidity   float64
	Seed            int64
}

// Simulated produces an infinite lazy sequence of ticks driven by a
// deterministic pseudorandom generator, for backtests and local
// development without a live venue connection.
//
// Grounded on the teacher's internal/market/book.go (Book bookkeeping,
// MidPrice/IsStale) and internal/market/scanner.go (periodic synthetic
// sampling loop), adapted from consuming live WS book events to
// generating its own microstructure events per spec.md §4.7.
type Simulated struct {
	cfg      SimulatedConfig
	rng      *rand.Rand
	mid      float64
	tickSize float64
	decay    float64
	ticks    chan types.Tick
	stop     chan struct{}
	seq      uint64
}

// NewSimulated creates a simulated feed. Call Run to start producing into
// Ticks(), or call Next to generate ticks synchronously.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	return &Simulated{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		mid:      cfg.StartPrice,
		tickSize: cfg.StartPrice * 0.0001,
		ticks:    make(chan types.Tick, 1),
		stop:     make(chan struct{}),
	}
}

func (s *Simulated) Connect() error {
	return nil
}

func (s *Simulated) Disconnect() error {
	select {
	case <-s.stop:
		// already closed
	default:
		close(s.stop)
	}
	return nil
}

func (s *Simulated) Ticks() <-chan types.Tick {
	return s.ticks
}

// Run produces one tick every interval into the Ticks() channel, a
// non-blocking send dropping the tick if the consumer isn't keeping up.
// Blocks until ctx is cancelled or Disconnect is called, then closes the
// Ticks() channel.
func (s *Simulated) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(s.ticks)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			select {
			case s.ticks <- s.Next():
			default:
			}
		}
	}
}

// Next synchronously generates and returns the next tick, for callers
// (such as the backtest engine) that drive the feed directly instead of
// reading from the Ticks() channel.
func (s *Simulated) Next() types.Tick {
	s.seq++
	s.runMicrostructureEvents()
	bids, asks := s.buildBook()
	last := s.sampleLast(bids, asks)

	tick := types.Tick{
		Symbol:    s.cfg.Symbol,
		Last:      last,
		Timestamp: float64(s.seq),
		Bids:      bids,
		Asks:      asks,
	}
	if len(bids) > 0 {
		tick.Bid = bids[0].Price
		tick.BidSize = bids[0].Size
	}
	if len(asks) > 0 {
		tick.Ask = asks[0].Price
		tick.AskSize = asks[0].Size
	}
	return tick
}

// runMicrostructureEvents runs 1-5 events that nudge s.mid.
func (s *Simulated) runMicrostructureEvents() {
	n := 1 + s.rng.Intn(5)
	for i := 0; i < n; i++ {
		switch s.classify() {
		case eventAggressiveBuy:
			move := s.cfg.Volatility * uniform(s.rng, 0.2, 1.0)
			s.mid *= 1 + move
		case eventAggressiveSell:
			move := s.cfg.Volatility * uniform(s.rng, 0.2, 1.0)
			s.mid *= 1 - move
		default: // noise
			move := s.cfg.Volatility * uniform(s.rng, 0.2, 1.0)
			sign := 1.0
			if s.rng.Intn(2) == 0 {
				sign = -1.0
			}
			s.mid *= 1 + sign*0.3*move
		}
	}
	if min := 10 * s.tickSize; s.mid < min {
		s.mid = min
	}
}

type eventKind int

const (
	eventAggressiveBuy eventKind = iota
	eventAggressiveSell
	eventNoise
)

// classify samples {aggressive_buy: 15%, aggressive_sell: 15%, noise: 70%}.
func (s *Simulated) classify() eventKind {
	r := s.rng.Float64()
	switch {
	case r < 0.15:
		return eventAggressiveBuy
	case r < 0.30:
		return eventAggressiveSell
	default:
		return eventNoise
	}
}

func (s *Simulated) buildBook() (bids, asks []types.PriceLevel) {
	spread := maxFloat(s.cfg.BaseSpreadTicks*s.tickSize*uniform(s.rng, 0.5, 2.0), 0.5*s.tickSize)
	decay := uniform(s.rng, 0.6, 0.9)
	s.decay = decay

	bestBid := s.mid - spread/2
	bestAsk := s.mid + spread/2

	bids = make([]types.PriceLevel, s.cfg.DepthLevels)
	asks = make([]types.PriceLevel, s.cfg.DepthLevels)

	for i := 1; i <= s.cfg.DepthLevels; i++ {
		liquidity := s.cfg.BaseLiquidity * pow(decay, i) * uniform(s.rng, 0.8, 1.2)
		if i == 1 {
			liquidity *= 1.5 // top-of-book boosted level
		}
		bids[i-1] = types.PriceLevel{Price: bestBid - float64(i-1)*s.tickSize, Size: liquidity}
		asks[i-1] = types.PriceLevel{Price: bestAsk + float64(i-1)*s.tickSize, Size: liquidity}
	}
	return bids, asks
}

func (s *Simulated) sampleLast(bids, asks []types.PriceLevel) float64 {
	if len(bids) == 0 || len(asks) == 0 {
		return s.mid
	}
	bestBid, bestAsk := bids[0].Price, asks[0].Price
	spread := bestAsk - bestBid

	switch s.classify() {
	case eventAggressiveBuy:
		return bestAsk * (1 + uniform(s.rng, 0, 2e-4))
	case eventAggressiveSell:
		return bestBid * (1 - uniform(s.rng, 0, 2e-4))
	default:
		offset := uniform(s.rng, -0.4, 0.4) * spread
		return s.mid + offset
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
