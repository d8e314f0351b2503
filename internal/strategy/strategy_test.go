package strategy

import (
	"math"
	"testing"

	"hftbot/pkg/types"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func tickMid(bid, ask float64) types.Tick {
	return types.Tick{Symbol: "BTC-USD", Last: bid, Bid: bid, Ask: ask}
}

// Property 13, MMv1.
func TestMMv1EmitsSymmetricSignals(t *testing.T) {
	s := NewMMv1(MMv1Config{TickInterval: 1, SpreadPct: 1, MinSpread: 0})

	sigs, err := s.OnTick(tickMid(99, 101))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("len(sigs) = %d, want 2", len(sigs))
	}

	var buy, sell *types.Signal
	for i := range sigs {
		switch sigs[i].Side {
		case types.Buy:
			buy = &sigs[i]
		case types.Sell:
			sell = &sigs[i]
		}
	}
	if buy == nil || sell == nil {
		t.Fatalf("expected one BUY and one SELL, got %+v", sigs)
	}

	mid := 100.0
	if !approxEqual(mid-buy.Price, sell.Price-mid) {
		t.Errorf("not symmetric around mid: buy=%v sell=%v mid=%v", buy.Price, sell.Price, mid)
	}
}

func TestMMv1RespectsTickInterval(t *testing.T) {
	s := NewMMv1(MMv1Config{TickInterval: 3, SpreadPct: 1})

	for i := 0; i < 2; i++ {
		sigs, _ := s.OnTick(tickMid(99, 101))
		if len(sigs) != 0 {
			t.Fatalf("tick %d: got %d signals, want 0", i, len(sigs))
		}
	}
	sigs, _ := s.OnTick(tickMid(99, 101))
	if len(sigs) != 2 {
		t.Fatalf("3rd tick: got %d signals, want 2", len(sigs))
	}
}

// Property 13, MMv2.
func TestMMv2EmitsSymmetricSignals(t *testing.T) {
	s := NewMMv2(MMv2Config{TickInterval: 1, VolWindow: 5, SpreadPct: 1, MinSpread: 0.01, MaxSpread: 10, VolFactor: 2})

	sigs, err := s.OnTick(tickMid(99, 101))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("len(sigs) = %d, want 2", len(sigs))
	}

	mid := 100.0
	var buy, sell *types.Signal
	for i := range sigs {
		if sigs[i].Side == types.Buy {
			buy = &sigs[i]
		} else {
			sell = &sigs[i]
		}
	}
	if !approxEqual(mid-buy.Price, sell.Price-mid) {
		t.Errorf("not symmetric around mid: buy=%v sell=%v", buy.Price, sell.Price)
	}
}

// Property 14.
func TestMRv1SingleSellOnUpwardDeviation(t *testing.T) {
	s := NewMRv1(MRv1Config{LookbackTicks: 5, ZThreshold: 1, MaxZCap: 10, CooldownTicks: 10, SideBias: types.BiasBoth})

	prices := []float64{100, 100, 100, 100, 102}
	var allSigs []types.Signal
	for _, p := range prices {
		sigs, err := s.OnTick(types.Tick{Symbol: "X", Last: p})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		allSigs = append(allSigs, sigs...)
	}

	if len(allSigs) != 1 {
		t.Fatalf("got %d signals, want 1: %+v", len(allSigs), allSigs)
	}
	if allSigs[0].Side != types.Sell || allSigs[0].OrderType != types.Market {
		t.Errorf("signal = %+v, want SELL MARKET", allSigs[0])
	}
}

func TestMRv1CooldownSuppressesFurtherSignals(t *testing.T) {
	s := NewMRv1(MRv1Config{LookbackTicks: 5, ZThreshold: 1, MaxZCap: 10, CooldownTicks: 3, SideBias: types.BiasBoth})

	prices := []float64{100, 100, 100, 100, 102, 102, 102}
	var allSigs []types.Signal
	for _, p := range prices {
		sigs, _ := s.OnTick(types.Tick{Symbol: "X", Last: p})
		allSigs = append(allSigs, sigs...)
	}
	if len(allSigs) != 1 {
		t.Fatalf("got %d signals during cooldown window, want 1", len(allSigs))
	}
}

// Property 15.
func TestMicroMomentumSingleBuyThenCooldown(t *testing.T) {
	s := NewMicroMomentum(MicroMomentumConfig{
		LookbackTicks: 5, MinMoves: 4, MinReturn: 0.01, CooldownTicks: 5, SideBias: types.BiasBoth,
	})

	prices := []float64{100, 101, 102, 103, 105, 106, 107}
	var allSigs []types.Signal
	for _, p := range prices {
		sigs, err := s.OnTick(types.Tick{Symbol: "X", Last: p})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		allSigs = append(allSigs, sigs...)
	}

	if len(allSigs) != 1 {
		t.Fatalf("got %d signals, want 1: %+v", len(allSigs), allSigs)
	}
	if allSigs[0].Side != types.Buy || allSigs[0].OrderType != types.Market {
		t.Errorf("signal = %+v, want BUY MARKET", allSigs[0])
	}
}

func TestMicroMomentumFlatMoveResetsRun(t *testing.T) {
	s := NewMicroMomentum(MicroMomentumConfig{
		LookbackTicks: 4, MinMoves: 3, MinReturn: 0.01, CooldownTicks: 5, SideBias: types.BiasBoth,
	})

	prices := []float64{100, 101, 101, 103}
	var allSigs []types.Signal
	for _, p := range prices {
		sigs, _ := s.OnTick(types.Tick{Symbol: "X", Last: p})
		allSigs = append(allSigs, sigs...)
	}
	if len(allSigs) != 0 {
		t.Fatalf("got %d signals, want 0 (flat move should break the run)", len(allSigs))
	}
}

func TestImbalanceGatesOnThresholdAndDepth(t *testing.T) {
	s := NewImbalance(ImbalanceConfig{MinTotalSize: 10, Threshold: 0.2, CooldownTicks: 1, SideBias: types.BiasBoth})

	sigs, _ := s.OnTick(types.Tick{Symbol: "X", BidSize: 3, AskSize: 3})
	if len(sigs) != 0 {
		t.Fatalf("below min_total_size: got %d signals, want 0", len(sigs))
	}

	sigs, _ = s.OnTick(types.Tick{Symbol: "X", BidSize: 8, AskSize: 2})
	if len(sigs) != 1 || sigs[0].Side != types.Buy {
		t.Fatalf("imbalanced book: got %+v, want one BUY", sigs)
	}
}

func TestSideBiasBlocksOppositeSide(t *testing.T) {
	s := NewMRv1(MRv1Config{LookbackTicks: 5, ZThreshold: 1, MaxZCap: 10, CooldownTicks: 1, SideBias: types.BiasLongOnly})

	prices := []float64{100, 100, 100, 100, 102} // would signal SELL
	var allSigs []types.Signal
	for _, p := range prices {
		sigs, _ := s.OnTick(types.Tick{Symbol: "X", Last: p})
		allSigs = append(allSigs, sigs...)
	}
	if len(allSigs) != 0 {
		t.Fatalf("long_only bias should block SELL, got %+v", allSigs)
	}
}

// A bias-blocked signal must not arm the cooldown: the next tick that
// triggers on the allowed side has to fire immediately, not after
// cooldown_ticks more ticks (spec.md:134 — cooldown is armed "after
// emitting", i.e. only on an actually-emitted signal).
func TestSideBiasBlockDoesNotArmCooldown(t *testing.T) {
	s := NewMRv1(MRv1Config{LookbackTicks: 3, ZThreshold: 1, MaxZCap: 10, CooldownTicks: 3, SideBias: types.BiasLongOnly})

	// Fills the window; last tick's z-score triggers a SELL, which
	// long_only blocks.
	for _, p := range []float64{100, 100, 112} {
		sigs, _ := s.OnTick(types.Tick{Symbol: "X", Last: p})
		if len(sigs) != 0 {
			t.Fatalf("unexpected signal while filling window: %+v", sigs)
		}
	}

	// The very next tick triggers a BUY, which long_only allows. If the
	// blocked SELL had wrongly armed the cooldown, this would return no
	// signal here.
	sigs, err := s.OnTick(types.Tick{Symbol: "X", Last: 70})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sigs) != 1 || sigs[0].Side != types.Buy {
		t.Fatalf("expected an immediate BUY signal, got %+v", sigs)
	}
}

func TestSimpleMakerTakerAlternatesSides(t *testing.T) {
	s := NewSimpleMakerTaker(SimpleMakerTakerConfig{TickInterval: 1, MinSpread: 1})

	tick := types.Tick{Symbol: "X", Bid: 99, Ask: 101}
	sigs1, _ := s.OnTick(tick)
	sigs2, _ := s.OnTick(tick)

	if len(sigs1) != 1 || len(sigs2) != 1 {
		t.Fatalf("expected one signal per tick, got %d and %d", len(sigs1), len(sigs2))
	}
	if sigs1[0].Side == sigs2[0].Side {
		t.Errorf("expected alternating sides, got %v then %v", sigs1[0].Side, sigs2[0].Side)
	}
}
