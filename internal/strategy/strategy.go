// Package strategy holds the Strategy contract and its implementations.
//
// A strategy is a pure function of its own rolling state and the tick
// stream: on_tick may mutate internal windows/counters but never touches
// position, risk, or equity — those stay the engine's concern (spec.md
// §4.1). Grounded on the teacher's internal/strategy/maker.go, which
// plays the same role (Avellaneda-Stoikov quoting) for a single
// Polymarket market; generalized here to an interface with several
// concrete strategies instead of one hardwired Maker type.
package strategy

import "hftbot/pkg/types"

// Strategy is the per-tick signal generator. OnTick is pure w.r.t.
// external state and deterministic given the input tick sequence.
type Strategy interface {
	// OnTick returns zero or more signals, in the order they should be
	// processed by the engine.
	OnTick(tick types.Tick) ([]types.Signal, error)

	// OnFill notifies the strategy that one of its signals was executed.
	// Most strategies ignore this; it exists for strategies whose state
	// depends on realized fills rather than just ticks.
	OnFill(side types.Side, size, price float64)

	// Name identifies the strategy for logging and metrics.
	Name() string
}
