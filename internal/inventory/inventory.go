// Package inventory implements the per-signal exposure admission gate.
//
// Unlike internal/risk, the Inventory Risk Manager is entirely stateless:
// every decision is a pure function of the arguments passed in. Grounded on
// the stateless exposure checks in internal/strategy/inventory.go of the
// teacher repo (computeMaxSize / exposure-limit guards), generalized here
// to a single signed-qty position instead of a dual YES/NO book.
package inventory

import (
	"errors"
	"fmt"

	"hftbot/pkg/types"
)

// ErrLimitExceeded is returned when a prospective trade would push the
// position beyond max_abs_qty or max_notional_pct.
var ErrLimitExceeded = errors.New("inventory limit exceeded")

// Limits is the immutable inventory configuration (spec.md §3).
type Limits struct {
	MaxAbsQty      float64
	MaxNotionalPct float64
}

// Manager is the stateless inventory admission gate.
type Manager struct {
	limits Limits
}

// New creates an inventory manager with the given limits.
func New(limits Limits) *Manager {
	return &Manager{limits: limits}
}

// Validate checks whether a trade of tradeQty on tradeSide, filled at price,
// is admissible given the current position quantity and account equity.
//
// 1. new_qty = current_qty + dir·trade_qty, dir = +1 for BUY, -1 for SELL.
// 2. |new_qty| > max_abs_qty ⇒ ErrLimitExceeded.
// 3. notional_pct = (|new_qty|·price / equity)·100 > max_notional_pct ⇒ ErrLimitExceeded.
func (m *Manager) Validate(currentQty float64, side types.Side, tradeQty, price, equity float64) error {
	if tradeQty <= 0 {
		return fmt.Errorf("%w: trade quantity must be positive, got %v", types.ErrArgument, tradeQty)
	}
	if equity <= 0 {
		return fmt.Errorf("%w: equity must be positive, got %v", types.ErrArgument, equity)
	}
	if side != types.Buy && side != types.Sell {
		return fmt.Errorf("%w: unknown side %q", types.ErrArgument, side)
	}

	newQty := currentQty + side.Dir()*tradeQty
	absNewQty := absFloat(newQty)

	if absNewQty > m.limits.MaxAbsQty {
		return fmt.Errorf("%w: post-trade |qty| %.8f exceeds max_abs_qty %.8f",
			ErrLimitExceeded, absNewQty, m.limits.MaxAbsQty)
	}

	notionalPct := (absNewQty * price / equity) * 100
	if notionalPct > m.limits.MaxNotionalPct {
		return fmt.Errorf("%w: post-trade notional %.4f%% exceeds max_notional_pct %.4f%%",
			ErrLimitExceeded, notionalPct, m.limits.MaxNotionalPct)
	}

	return nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
