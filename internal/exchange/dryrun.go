package exchange

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"hftbot/pkg/types"
)

// DryRun is the Execution Client contract's paper-trading implementation.
// The engine runs the same checks/accounting around it as around a live
// client, but DryRun never contacts a venue: SendOrder synthesizes a
// DRY_RUN response with a generated order ID, and GetAccountEquity
// returns a configured constant (spec.md §6).
//
// Grounded on the teacher's dry-run short-circuiting in
// internal/exchange/client.go (PostOrders/CancelOrders/CancelAll all
// check c.dryRun before any network call); generalized here into its own
// Client implementation rather than a flag threaded through a REST client,
// since spec.md's dry-run mode never exercises HTTP at all.
type DryRun struct {
	mu     sync.Mutex
	equity float64
	logger *slog.Logger
}

// NewDryRun creates a dry-run execution client reporting a fixed equity.
func NewDryRun(equity float64, logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{equity: equity, logger: logger.With("component", "exchange_dryrun")}
}

// SendOrder returns a synthetic DRY_RUN response without network I/O.
func (d *DryRun) SendOrder(symbol string, signal types.Signal) (map[string]any, error) {
	orderID := uuid.NewString()
	d.logger.Info("DRY-RUN order", "order_id", orderID, "symbol", symbol, "side", signal.Side, "size", signal.Size)
	return map[string]any{
		"status":   "DRY_RUN",
		"order_id": orderID,
		"symbol":   symbol,
		"side":     signal.Side,
		"type":     signal.OrderType,
		"size":     signal.Size,
		"price":    signal.Price,
	}, nil
}

// GetAccountEquity returns the configured constant equity.
func (d *DryRun) GetAccountEquity() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.equity, nil
}

// SetEquity updates the equity DryRun reports, for tests or a paper-mode
// driver that wants to simulate equity drift alongside realized PnL.
func (d *DryRun) SetEquity(equity float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.equity = equity
}
