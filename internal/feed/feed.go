// Package feed supplies the engine driver with a uniform tick stream from
// multiple sources: a deterministic simulated order book for backtests
// and development, and a live WebSocket feed for production.
//
// Grounded on the teacher's internal/exchange/ws.go (connection lifecycle,
// reconnect/backoff, bounded buffered channels with drop-on-full) and
// internal/market/book.go (order-book/mid-price bookkeeping), generalized
// from Polymarket's two-channel (market/user) WS protocol to the single
// uniform Feed contract spec.md §6 requires.
package feed

import "hftbot/pkg/types"

// Feed is the uniform market-data contract the engine driver consumes.
// Only Ticks() is used by the engine itself; Connect/Disconnect manage
// the feed's own lifecycle and are called by the driver.
type Feed interface {
	// Connect establishes the feed's upstream connection, if any.
	Connect() error

	// Disconnect tears down the feed's upstream connection.
	Disconnect() error

	// Ticks returns a channel the driver reads from. The channel is
	// closed when the feed is permanently done (Disconnect called, or
	// a simulated feed's run ends).
	Ticks() <-chan types.Tick
}
