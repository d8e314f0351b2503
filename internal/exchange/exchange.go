// Package exchange implements the Execution Client contract: sending
// orders and reporting account equity, with a dry-run implementation for
// development and a live REST implementation for production.
//
// Grounded on the teacher's internal/exchange/client.go (resty-based REST
// client, rate limiting, retry-on-5xx, dry-run short-circuiting every
// mutating call). Venue-specific signing (the teacher's go-ethereum
// EIP-712 + derived L2 API key) is out of spec.md's core scope (§1, §6);
// LiveClient signs requests with a generic HMAC-SHA256 scheme instead, so
// the transport/retry/rate-limit texture survives without depending on a
// particular venue's wallet/derivation flow.
package exchange

import "hftbot/pkg/types"

// Client is the Execution Client contract the engine consumes
// (spec.md §6).
type Client interface {
	// SendOrder submits signal for symbol and returns a response map
	// describing the result (venue-specific shape, opaque to the engine).
	SendOrder(symbol string, signal types.Signal) (map[string]any, error)

	// GetAccountEquity returns the current account equity.
	GetAccountEquity() (float64, error)
}
