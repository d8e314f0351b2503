package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"hftbot/pkg/types"
)

// LiveConfig configures LiveClient's connection to a generic REST venue.
type LiveConfig struct {
	BaseURL string
	APIKey  string
	Secret  string
	Timeout time.Duration
}

// LiveClient is the live, network-connected Execution Client
// implementation (spec.md §6). Venue-specific request/response shapes,
// symbol casing, and tick/lot rounding are intentionally generic here —
// those specifics are encapsulated behind this contract, not part of it
// (spec.md §6, "Venue integration").
//
// Grounded on the teacher's internal/exchange/client.go: same resty
// client configuration (base URL, timeout, retry-on-5xx with backoff),
// the same rate-limiter-then-HTTP-call sequencing, and the same
// status-code/error-wrapping convention. Authentication uses the generic
// Signer (auth.go) instead of the teacher's EIP-712/L2-HMAC derivation
// flow, per spec.md §1/§6.
type LiveClient struct {
	http   *resty.Client
	signer *Signer
	rl     *RateLimiter
	logger *slog.Logger
}

// NewLiveClient creates a REST execution client with rate limiting and
// retry configured the way the teacher's client is.
func NewLiveClient(cfg LiveConfig, logger *slog.Logger) *LiveClient {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &LiveClient{
		http:   httpClient,
		signer: NewSigner(cfg.APIKey, cfg.Secret),
		rl:     NewRateLimiter(),
		logger: logger.With("component", "exchange_live"),
	}
}

// orderRequest is the generic wire shape posted to the venue's order
// endpoint. Exact venue fields are out of core scope (spec.md §1, §6);
// this is the minimal shape any REST venue needs from a Signal.
type orderRequest struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Type   string  `json:"type"`
	Size   float64 `json:"size"`
	Price  float64 `json:"price,omitempty"`
}

// SendOrder posts signal to the venue's /orders endpoint.
func (c *LiveClient) SendOrder(symbol string, signal types.Signal) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.rl.Order.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req := orderRequest{
		Symbol: symbol,
		Side:   string(signal.Side),
		Type:   string(signal.OrderType),
		Size:   signal.Size,
		Price:  signal.Price,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	headers := c.signer.Headers(http.MethodPost, "/orders", string(body))

	var result map[string]any
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		SetResult(&result).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("send order: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("send order: status %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Info("order sent", "symbol", symbol, "side", signal.Side, "size", signal.Size)
	return result, nil
}

// GetAccountEquity fetches the current account equity from the venue.
func (c *LiveClient) GetAccountEquity() (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.rl.Equity.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	headers := c.signer.Headers(http.MethodGet, "/account/equity", "")

	var result struct {
		Equity float64 `json:"equity"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetResult(&result).
		Get("/account/equity")
	if err != nil {
		return 0, fmt.Errorf("get account equity: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("get account equity: status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.Equity, nil
}
