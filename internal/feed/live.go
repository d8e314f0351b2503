package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hftbot/pkg/types"
)

const (
	pingInterval     = 50 * time.Second
	readTimeout      = 90 * time.Second
	minReconnectWait = time.Second
	maxReconnectWait = 60 * time.Second
	writeTimeout     = 10 * time.Second
)

// wireTick is the JSON shape expected from a venue's WebSocket tick
// stream. Field presence mirrors types.Tick; venue-specific framing
// beyond this shape is out of core (spec.md §1).
type wireTick struct {
	Symbol    string             `json:"symbol"`
	Last      float64            `json:"last"`
	Timestamp float64            `json:"timestamp"`
	Bid       float64            `json:"bid"`
	Ask       float64            `json:"ask"`
	BidSize   float64            `json:"bid_size"`
	AskSize   float64            `json:"ask_size"`
	Bids      []types.PriceLevel `json:"bids"`
	Asks      []types.PriceLevel `json:"asks"`
}

// LiveFeed streams ticks from a venue WebSocket endpoint, reconnecting
// with exponential backoff on transport errors.
//
// Grounded on the teacher's internal/exchange/ws.go WSFeed: same
// ping/read-deadline/backoff discipline and non-blocking buffered-channel
// delivery, collapsed from two channels (market/user) to the single tick
// stream spec.md's Feed contract requires, and routed through a
// TickQueue so overflow drops the oldest tick instead of the newest.
type LiveFeed struct {
	url    string
	symbol string

	connMu sync.Mutex
	conn   *websocket.Conn

	queue *TickQueue
	out   chan types.Tick

	lastMu   sync.Mutex
	lastBids []types.PriceLevel
	lastAsks []types.PriceLevel

	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewLiveFeed creates a live WebSocket feed for symbol at url.
func NewLiveFeed(url, symbol string, logger *slog.Logger) *LiveFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveFeed{
		url:    url,
		symbol: symbol,
		queue:  NewTickQueue(DefaultQueueCapacity),
		out:    make(chan types.Tick, 1),
		logger: logger.With("component", "live_feed", "symbol", symbol),
	}
}

func (f *LiveFeed) Connect() error {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})

	go f.drainLoop(ctx)
	go func() {
		defer close(f.done)
		f.runWithReconnect(ctx)
	}()
	return nil
}

func (f *LiveFeed) Disconnect() error {
	if f.cancel != nil {
		f.cancel()
		<-f.done
	}
	return nil
}

func (f *LiveFeed) Ticks() <-chan types.Tick {
	return f.out
}

// drainLoop forwards ticks from the evict-oldest queue to the output
// channel, so a slow consumer still sees the freshest available tick.
// It closes the output channel when ctx is cancelled (on Disconnect).
func (f *LiveFeed) drainLoop(ctx context.Context) {
	defer close(f.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-f.queue.Notify():
		case <-time.After(100 * time.Millisecond):
		}
		for {
			tick, ok := f.queue.Pop()
			if !ok {
				break
			}
			select {
			case f.out <- tick:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (f *LiveFeed) runWithReconnect(ctx context.Context) {
	backoff := minReconnectWait

	for {
		err := f.connectAndRead(ctx)
		if ctx.Err() != nil {
			return
		}

		f.logger.Warn("feed disconnected, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxReconnectWait {
			backoff = maxReconnectWait
		}
	}
}

func (f *LiveFeed) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()

	defer func() {
		f.connMu.Lock()
		conn.Close()
		f.conn = nil
		f.connMu.Unlock()
	}()

	f.logger.Info("feed connected")

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go f.pingLoop(pingCtx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		f.dispatch(msg)
	}
}

func (f *LiveFeed) dispatch(data []byte) {
	var wt wireTick
	if err := json.Unmarshal(data, &wt); err != nil {
		f.logger.Debug("ignoring unparseable message", "error", err)
		return
	}
	if wt.Symbol == "" {
		wt.Symbol = f.symbol
	}

	tick := types.Tick{
		Symbol:    wt.Symbol,
		Last:      wt.Last,
		Timestamp: wt.Timestamp,
		Bid:       wt.Bid,
		Ask:       wt.Ask,
		BidSize:   wt.BidSize,
		AskSize:   wt.AskSize,
		Bids:      wt.Bids,
		Asks:      wt.Asks,
	}
	// Partial book updates fall back to the last-observed side when one
	// side arrives empty (spec.md §5).
	f.lastMu.Lock()
	if len(tick.Bids) == 0 {
		tick.Bids = f.lastBids
	} else {
		f.lastBids = tick.Bids
	}
	if len(tick.Asks) == 0 {
		tick.Asks = f.lastAsks
	} else {
		f.lastAsks = tick.Asks
	}
	f.lastMu.Unlock()

	f.queue.Push(tick)
}

func (f *LiveFeed) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.writeMessage(websocket.PingMessage, nil); err != nil {
				f.logger.Warn("ping failed", "error", err)
				return
			}
		}
	}
}

func (f *LiveFeed) writeMessage(msgType int, data []byte) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("websocket not connected")
	}
	f.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return f.conn.WriteMessage(msgType, data)
}
