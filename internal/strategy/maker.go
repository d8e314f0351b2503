package strategy

import "hftbot/pkg/types"

// MMv1Config configures the fixed-spread baseline maker.
type MMv1Config struct {
	TickInterval int
	SpreadPct    float64 // e.g. 0.1 for 0.1%
	MinSpread    float64 // absolute price units
}

// MMv1 is a naive baseline market maker: symmetric fixed spread around
// mid, no volatility adaptation, no inventory skew. Supplemented from
// the teacher's pre-Avellaneda-Stoikov Maker (internal/strategy/maker.go)
// reduced to its simplest form, as the naive baseline MMv2 improves on.
type MMv1 struct {
	cfg       MMv1Config
	tickCount int
}

// NewMMv1 creates a fixed-spread market maker.
func NewMMv1(cfg MMv1Config) *MMv1 {
	return &MMv1{cfg: cfg}
}

func (s *MMv1) Name() string { return "mmv1" }

func (s *MMv1) OnFill(side types.Side, size, price float64) {}

func (s *MMv1) OnTick(tick types.Tick) ([]types.Signal, error) {
	s.tickCount++
	if s.cfg.TickInterval > 0 && s.tickCount%s.cfg.TickInterval != 0 {
		return nil, nil
	}

	mid, ok := tick.Mid()
	if !ok {
		return nil, nil
	}

	halfSpread := halfSpreadOf(s.cfg.SpreadPct, s.cfg.MinSpread, mid) / 2

	return []types.Signal{
		{Side: types.Buy, Size: 1, OrderType: types.Limit, Price: mid - mid*halfSpread, Tag: "mmv1"},
		{Side: types.Sell, Size: 1, OrderType: types.Limit, Price: mid + mid*halfSpread, Tag: "mmv1"},
	}, nil
}

// MMv2Config configures the volatility-adaptive maker.
type MMv2Config struct {
	TickInterval int
	VolWindow    int
	SpreadPct    float64
	MinSpread    float64
	MaxSpread    float64
	VolFactor    float64
}

// MMv2 is the volatility-adaptive market maker (spec.md §4.6). Grounded
// on the teacher's computeQuotes (internal/strategy/maker.go): same
// clamp-to-[min,max] spread discipline and symmetric-around-reservation
// quoting, simplified to spec.md's required inputs (no inventory skew
// term — the engine's inventory gate already bounds exposure).
type MMv2 struct {
	cfg       MMv2Config
	mids      *window
	tickCount int
}

// NewMMv2 creates a volatility-adaptive market maker.
func NewMMv2(cfg MMv2Config) *MMv2 {
	return &MMv2{cfg: cfg, mids: newWindow(cfg.VolWindow)}
}

func (s *MMv2) Name() string { return "mmv2" }

func (s *MMv2) OnFill(side types.Side, size, price float64) {}

func (s *MMv2) OnTick(tick types.Tick) ([]types.Signal, error) {
	mid, ok := tick.Mid()
	if !ok {
		return nil, nil
	}
	s.mids.Push(mid)

	s.tickCount++
	if s.cfg.TickInterval > 0 && s.tickCount%s.cfg.TickInterval != 0 {
		return nil, nil
	}

	sigma := s.mids.StdDev()
	base := s.cfg.MinSpread
	if s.cfg.SpreadPct > 0 {
		base = s.cfg.SpreadPct / 100 * mid
	}
	desired := clampFloat(base+s.cfg.VolFactor*sigma, s.cfg.MinSpread, s.cfg.MaxSpread)

	return []types.Signal{
		{Side: types.Buy, Size: 1, OrderType: types.Limit, Price: mid - desired/2, Tag: "mmv2"},
		{Side: types.Sell, Size: 1, OrderType: types.Limit, Price: mid + desired/2, Tag: "mmv2"},
	}, nil
}

// halfSpreadOf returns the full quoted spread as a fraction of mid for a
// MMv1-style fixed quote: spread_pct/100 if configured, falling back to
// min_spread (an absolute price distance) divided by mid otherwise. The
// caller halves it to get each side's distance from mid.
func halfSpreadOf(spreadPct, minSpread, mid float64) float64 {
	if spreadPct > 0 {
		return spreadPct / 100
	}
	if mid == 0 {
		return 0
	}
	return minSpread / mid
}
