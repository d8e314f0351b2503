package strategy

import (
	"fmt"

	"hftbot/internal/config"
	"hftbot/pkg/types"
)

// New builds the Strategy named by cfg.Name using that strategy's
// parameter block (spec.md §6, group `strategy`). Grounded on the
// teacher's single hardwired strategy.NewMaker(cfg.Strategy, ...) call in
// engine.startMarketLocked, generalized to a name-dispatched factory
// since spec.md's engine is strategy-agnostic over six implementations.
func New(cfg config.StrategyConfig) (Strategy, error) {
	switch cfg.Name {
	case "mmv1":
		return NewMMv1(MMv1Config{
			TickInterval: cfg.MMv1.TickInterval,
			SpreadPct:    cfg.MMv1.SpreadPct,
			MinSpread:    cfg.MMv1.MinSpread,
		}), nil
	case "mmv2":
		return NewMMv2(MMv2Config{
			TickInterval: cfg.MMv2.TickInterval,
			VolWindow:    cfg.MMv2.VolWindow,
			SpreadPct:    cfg.MMv2.SpreadPct,
			MinSpread:    cfg.MMv2.MinSpread,
			MaxSpread:    cfg.MMv2.MaxSpread,
			VolFactor:    cfg.MMv2.VolFactor,
		}), nil
	case "mrv1":
		return NewMRv1(MRv1Config{
			LookbackTicks: cfg.MRv1.LookbackTicks,
			ZThreshold:    cfg.MRv1.ZThreshold,
			MaxZCap:       cfg.MRv1.MaxZCap,
			CooldownTicks: cfg.MRv1.CooldownTicks,
			SideBias:      types.SideBias(cfg.MRv1.SideBias),
			Size:          cfg.MRv1.Size,
		}), nil
	case "micro_momentum":
		return NewMicroMomentum(MicroMomentumConfig{
			LookbackTicks: cfg.Micro.LookbackTicks,
			MinMoves:      cfg.Micro.MinMoves,
			MinReturn:     cfg.Micro.MinReturn,
			CooldownTicks: cfg.Micro.CooldownTicks,
			SideBias:      types.SideBias(cfg.Micro.SideBias),
			Size:          cfg.Micro.Size,
		}), nil
	case "imbalance":
		return NewImbalance(ImbalanceConfig{
			MinTotalSize:  cfg.Imb.MinTotalSize,
			Threshold:     cfg.Imb.Threshold,
			CooldownTicks: cfg.Imb.CooldownTicks,
			SideBias:      types.SideBias(cfg.Imb.SideBias),
			Size:          cfg.Imb.Size,
		}), nil
	case "simple_maker_taker":
		return NewSimpleMakerTaker(SimpleMakerTakerConfig{
			TickInterval: cfg.SMT.TickInterval,
			MinSpread:    cfg.SMT.MinSpread,
		}), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Name)
	}
}
