package strategy

import (
	"testing"

	"hftbot/internal/config"
)

func TestNew_DispatchesByName(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StrategyConfig
	}{
		{"mmv1", config.StrategyConfig{Name: "mmv1"}},
		{"mmv2", config.StrategyConfig{Name: "mmv2"}},
		{"mrv1", config.StrategyConfig{Name: "mrv1"}},
		{"micro_momentum", config.StrategyConfig{Name: "micro_momentum"}},
		{"imbalance", config.StrategyConfig{Name: "imbalance"}},
		{"simple_maker_taker", config.StrategyConfig{Name: "simple_maker_taker"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			strat, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strat.Name() != tc.name {
				t.Errorf("Name() = %q, want %q", strat.Name(), tc.name)
			}
		})
	}
}

func TestNew_UnknownStrategyErrors(t *testing.T) {
	if _, err := New(config.StrategyConfig{Name: "nonexistent"}); err == nil {
		t.Fatal("expected an error for an unknown strategy name")
	}
}
