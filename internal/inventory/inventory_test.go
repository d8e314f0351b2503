package inventory

import (
	"errors"
	"testing"

	"hftbot/pkg/types"
)

func TestValidateArgumentErrors(t *testing.T) {
	m := New(Limits{MaxAbsQty: 1, MaxNotionalPct: 100})

	if err := m.Validate(0, types.Buy, 0, 100, 1000); !errors.Is(err, types.ErrArgument) {
		t.Errorf("zero trade qty: got %v, want ErrArgument", err)
	}
	if err := m.Validate(0, types.Buy, 0.01, 100, 0); !errors.Is(err, types.ErrArgument) {
		t.Errorf("zero equity: got %v, want ErrArgument", err)
	}
	if err := m.Validate(0, "HOLD", 0.01, 100, 1000); !errors.Is(err, types.ErrArgument) {
		t.Errorf("bad side: got %v, want ErrArgument", err)
	}
}

// Property 10.
func TestValidateAbsQtyExceeded(t *testing.T) {
	m := New(Limits{MaxAbsQty: 0.02, MaxNotionalPct: 10000})

	err := m.Validate(0.015, types.Buy, 0.01, 100, 1000)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

// Property 11.
func TestValidateNotionalPctExceeded(t *testing.T) {
	m := New(Limits{MaxAbsQty: 1000, MaxNotionalPct: 30})

	err := m.Validate(0, types.Buy, 0.01, 100000, 1000)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

// Property 12.
func TestValidateWithinLimits(t *testing.T) {
	m := New(Limits{MaxAbsQty: 1, MaxNotionalPct: 50})

	if err := m.Validate(0, types.Buy, 0.01, 100, 1000); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

func TestValidateSellReducesExposure(t *testing.T) {
	m := New(Limits{MaxAbsQty: 0.02, MaxNotionalPct: 10000})

	if err := m.Validate(0.015, types.Sell, 0.01, 100, 1000); err != nil {
		t.Fatalf("sell reducing exposure should be admitted, got %v", err)
	}
}

// Scenario E4 — inventory block.
func TestScenarioE4InventoryBlock(t *testing.T) {
	m := New(Limits{MaxAbsQty: 0.02, MaxNotionalPct: 10000})

	err := m.Validate(0.015, types.Buy, 0.01, 100, 1000)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}
