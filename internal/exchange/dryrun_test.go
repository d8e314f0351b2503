package exchange

import (
	"testing"

	"hftbot/pkg/types"
)

func TestDryRun_SendOrderSynthesizesResponse(t *testing.T) {
	d := NewDryRun(10_000, nil)

	resp, err := d.SendOrder("BTC-USD", types.Signal{Side: types.Buy, Size: 1, OrderType: types.Market, Tag: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp["status"] != "DRY_RUN" {
		t.Errorf("status = %v, want DRY_RUN", resp["status"])
	}
	if resp["symbol"] != "BTC-USD" {
		t.Errorf("symbol = %v, want BTC-USD", resp["symbol"])
	}
	if resp["order_id"] == "" {
		t.Errorf("expected a non-empty synthetic order id")
	}
}

func TestDryRun_GetAccountEquityReturnsConstant(t *testing.T) {
	d := NewDryRun(5_000, nil)

	equity, err := d.GetAccountEquity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if equity != 5_000 {
		t.Errorf("equity = %v, want 5000", equity)
	}

	d.SetEquity(6_000)
	equity, _ = d.GetAccountEquity()
	if equity != 6_000 {
		t.Errorf("equity after SetEquity = %v, want 6000", equity)
	}
}
