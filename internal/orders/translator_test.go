package orders

import (
	"testing"

	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
	"fno-papertrade/internal/portfolio"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func nifty(t *testing.T) model.Instrument {
	t.Helper()
	inst := model.Instrument{
		ID:              "ins_nifty",
		Symbol:          "NIFTY",
		SpotPrice:       dec(t, "21980.50"),
		NearMonthFuture: dec(t, "22000"),
		NextMonthFuture: dec(t, "22085.40"),
		LotSize:         50,
	}
	inst.RecomputeSpread()
	return inst
}

func TestExecute_MarketBuyFillsAtNearMonthFuture(t *testing.T) {
	book := portfolio.NewBook()
	tr := NewTranslator(book)

	pos, err := tr.Execute(model.MarketOrder("NIFTY", model.Buy, 50), nifty(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if pos.Quantity != 50 {
		t.Errorf("quantity = %d, want +50", pos.Quantity)
	}
	if !pos.AvgPrice.Equal(dec(t, "22000")) {
		t.Errorf("avgPrice = %s, want 22000", pos.AvgPrice)
	}
	if !pos.LTP.Equal(pos.AvgPrice) {
		t.Errorf("ltp = %s, want == avgPrice %s", pos.LTP, pos.AvgPrice)
	}
	if !pos.PnL.IsZero() {
		t.Errorf("pnl at creation = %s, want 0", pos.PnL)
	}
	if pos.Symbol != "NIFTY LONG" {
		t.Errorf("symbol = %q, want \"NIFTY LONG\"", pos.Symbol)
	}
	if book.Len() != 1 {
		t.Errorf("book has %d positions, want 1", book.Len())
	}
}

func TestExecute_RejectsNonLotMultiple(t *testing.T) {
	book := portfolio.NewBook()
	tr := NewTranslator(book)

	_, err := tr.Execute(model.MarketOrder("NIFTY", model.Buy, 30), nifty(t))
	if err == nil {
		t.Fatal("expected validation error for qty 30 with lot size 50")
	}
	if !IsValidation(err) {
		t.Errorf("error %v is not a ValidationError", err)
	}
	if book.Len() != 0 {
		t.Errorf("book mutated on rejected order: %d positions", book.Len())
	}
}

func TestExecute_LimitSellHonoursLimitPrice(t *testing.T) {
	book := portfolio.NewBook()
	tr := NewTranslator(book)

	order := model.LimitOrder("NIFTY", model.Sell, 50, dec(t, "21500"))
	pos, err := tr.Execute(order, nifty(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !pos.AvgPrice.Equal(dec(t, "21500")) {
		t.Errorf("avgPrice = %s, want limit 21500 over market 22000", pos.AvgPrice)
	}
	if pos.Quantity != -50 {
		t.Errorf("quantity = %d, want -50", pos.Quantity)
	}
	if pos.Symbol != "NIFTY SHORT" {
		t.Errorf("symbol = %q, want \"NIFTY SHORT\"", pos.Symbol)
	}
}

func TestExecute_EachOrderCreatesFreshPosition(t *testing.T) {
	book := portfolio.NewBook()
	tr := NewTranslator(book)
	inst := nifty(t)

	if _, err := tr.Execute(model.MarketOrder("NIFTY", model.Buy, 50), inst); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := tr.Execute(model.MarketOrder("NIFTY", model.Sell, 50), inst); err != nil {
		t.Fatalf("sell: %v", err)
	}

	got := book.Positions()
	if len(got) != 2 {
		t.Fatalf("book has %d positions, want 2 (no netting)", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Error("positions share an ID")
	}
}

func TestValidate_Matrix(t *testing.T) {
	inst := nifty(t)

	cases := []struct {
		name    string
		order   model.OrderDetails
		wantErr bool
	}{
		{"valid market buy", model.MarketOrder("NIFTY", model.Buy, 100), false},
		{"valid limit sell", model.LimitOrder("NIFTY", model.Sell, 50, dec(t, "21900")), false},
		{"zero quantity", model.MarketOrder("NIFTY", model.Buy, 0), true},
		{"negative quantity", model.MarketOrder("NIFTY", model.Buy, -50), true},
		{"not lot multiple", model.MarketOrder("NIFTY", model.Buy, 75), true},
		{"limit without price", model.LimitOrder("NIFTY", model.Buy, 50, decimal.Zero), true},
		{"market with price", func() model.OrderDetails {
			o := model.MarketOrder("NIFTY", model.Buy, 50)
			o.Price = dec(t, "22000")
			return o
		}(), true},
		{"bad side", model.OrderDetails{Symbol: "NIFTY", TransactionType: "HOLD", OrderType: model.Market, Quantity: 50}, true},
		{"bad order type", model.OrderDetails{Symbol: "NIFTY", TransactionType: model.Buy, OrderType: "STOP", Quantity: 50}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.order, inst)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr && err != nil && !IsValidation(err) {
				t.Errorf("error %v is not a ValidationError", err)
			}
		})
	}
}
