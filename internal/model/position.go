package model

import "github.com/shopspring/decimal"

// Position represents a single open paper-trading holding.
// Each submitted order creates a fresh record; opposite-side orders are not
// netted against existing positions.
type Position struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`   // display symbol with direction tag, e.g. "NIFTY LONG"
	Quantity int64           `json:"quantity"` // signed: positive = net long, negative = net short
	AvgPrice decimal.Decimal `json:"avg_price"`
	LTP      decimal.Decimal `json:"ltp"` // last traded price, moved every mark-to-market tick
	PnL      decimal.Decimal `json:"pnl"` // (ltp − avgPrice) × quantity, always derived
}

// RecomputePnL re-derives PnL from (LTP, AvgPrice, Quantity). Must be called
// after any LTP mutation; PnL is never stored independent of this formula.
func (p *Position) RecomputePnL() {
	p.PnL = p.LTP.Sub(p.AvgPrice).Mul(decimal.NewFromInt(p.Quantity))
}
