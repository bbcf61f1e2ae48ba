package model

import "github.com/shopspring/decimal"

// Instrument represents a single F&O watchlist entry: an underlying with its
// two nearest-expiry futures contracts.
// Prices are decimal with 2dp precision so derived fields compare exactly.
type Instrument struct {
	ID                    string          `json:"id"`
	Symbol                string          `json:"symbol"` // uppercase, unique (e.g. "NIFTY")
	SpotPrice             decimal.Decimal `json:"spot_price"`
	NearMonthFuture       decimal.Decimal `json:"near_month_future"`
	NextMonthFuture       decimal.Decimal `json:"next_month_future"`
	FuturePriceDifference decimal.Decimal `json:"future_price_difference"` // next − near, derived
	LotSize               int64           `json:"lot_size"`                // fixed per instrument
}

// RecomputeSpread re-derives FuturePriceDifference from the two futures
// prices, rounded to 2dp. Must be called after any futures price mutation.
func (i *Instrument) RecomputeSpread() {
	i.FuturePriceDifference = i.NextMonthFuture.Sub(i.NearMonthFuture).Round(2)
}
