package model

import "github.com/shopspring/decimal"

// TransactionType is the side of an order.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
)

// OrderType determines how the execution price is chosen.
type OrderType string

const (
	Market OrderType = "MARKET" // fill at the near-month future price
	Limit  OrderType = "LIMIT"  // fill at the supplied price
)

// OrderDetails is a submitted paper order. It is ephemeral — translated into
// a Position on execution and never stored.
//
// Price carries the limit price and is only meaningful for LIMIT orders;
// MARKET orders must leave it zero. The constructors below are the supported
// ways to build one.
type OrderDetails struct {
	Symbol          string          `json:"symbol"`
	TransactionType TransactionType `json:"transaction_type"`
	OrderType       OrderType       `json:"order_type"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price,omitempty"`
}

// MarketOrder builds a market order for the given symbol and side.
func MarketOrder(symbol string, side TransactionType, qty int64) OrderDetails {
	return OrderDetails{
		Symbol:          symbol,
		TransactionType: side,
		OrderType:       Market,
		Quantity:        qty,
	}
}

// LimitOrder builds a limit order at the given price.
func LimitOrder(symbol string, side TransactionType, qty int64, price decimal.Decimal) OrderDetails {
	return OrderDetails{
		Symbol:          symbol,
		TransactionType: side,
		OrderType:       Limit,
		Quantity:        qty,
		Price:           price,
	}
}
