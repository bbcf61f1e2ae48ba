// Package orders converts submitted paper orders into position book
// mutations. It is the only writer of new position records.
package orders

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
	"fno-papertrade/internal/portfolio"
)

// ErrUnknownSymbol is returned when an order references a symbol absent from
// the instrument book.
var ErrUnknownSymbol = errors.New("orders: unknown symbol")

// ValidationError rejects an order before execution. Nothing is mutated when
// one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("orders: invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a pre-execution validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks an order against the instrument it targets.
// Quantity must be a positive multiple of the instrument's lot size, limit
// orders must carry a positive price, and market orders must not carry one.
func Validate(o model.OrderDetails, inst model.Instrument) error {
	switch o.TransactionType {
	case model.Buy, model.Sell:
	default:
		return &ValidationError{Field: "transaction_type", Reason: fmt.Sprintf("must be BUY or SELL, got %q", o.TransactionType)}
	}

	if o.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if o.Quantity%inst.LotSize != 0 {
		return &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("%d is not a multiple of %s lot size %d", o.Quantity, inst.Symbol, inst.LotSize),
		}
	}

	switch o.OrderType {
	case model.Limit:
		if !o.Price.IsPositive() {
			return &ValidationError{Field: "price", Reason: "limit orders require a positive price"}
		}
	case model.Market:
		if !o.Price.IsZero() {
			return &ValidationError{Field: "price", Reason: "market orders must not carry a price"}
		}
	default:
		return &ValidationError{Field: "order_type", Reason: fmt.Sprintf("must be MARKET or LIMIT, got %q", o.OrderType)}
	}
	return nil
}

// Translator turns validated orders into new position records.
type Translator struct {
	book *portfolio.Book

	// OnExecute is called after a position has been appended.
	OnExecute func(p model.Position)
}

// NewTranslator creates a Translator appending into the given position book.
func NewTranslator(book *portfolio.Book) *Translator {
	return &Translator{book: book}
}

// Execute validates the order, fills it against the instrument's current
// quote, and appends exactly one new Position to the position book.
//
// The execution price is the supplied limit price for LIMIT orders and the
// near-month future price for MARKET orders. At creation LTP equals the
// execution price, so P&L starts at exactly zero. Opposite-side orders are
// never netted against existing positions; each order creates a fresh record.
func (t *Translator) Execute(o model.OrderDetails, inst model.Instrument) (model.Position, error) {
	if err := Validate(o, inst); err != nil {
		return model.Position{}, err
	}

	price := inst.NearMonthFuture
	if o.OrderType == model.Limit {
		price = o.Price
	}

	qty := o.Quantity
	tag := "LONG"
	if o.TransactionType == model.Sell {
		qty = -qty
		tag = "SHORT"
	}

	pos := model.Position{
		ID:       "pos_" + uuid.NewString(),
		Symbol:   inst.Symbol + " " + tag,
		Quantity: qty,
		AvgPrice: price,
		LTP:      price,
		PnL:      decimal.Zero,
	}

	t.book.Append(pos)
	log.Printf("[orders] %s %d %s @ %s (%s) → %s",
		o.TransactionType, o.Quantity, inst.Symbol, price, o.OrderType, pos.ID)

	if t.OnExecute != nil {
		t.OnExecute(pos)
	}
	return pos, nil
}
