// Package sortutil orders watchlist and position snapshots for display.
// Sorting is stable, pure, and non-mutating: the input slice is never
// reordered, and tied elements keep their original relative order so rows do
// not flicker between ticks.
package sortutil

import (
	"fmt"
	"sort"
	"strings"

	"fno-papertrade/internal/model"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Config is the presentation layer's current sort state.
type Config struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle returns the config after a click on key: the same key twice flips
// the direction, a new key resets to ascending.
func (c Config) Toggle(key string) Config {
	if c.Key == key {
		dir := Ascending
		if c.Direction == Ascending {
			dir = Descending
		}
		return Config{Key: key, Direction: dir}
	}
	return Config{Key: key, Direction: Ascending}
}

// instrumentCmp returns the ascending comparator for an instrument sort key.
func instrumentCmp(key string) (func(a, b model.Instrument) int, error) {
	switch key {
	case "symbol":
		return func(a, b model.Instrument) int { return strings.Compare(a.Symbol, b.Symbol) }, nil
	case "spot_price":
		return func(a, b model.Instrument) int { return a.SpotPrice.Cmp(b.SpotPrice) }, nil
	case "near_month_future":
		return func(a, b model.Instrument) int { return a.NearMonthFuture.Cmp(b.NearMonthFuture) }, nil
	case "next_month_future":
		return func(a, b model.Instrument) int { return a.NextMonthFuture.Cmp(b.NextMonthFuture) }, nil
	case "future_price_difference":
		return func(a, b model.Instrument) int { return a.FuturePriceDifference.Cmp(b.FuturePriceDifference) }, nil
	case "lot_size":
		return func(a, b model.Instrument) int { return cmpInt(a.LotSize, b.LotSize) }, nil
	default:
		return nil, fmt.Errorf("sortutil: unknown instrument sort key %q", key)
	}
}

// positionCmp returns the ascending comparator for a position sort key.
func positionCmp(key string) (func(a, b model.Position) int, error) {
	switch key {
	case "symbol":
		return func(a, b model.Position) int { return strings.Compare(a.Symbol, b.Symbol) }, nil
	case "quantity":
		return func(a, b model.Position) int { return cmpInt(a.Quantity, b.Quantity) }, nil
	case "avg_price":
		return func(a, b model.Position) int { return a.AvgPrice.Cmp(b.AvgPrice) }, nil
	case "ltp":
		return func(a, b model.Position) int { return a.LTP.Cmp(b.LTP) }, nil
	case "pnl":
		return func(a, b model.Position) int { return a.PnL.Cmp(b.PnL) }, nil
	default:
		return nil, fmt.Errorf("sortutil: unknown position sort key %q", key)
	}
}

// Instruments returns a stably sorted copy of items by the given key.
func Instruments(items []model.Instrument, key string, dir Direction) ([]model.Instrument, error) {
	cmp, err := instrumentCmp(key)
	if err != nil {
		return nil, err
	}
	return sortCopy(items, cmp, dir), nil
}

// Positions returns a stably sorted copy of items by the given key.
func Positions(items []model.Position, key string, dir Direction) ([]model.Position, error) {
	cmp, err := positionCmp(key)
	if err != nil {
		return nil, err
	}
	return sortCopy(items, cmp, dir), nil
}

func sortCopy[T any](items []T, cmp func(a, b T) int, dir Direction) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
