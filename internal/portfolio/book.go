// Package portfolio tracks open paper-trading positions and keeps their
// valuation current through the mark-to-market engine.
package portfolio

import (
	"sync"

	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
)

// Book holds the ordered sequence of open positions (insertion order).
// It is mutated only by the order translator (Append) and the mark-to-market
// engine (Transform); readers always receive copies.
type Book struct {
	mu        sync.RWMutex
	positions []model.Position
}

// NewBook creates an empty position book.
func NewBook() *Book {
	return &Book{positions: make([]model.Position, 0, 16)}
}

// Append adds a position to the end of the book.
func (b *Book) Append(p model.Position) {
	b.mu.Lock()
	b.positions = append(b.positions, p)
	b.mu.Unlock()
}

// Positions returns an independent copy of the current sequence.
func (b *Book) Positions() []model.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cp := make([]model.Position, len(b.positions))
	copy(cp, b.positions)
	return cp
}

// Len returns the number of open positions.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions)
}

// Transform applies fn to every position as one atomic batch. A concurrent
// reader sees either the pre-batch or post-batch book, never a mix.
func (b *Book) Transform(fn func(p *model.Position)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.positions {
		fn(&b.positions[i])
	}
}

// TotalPnL returns the sum of unrealized P&L over all positions.
// Computed on every read, never cached.
func (b *Book) TotalPnL() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := decimal.Zero
	for i := range b.positions {
		total = total.Add(b.positions[i].PnL)
	}
	return total
}
