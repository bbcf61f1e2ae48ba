// Package feed owns the synthetic market data side of the system: the
// instrument book, the price feed simulator that walks it, the fan-out bus
// that publishes whole-book snapshots, and the latency-simulating reader.
package feed

import (
	"fmt"
	"strings"
	"sync"

	"fno-papertrade/internal/model"
)

// Book holds the current quote for every tradable instrument.
// Mutation happens only through the Simulator; all readers receive copies.
// Updates are applied as a whole-book batch under one lock acquisition, so a
// reader sees either the pre-tick or the post-tick book, never a mix.
type Book struct {
	mu          sync.RWMutex
	instruments []model.Instrument
	bySymbol    map[string]int // symbol → slice index
}

// NewBook builds a Book from a seed list. Symbols are normalised to
// uppercase; duplicate symbols and non-positive lot sizes are rejected.
func NewBook(seed []model.Instrument) (*Book, error) {
	b := &Book{
		instruments: make([]model.Instrument, 0, len(seed)),
		bySymbol:    make(map[string]int, len(seed)),
	}
	for _, inst := range seed {
		inst.Symbol = strings.ToUpper(strings.TrimSpace(inst.Symbol))
		if inst.Symbol == "" {
			return nil, fmt.Errorf("feed: instrument %q has empty symbol", inst.ID)
		}
		if inst.LotSize <= 0 {
			return nil, fmt.Errorf("feed: instrument %s has non-positive lot size %d", inst.Symbol, inst.LotSize)
		}
		if _, dup := b.bySymbol[inst.Symbol]; dup {
			return nil, fmt.Errorf("feed: duplicate symbol %s", inst.Symbol)
		}
		inst.RecomputeSpread()
		b.bySymbol[inst.Symbol] = len(b.instruments)
		b.instruments = append(b.instruments, inst)
	}
	return b, nil
}

// Snapshot returns an independent copy of the whole book in seed order.
// Mutating the result never affects the live book.
func (b *Book) Snapshot() []model.Instrument {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cp := make([]model.Instrument, len(b.instruments))
	copy(cp, b.instruments)
	return cp
}

// Lookup returns the current quote for a symbol (case-insensitive).
func (b *Book) Lookup(symbol string) (model.Instrument, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx, ok := b.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return model.Instrument{}, false
	}
	return b.instruments[idx], true
}

// Len returns the number of instruments in the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.instruments)
}

// update applies fn to every instrument as one atomic batch.
func (b *Book) update(fn func(inst *model.Instrument)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.instruments {
		fn(&b.instruments[i])
	}
}
