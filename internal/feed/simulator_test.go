package feed

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestBook(t *testing.T) *Book {
	t.Helper()
	book, err := NewBook(DefaultInstruments())
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	return book
}

func TestSimulator_InvariantsHoldAfterManyTicks(t *testing.T) {
	book := newTestBook(t)
	sim := NewSimulator(book, nil, SimulatorConfig{Seed: 42})

	seed := book.Snapshot()
	for i := 0; i < 500; i++ {
		sim.Tick()
	}

	snap := book.Snapshot()
	if len(snap) != len(seed) {
		t.Fatalf("instrument count changed: got %d, want %d", len(snap), len(seed))
	}

	for i, inst := range snap {
		if inst.SpotPrice.IsNegative() || inst.NearMonthFuture.IsNegative() || inst.NextMonthFuture.IsNegative() {
			t.Errorf("%s: negative price after ticks: spot=%s near=%s next=%s",
				inst.Symbol, inst.SpotPrice, inst.NearMonthFuture, inst.NextMonthFuture)
		}

		wantSpread := inst.NextMonthFuture.Sub(inst.NearMonthFuture).Round(2)
		if !inst.FuturePriceDifference.Equal(wantSpread) {
			t.Errorf("%s: spread %s, want %s", inst.Symbol, inst.FuturePriceDifference, wantSpread)
		}

		// Identity and lot size never move.
		if inst.ID != seed[i].ID || inst.Symbol != seed[i].Symbol || inst.LotSize != seed[i].LotSize {
			t.Errorf("identity mutated: got %+v, seed %+v", inst, seed[i])
		}

		// Prices stay at 2dp.
		if inst.SpotPrice.Exponent() < -2 {
			t.Errorf("%s: spot %s not rounded to 2dp", inst.Symbol, inst.SpotPrice)
		}
	}
}

func TestSimulator_TickMovesWithinBounds(t *testing.T) {
	book := newTestBook(t)
	sim := NewSimulator(book, nil, SimulatorConfig{Seed: 7})

	before := book.Snapshot()
	sim.Tick()
	after := book.Snapshot()

	for i := range after {
		// Max move per tick is half of feedWalkSpan plus rounding slack.
		maxDelta := before[i].SpotPrice.Mul(decimal.NewFromFloat(feedWalkSpan / 2)).Add(decimal.NewFromFloat(0.01))
		delta := after[i].SpotPrice.Sub(before[i].SpotPrice).Abs()
		if delta.Cmp(maxDelta) > 0 {
			t.Errorf("%s: spot moved %s, beyond %s", after[i].Symbol, delta, maxDelta)
		}
	}
}

func TestSimulator_PublishesPostTickSnapshot(t *testing.T) {
	book := newTestBook(t)
	bus := NewFanOut(4)
	sub := bus.Subscribe()

	sim := NewSimulator(book, bus, SimulatorConfig{Seed: 1})
	sim.Tick()

	select {
	case snap := <-sub:
		if len(snap) != book.Len() {
			t.Fatalf("published %d instruments, want %d", len(snap), book.Len())
		}
		live := book.Snapshot()
		for i := range snap {
			if !snap[i].SpotPrice.Equal(live[i].SpotPrice) {
				t.Errorf("%s: published spot %s != live %s", snap[i].Symbol, snap[i].SpotPrice, live[i].SpotPrice)
			}
		}
	default:
		t.Fatal("no snapshot published after tick")
	}
}

func TestWalk_ClampsAtZero(t *testing.T) {
	sim := NewSimulator(newTestBook(t), nil, SimulatorConfig{Seed: 3})
	v := dec("0.01")
	for i := 0; i < 1000; i++ {
		v = walk(sim.rng, v, feedWalkSpan)
		if v.IsNegative() {
			t.Fatalf("walk produced negative price %s", v)
		}
	}
}
