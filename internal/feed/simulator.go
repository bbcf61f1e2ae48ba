package feed

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
)

// Price walk spans per tick: the feed nudges each instrument field by up to
// ±0.05% of its current value.
const feedWalkSpan = 0.001

// SimulatorConfig holds tunables for the price feed simulator.
type SimulatorConfig struct {
	// Interval between ticks. Defaults to 1500ms if zero.
	Interval time.Duration

	// Seed for the random walk. Zero means seed from wall clock.
	Seed int64
}

func (c *SimulatorConfig) defaults() {
	if c.Interval == 0 {
		c.Interval = 1500 * time.Millisecond
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// Simulator is the owned background task that evolves the instrument book.
// Each tick perturbs every instrument's three price fields independently,
// re-derives the futures spread, and publishes the post-tick snapshot to the
// fan-out bus.
type Simulator struct {
	book *Book
	bus  *FanOut
	cfg  SimulatorConfig
	rng  *rand.Rand

	// OnTick is called after each completed batch with the instrument count.
	OnTick func(n int)
}

// NewSimulator creates a Simulator over the given book and bus.
func NewSimulator(book *Book, bus *FanOut, cfg SimulatorConfig) *Simulator {
	cfg.defaults()
	return &Simulator{
		book: book,
		bus:  bus,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run ticks the book until ctx is cancelled. The ticker is stopped on return
// so no timer leaks past shutdown.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	log.Printf("[feed] simulator started: %d instruments, interval=%s", s.book.Len(), s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[feed] simulator stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick applies one whole-book batch update and publishes the new snapshot.
// Exported for deterministic driving in tests.
func (s *Simulator) Tick() {
	s.book.update(func(inst *model.Instrument) {
		inst.SpotPrice = walk(s.rng, inst.SpotPrice, feedWalkSpan)
		inst.NearMonthFuture = walk(s.rng, inst.NearMonthFuture, feedWalkSpan)
		inst.NextMonthFuture = walk(s.rng, inst.NextMonthFuture, feedWalkSpan)
		inst.RecomputeSpread()
	})

	snap := s.book.Snapshot()
	if s.bus != nil {
		s.bus.Publish(snap)
	}
	if s.OnTick != nil {
		s.OnTick(len(snap))
	}
}

// walk perturbs v by a uniform delta in ±(span/2)·v, rounds to 2dp, and
// floors at zero. Prices never go negative.
func walk(rng *rand.Rand, v decimal.Decimal, span float64) decimal.Decimal {
	f, _ := v.Float64()
	delta := (rng.Float64() - 0.5) * f * span
	next := v.Add(decimal.NewFromFloat(delta)).Round(2)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}
