package portfolio

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
)

// Each mark-to-market tick moves a position's LTP by up to ±0.25% of its
// current value. This walk is intentionally independent of the instrument
// feed: position valuation follows its own random walk, matching the
// original simulation behavior.
const mtmWalkSpan = 0.005

// EngineConfig holds tunables for the mark-to-market engine.
type EngineConfig struct {
	// Interval between revaluation batches. Defaults to 1500ms if zero.
	Interval time.Duration

	// Seed for the LTP walk. Zero means seed from wall clock.
	Seed int64
}

func (c *EngineConfig) defaults() {
	if c.Interval == 0 {
		c.Interval = 1500 * time.Millisecond
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
}

// Engine is the owned background task that revalues the position book.
// It runs on its own ticker, decoupled from the price feed simulator.
type Engine struct {
	book *Book
	cfg  EngineConfig
	rng  *rand.Rand

	// OnBatch is called after each completed batch with the post-tick
	// position snapshot. Used to push live portfolio updates to consumers.
	OnBatch func(positions []model.Position)
}

// NewEngine creates a mark-to-market engine over the given book.
func NewEngine(book *Book, cfg EngineConfig) *Engine {
	cfg.defaults()
	return &Engine{
		book: book,
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run revalues the book until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	log.Printf("[mtm] engine started: interval=%s", e.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[mtm] engine stopped")
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick applies one revaluation batch: perturb each position's LTP, round to
// 2dp, and re-derive its P&L. Exported for deterministic driving in tests.
func (e *Engine) Tick() {
	e.book.Transform(func(p *model.Position) {
		f, _ := p.LTP.Float64()
		delta := (e.rng.Float64() - 0.5) * f * mtmWalkSpan
		p.LTP = p.LTP.Add(decimal.NewFromFloat(delta)).Round(2)
		p.RecomputePnL()
	})

	if e.OnBatch != nil {
		e.OnBatch(e.book.Positions())
	}
}
