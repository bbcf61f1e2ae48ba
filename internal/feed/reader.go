package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fno-papertrade/internal/model"
)

// Reader is the pull interface over the instrument book. It reproduces
// real-feed call semantics: a fetch takes a non-zero, variable amount of time
// and returns an independent snapshot.
//
// The error return exists so a caller written against Reader also works
// against a real transport that can fail; the simulated form only fails when
// the caller's context is cancelled mid-fetch. Callers should keep showing
// their last-good snapshot on error and retry on the next poll.
type Reader struct {
	book *Book

	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// ReaderConfig holds tunables for the Reader.
type ReaderConfig struct {
	// Simulated fetch latency bounds. Default 100–300ms.
	MinLatency time.Duration
	MaxLatency time.Duration

	// Seed for the latency jitter. Zero means seed from wall clock.
	Seed int64
}

// NewReader creates a Reader over the given book.
func NewReader(book *Book, cfg ReaderConfig) *Reader {
	if cfg.MinLatency == 0 && cfg.MaxLatency == 0 {
		cfg.MinLatency = 100 * time.Millisecond
		cfg.MaxLatency = 300 * time.Millisecond
	}
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Reader{
		book:       book,
		minLatency: cfg.MinLatency,
		maxLatency: cfg.MaxLatency,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Fetch returns a deep copy of the current book after a simulated network
// round trip. Returns ctx.Err() if the context is cancelled while waiting.
func (r *Reader) Fetch(ctx context.Context) ([]model.Instrument, error) {
	r.mu.Lock()
	jitter := r.rng.Float64()
	r.mu.Unlock()

	latency := r.minLatency + time.Duration(jitter*float64(r.maxLatency-r.minLatency))
	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}
	return r.book.Snapshot(), nil
}
