package feed

import (
	"log"
	"sync"

	"fno-papertrade/internal/model"
)

// FanOut broadcasts whole-book snapshots to N subscriber channels.
// If a subscriber channel is full the snapshot is dropped for that consumer,
// so a slow consumer never blocks the simulator tick.
type FanOut struct {
	mu      sync.RWMutex
	outputs []chan []model.Instrument
	bufSize int
	closed  bool

	// OnDrop is called when a snapshot is dropped for a subscriber.
	// subscriberIdx is the 0-based index of the slow consumer.
	OnDrop func(subscriberIdx int)
}

// NewFanOut creates a FanOut with the given buffer size per subscriber channel.
func NewFanOut(outputBufferSize int) *FanOut {
	return &FanOut{bufSize: outputBufferSize}
}

// Subscribe creates and returns a new snapshot channel.
func (f *FanOut) Subscribe() <-chan []model.Instrument {
	ch := make(chan []model.Instrument, f.bufSize)
	f.mu.Lock()
	f.outputs = append(f.outputs, ch)
	f.mu.Unlock()
	return ch
}

// Publish delivers snap to every subscriber without blocking.
// Each subscriber receives the same slice; snapshots are already copies and
// consumers must treat them as read-only.
func (f *FanOut) Publish(snap []model.Instrument) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	for i, ch := range f.outputs {
		select {
		case ch <- snap:
		default:
			if f.OnDrop != nil {
				f.OnDrop(i)
			} else {
				log.Printf("[feed] subscriber %d full, dropping snapshot", i)
			}
		}
	}
}

// Close closes all subscriber channels. Publish after Close is a no-op.
func (f *FanOut) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for _, ch := range f.outputs {
		close(ch)
	}
}
