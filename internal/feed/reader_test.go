package feed

import (
	"context"
	"testing"
	"time"
)

func TestReader_FetchReturnsIndependentCopy(t *testing.T) {
	book := newTestBook(t)
	reader := NewReader(book, ReaderConfig{
		MinLatency: time.Millisecond,
		MaxLatency: 2 * time.Millisecond,
		Seed:       1,
	})

	snap, err := reader.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap) != book.Len() {
		t.Fatalf("got %d instruments, want %d", len(snap), book.Len())
	}

	symbol := snap[0].Symbol
	original := snap[0].SpotPrice
	snap[0].SpotPrice = dec("0.01")

	live, ok := book.Lookup(symbol)
	if !ok {
		t.Fatalf("Lookup(%q) failed", symbol)
	}
	if !live.SpotPrice.Equal(original) {
		t.Error("mutating fetched snapshot affected the live book")
	}
}

func TestReader_FetchTakesAtLeastMinLatency(t *testing.T) {
	book := newTestBook(t)
	reader := NewReader(book, ReaderConfig{
		MinLatency: 30 * time.Millisecond,
		MaxLatency: 60 * time.Millisecond,
		Seed:       1,
	})

	start := time.Now()
	if _, err := reader.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("fetch returned after %s, want >= 30ms", elapsed)
	}
}

func TestReader_FetchHonoursCancellation(t *testing.T) {
	book := newTestBook(t)
	reader := NewReader(book, ReaderConfig{
		MinLatency: time.Second,
		MaxLatency: time.Second,
		Seed:       1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reader.Fetch(ctx); err == nil {
		t.Fatal("expected error from cancelled fetch")
	}
}
