package feed

import (
	"testing"

	"fno-papertrade/internal/model"
)

func TestNewBook_RejectsBadSeeds(t *testing.T) {
	cases := []struct {
		name string
		seed []model.Instrument
	}{
		{
			"duplicate symbol",
			[]model.Instrument{
				{ID: "a", Symbol: "NIFTY", LotSize: 50},
				{ID: "b", Symbol: "nifty", LotSize: 50},
			},
		},
		{
			"empty symbol",
			[]model.Instrument{{ID: "a", Symbol: "  ", LotSize: 50}},
		},
		{
			"zero lot size",
			[]model.Instrument{{ID: "a", Symbol: "NIFTY", LotSize: 0}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBook(tc.seed); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestBook_SnapshotIsIndependent(t *testing.T) {
	book, err := NewBook(DefaultInstruments())
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}

	snap := book.Snapshot()
	original := snap[0].SpotPrice
	snap[0].SpotPrice = dec("1.00")
	snap[0].Symbol = "MUTATED"

	live, ok := book.Lookup("NIFTY")
	if !ok {
		t.Fatal("NIFTY missing after snapshot mutation")
	}
	if !live.SpotPrice.Equal(original) {
		t.Errorf("live book changed: got %s, want %s", live.SpotPrice, original)
	}
}

func TestBook_LookupIsCaseInsensitive(t *testing.T) {
	book, err := NewBook(DefaultInstruments())
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}

	for _, sym := range []string{"NIFTY", "nifty", " Nifty "} {
		if _, ok := book.Lookup(sym); !ok {
			t.Errorf("Lookup(%q) failed", sym)
		}
	}
	if _, ok := book.Lookup("NOSUCH"); ok {
		t.Error("Lookup(NOSUCH) unexpectedly succeeded")
	}
}

func TestBook_SeedSpreadIsDerived(t *testing.T) {
	book, err := NewBook(DefaultInstruments())
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	for _, inst := range book.Snapshot() {
		want := inst.NextMonthFuture.Sub(inst.NearMonthFuture).Round(2)
		if !inst.FuturePriceDifference.Equal(want) {
			t.Errorf("%s: spread %s, want %s", inst.Symbol, inst.FuturePriceDifference, want)
		}
	}
}
