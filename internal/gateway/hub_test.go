package gateway

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(buffer int) *Client {
	return &Client{
		send: make(chan []byte, buffer),
		subs: make(map[string]bool),
	}
}

// envelope mirrors the wire format for assertions.
type envelope struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
	TS      time.Time       `json:"ts"`
	Seq     int64           `json:"seq"`
}

func recvEnvelope(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("envelope %q is not valid JSON: %v", raw, err)
		}
		return env
	default:
		t.Fatal("no envelope queued for client")
		return envelope{}
	}
}

func TestHub_BroadcastBuildsValidEnvelope(t *testing.T) {
	hub := NewHub()
	c := newTestClient(4)
	hub.AddClient(c)

	hub.Broadcast(ChannelWatchlist, map[string]string{"symbol": "NIFTY"})

	env := recvEnvelope(t, c)
	if env.Channel != ChannelWatchlist {
		t.Errorf("channel = %q, want %q", env.Channel, ChannelWatchlist)
	}
	if env.Seq != 1 {
		t.Errorf("seq = %d, want 1", env.Seq)
	}
	if env.TS.IsZero() {
		t.Error("ts is zero")
	}
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("data not valid JSON: %v", err)
	}
	if data["symbol"] != "NIFTY" {
		t.Errorf("data.symbol = %q, want NIFTY", data["symbol"])
	}
}

func TestHub_SeqIsMonotonicPerChannel(t *testing.T) {
	hub := NewHub()
	c := newTestClient(16)
	hub.AddClient(c)

	hub.Broadcast(ChannelWatchlist, 1)
	hub.Broadcast(ChannelWatchlist, 2)
	hub.Broadcast(ChannelPositions, 1)

	first := recvEnvelope(t, c)
	second := recvEnvelope(t, c)
	third := recvEnvelope(t, c)

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("watchlist seqs = %d,%d, want 1,2", first.Seq, second.Seq)
	}
	if third.Channel != ChannelPositions || third.Seq != 1 {
		t.Errorf("positions envelope = %+v, want seq 1 on its own counter", third)
	}
}

func TestHub_SubscriptionFiltersChannels(t *testing.T) {
	hub := NewHub()
	c := newTestClient(4)
	c.subs[ChannelPositions] = true
	hub.AddClient(c)

	hub.Broadcast(ChannelWatchlist, "w")
	hub.Broadcast(ChannelPositions, "p")

	env := recvEnvelope(t, c)
	if env.Channel != ChannelPositions {
		t.Errorf("received %q, want only %q", env.Channel, ChannelPositions)
	}
	select {
	case extra := <-c.send:
		t.Errorf("unexpected extra envelope: %s", extra)
	default:
	}
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	drops := 0
	hub.OnDrop = func(channel string) { drops++ }

	c := newTestClient(1)
	hub.AddClient(c)

	hub.Broadcast(ChannelWatchlist, 1) // fills the buffer
	hub.Broadcast(ChannelWatchlist, 2) // must drop, not block

	if drops != 1 {
		t.Errorf("drops = %d, want 1", drops)
	}
}

func TestHub_LateJoinerGetsLatestEnvelope(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(ChannelWatchlist, "tick-1")
	hub.Broadcast(ChannelWatchlist, "tick-2")

	late := newTestClient(4)
	hub.AddClient(late)

	env := recvEnvelope(t, late)
	var data string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("data not valid JSON: %v", err)
	}
	if data != "tick-2" || env.Seq != 2 {
		t.Errorf("late joiner got %q seq %d, want tick-2 seq 2", data, env.Seq)
	}
}

func TestHub_ReplaySince(t *testing.T) {
	hub := NewHub()
	for i := 1; i <= 5; i++ {
		hub.Broadcast(ChannelWatchlist, i)
	}

	envs := hub.replaySince(ChannelWatchlist, 3)
	if len(envs) != 2 {
		t.Fatalf("replaySince(3) returned %d envelopes, want 2", len(envs))
	}
	var env envelope
	if err := json.Unmarshal(envs[0], &env); err != nil {
		t.Fatalf("replayed envelope invalid: %v", err)
	}
	if env.Seq != 4 {
		t.Errorf("first replayed seq = %d, want 4", env.Seq)
	}

	if got := hub.replaySince(ChannelPositions, 0); got != nil {
		t.Errorf("replay on quiet channel returned %d envelopes, want none", len(got))
	}
}

func TestHub_ClientCountTracksAddRemove(t *testing.T) {
	hub := NewHub()
	var counts []int
	hub.OnClientCount = func(n int) { counts = append(counts, n) }

	a := newTestClient(1)
	b := newTestClient(1)
	hub.AddClient(a)
	hub.AddClient(b)
	hub.RemoveClient(a)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", hub.ClientCount())
	}
	want := []int{1, 2, 1}
	if len(counts) != len(want) {
		t.Fatalf("OnClientCount calls = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("OnClientCount calls = %v, want %v", counts, want)
		}
	}
}
