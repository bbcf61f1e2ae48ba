// Package gateway streams live watchlist and position snapshots to WebSocket
// consumers. The hub fans out one envelope per simulator tick per channel;
// slow clients drop frames rather than block the tick path.
package gateway

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"
)

// Stream channel names.
const (
	ChannelWatchlist = "watchlist"
	ChannelPositions = "positions"
)

// replayCapacity is the number of recent envelopes kept per channel for
// late-joining or gap-detecting clients.
const replayCapacity = 200

type latestEntry struct {
	Data []byte // pre-built envelope JSON
	TS   time.Time
	Seq  int64
}

// Hub manages WebSocket clients and snapshot fan-out.
type Hub struct {
	mu          sync.RWMutex
	clients     map[*Client]bool
	latest      map[string]latestEntry
	channelSeqs map[string]int64
	replayBufs  map[string]*ReplayBuffer

	// OnClientCount is called whenever the client set changes.
	OnClientCount func(n int)

	// OnDrop is called when a frame is dropped for a slow client.
	OnDrop func(channel string)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		latest:      make(map[string]latestEntry),
		channelSeqs: make(map[string]int64),
		replayBufs:  make(map[string]*ReplayBuffer),
	}
}

// AddClient registers a client and sends it the latest envelope per channel
// so it starts from current state.
func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	initial := make([][]byte, 0, len(h.latest))
	for _, entry := range h.latest {
		initial = append(initial, entry.Data)
	}
	h.mu.Unlock()

	for _, env := range initial {
		select {
		case c.send <- env:
		default:
		}
	}
	if h.OnClientCount != nil {
		h.OnClientCount(n)
	}
}

// RemoveClient unregisters a client and closes its send channel.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	n := len(h.clients)
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		n = len(h.clients)
	}
	h.mu.Unlock()
	if h.OnClientCount != nil {
		h.OnClientCount(n)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast marshals payload and fans the envelope out to every client
// subscribed to channel. The envelope carries a per-channel monotonic seq so
// clients can detect gaps and request a replay.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[gateway] marshal failed for %s: %v", channel, err)
		return
	}

	now := time.Now().UTC()

	h.mu.Lock()
	h.channelSeqs[channel]++
	seq := h.channelSeqs[channel]
	env := buildEnvelope(channel, data, now, seq)
	h.latest[channel] = latestEntry{Data: env, TS: now, Seq: seq}
	rb, ok := h.replayBufs[channel]
	if !ok {
		rb = NewReplayBuffer(replayCapacity)
		h.replayBufs[channel] = rb
	}
	h.mu.Unlock()

	rb.Push(seq, env)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.subscribed(channel) {
			continue
		}
		select {
		case client.send <- env:
		default:
			if h.OnDrop != nil {
				h.OnDrop(channel)
			}
		}
	}
}

// replaySince returns buffered envelopes on channel with seq > fromSeq.
func (h *Hub) replaySince(channel string, fromSeq int64) [][]byte {
	h.mu.RLock()
	rb := h.replayBufs[channel]
	h.mu.RUnlock()
	if rb == nil {
		return nil
	}
	return rb.Since(fromSeq)
}

// buildEnvelope hand-crafts the envelope JSON to avoid a second marshal on
// the tick path: {"channel":...,"data":...,"ts":...,"seq":N}.
func buildEnvelope(channel string, data []byte, ts time.Time, seq int64) []byte {
	buf := make([]byte, 0, len(channel)+len(data)+80)
	buf = append(buf, `{"channel":"`...)
	buf = append(buf, channel...)
	buf = append(buf, `","data":`...)
	buf = append(buf, data...)
	buf = append(buf, `,"ts":"`...)
	buf = ts.AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, `","seq":`...)
	buf = strconv.AppendInt(buf, seq, 10)
	buf = append(buf, '}')
	return buf
}
