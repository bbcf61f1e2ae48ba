package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a single WebSocket peer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	// Channel subscription filter. Empty set = receive everything.
	subMu sync.RWMutex
	subs  map[string]bool
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 64),
		hub:  hub,
		subs: make(map[string]bool),
	}
}

// subscribed reports whether this client should receive channel frames.
func (c *Client) subscribed(channel string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	if len(c.subs) == 0 {
		return true
	}
	return c.subs[channel]
}

// subscribeMsg is the client → server SUBSCRIBE request.
type subscribeMsg struct {
	Type     string   `json:"type"`     // "SUBSCRIBE"
	Channels []string `json:"channels"` // e.g. ["watchlist","positions"]
}

// replayMsg is the client → server REPLAY request after a detected seq gap.
type replayMsg struct {
	Type    string `json:"type"` // "REPLAY"
	Channel string `json:"channel"`
	FromSeq int64  `json:"from_seq"` // last seq the client saw
}

func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c)
		c.conn.Close()
		log.Println("[gateway] ws client disconnected")
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var base struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(msg, &base) != nil {
			continue
		}

		switch base.Type {
		case "SUBSCRIBE":
			var sub subscribeMsg
			if err := json.Unmarshal(msg, &sub); err != nil {
				continue
			}
			c.subMu.Lock()
			c.subs = make(map[string]bool, len(sub.Channels))
			for _, ch := range sub.Channels {
				c.subs[ch] = true
			}
			c.subMu.Unlock()

		case "REPLAY":
			var rep replayMsg
			if err := json.Unmarshal(msg, &rep); err != nil {
				continue
			}
			for _, env := range c.hub.replaySince(rep.Channel, rep.FromSeq) {
				select {
				case c.send <- env:
				default:
				}
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

			// Write coalescing: batch queued envelopes into one frame
			// with newline separators.
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
