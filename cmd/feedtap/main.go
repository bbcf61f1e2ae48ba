// cmd/feedtap — console tap on the paper-trading WebSocket stream.
// Connects to the server's /ws endpoint and prints each envelope, one line
// per frame. Useful for eyeballing the feed without the browser front end.
//
// Config (env vars):
//
//	FEEDTAP_URL      — WebSocket URL        (default "ws://localhost:8080/ws")
//	FEEDTAP_CHANNELS — comma-separated list (default "" = all channels)
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	initialReconnectDelay = 2 * time.Second
	maxReconnectDelay     = 30 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	url := envOrDefault("FEEDTAP_URL", "ws://localhost:8080/ws")
	channels := splitChannels(os.Getenv("FEEDTAP_CHANNELS"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	delay := initialReconnectDelay
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := runOnce(ctx, url, channels)
		if err == nil {
			return // clean shutdown
		}

		log.Printf("[feedtap] disconnected (%v), reconnecting in %s...", err, delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// runOnce makes one connection attempt and reads until disconnect or cancel.
func runOnce(ctx context.Context, url string, channels []string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "dial")
	}
	defer conn.Close()
	log.Printf("[feedtap] connected to %s", url)

	if len(channels) > 0 {
		sub := map[string]any{"type": "SUBSCRIBE", "channels": channels}
		if err := conn.WriteJSON(sub); err != nil {
			return errors.Wrap(err, "subscribe")
		}
		log.Printf("[feedtap] subscribed to %v", channels)
	}

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return errors.Wrap(err, "read")
		}

		// Frames may carry several newline-separated envelopes.
		for _, line := range strings.Split(string(raw), "\n") {
			if line == "" {
				continue
			}
			printEnvelope(line)
		}
	}
}

func printEnvelope(line string) {
	var env struct {
		Channel string          `json:"channel"`
		Seq     int64           `json:"seq"`
		TS      string          `json:"ts"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		log.Printf("[feedtap] parse error: %v (raw: %s)", err, line)
		return
	}
	log.Printf("[%s #%d] %s", env.Channel, env.Seq, compact(env.Data))
}

// compact trims a payload to one log-friendly line.
func compact(data json.RawMessage) string {
	s := string(data)
	if len(s) > 220 {
		return s[:220] + "…"
	}
	return s
}

func splitChannels(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
