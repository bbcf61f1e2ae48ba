// Package notification delivers triggered market alerts to external channels
// (Telegram, webhooks). Delivery is best-effort: a failed send never disturbs
// the simulators or the alert evaluator.
package notification

import (
	"context"
	"log/slog"
)

// Severity classifies a delivered event.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Event is a triggered alert ready for delivery.
type Event struct {
	Severity Severity `json:"severity"`
	Symbol   string   `json:"symbol"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Notifier is the interface for all delivery backends.
type Notifier interface {
	// Send delivers an event. Returns an error if delivery fails.
	Send(ctx context.Context, ev Event) error
}

// LogNotifier writes events to the structured log. Used in development and
// as the fallback when no external channel is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Send(_ context.Context, ev Event) error {
	slog.Info("alert triggered",
		slog.String("severity", string(ev.Severity)),
		slog.String("symbol", ev.Symbol),
		slog.String("title", ev.Title),
		slog.String("message", ev.Message),
	)
	return nil
}

// Multi fans an event out to several backends, returning the first error
// after attempting all of them.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, ev Event) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
