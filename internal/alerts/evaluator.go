package alerts

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
	"fno-papertrade/internal/notification"
)

// Evaluator consumes feed snapshots and fires active alerts edge-triggered:
// an alert fires on the tick where its condition becomes true against the
// previous observed value, not on every tick where it holds.
type Evaluator struct {
	store    *Store
	notifier notification.Notifier

	// prev holds the last observed metric value per alert ID. The first
	// observation only records state and never fires.
	prev map[string]decimal.Decimal

	// OnTrigger is called once per fired alert.
	OnTrigger func(a model.Alert)
}

// NewEvaluator creates an Evaluator delivering through notifier.
func NewEvaluator(store *Store, notifier notification.Notifier) *Evaluator {
	return &Evaluator{
		store:    store,
		notifier: notifier,
		prev:     make(map[string]decimal.Decimal),
	}
}

// Run evaluates every snapshot until ctx is cancelled or the channel closes.
func (e *Evaluator) Run(ctx context.Context, snapshots <-chan []model.Instrument) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			e.Evaluate(ctx, snap)
		}
	}
}

// Evaluate checks every active alert against one snapshot.
// Exported for deterministic driving in tests.
func (e *Evaluator) Evaluate(ctx context.Context, snap []model.Instrument) {
	bySymbol := make(map[string]model.Instrument, len(snap))
	for _, inst := range snap {
		bySymbol[inst.Symbol] = inst
	}

	for _, a := range e.store.List() {
		if !a.Active {
			continue
		}
		inst, ok := bySymbol[a.Symbol]
		if !ok {
			continue
		}
		cur, ok := metricValue(inst, a.Metric)
		if !ok {
			continue
		}

		prev, seen := e.prev[a.ID]
		e.prev[a.ID] = cur
		if !seen {
			continue
		}
		if !fired(a, prev, cur) {
			continue
		}

		e.deliver(ctx, a, cur)
		if e.OnTrigger != nil {
			e.OnTrigger(a)
		}
	}
}

func (e *Evaluator) deliver(ctx context.Context, a model.Alert, cur decimal.Decimal) {
	ev := notification.Event{
		Severity: notification.SeverityWarning,
		Symbol:   a.Symbol,
		Title:    fmt.Sprintf("%s %s %s", a.Symbol, metricLabel(a.Metric), conditionLabel(a)),
		Message:  fmt.Sprintf("%s %s is now %s", a.Symbol, metricLabel(a.Metric), cur),
	}
	if err := e.notifier.Send(ctx, ev); err != nil {
		log.Printf("[alerts] delivery failed for %s: %v", a.ID, err)
	}
}

// fired reports whether the condition became true between prev and cur.
func fired(a model.Alert, prev, cur decimal.Decimal) bool {
	switch a.Condition {
	case model.CondGreaterThan:
		return prev.Cmp(a.Value) <= 0 && cur.Cmp(a.Value) > 0
	case model.CondLessThan:
		return prev.Cmp(a.Value) >= 0 && cur.Cmp(a.Value) < 0
	case model.CondCrosses:
		return prev.Sub(a.Value).Sign()*cur.Sub(a.Value).Sign() < 0
	case model.CondTurnsNegative:
		return prev.Sign() >= 0 && cur.Sign() < 0
	case model.CondTurnsPositive:
		return prev.Sign() <= 0 && cur.Sign() > 0
	default:
		return false
	}
}

func metricValue(inst model.Instrument, m model.AlertMetric) (decimal.Decimal, bool) {
	switch m {
	case model.MetricSpot:
		return inst.SpotPrice, true
	case model.MetricNearFuture:
		return inst.NearMonthFuture, true
	case model.MetricSpread:
		return inst.FuturePriceDifference, true
	default:
		return decimal.Zero, false
	}
}

func metricLabel(m model.AlertMetric) string {
	switch m {
	case model.MetricSpot:
		return "spot price"
	case model.MetricNearFuture:
		return "near-month future"
	case model.MetricSpread:
		return "future price difference"
	default:
		return string(m)
	}
}

func conditionLabel(a model.Alert) string {
	switch a.Condition {
	case model.CondCrosses:
		return "crossed " + a.Value.String()
	case model.CondGreaterThan:
		return "rose above " + a.Value.String()
	case model.CondLessThan:
		return "fell below " + a.Value.String()
	case model.CondTurnsNegative:
		return "turned negative"
	case model.CondTurnsPositive:
		return "turned positive"
	default:
		return string(a.Condition)
	}
}
