package model

import "github.com/shopspring/decimal"

// AlertMetric selects which instrument field an alert watches.
type AlertMetric string

const (
	MetricSpot       AlertMetric = "spot"
	MetricNearFuture AlertMetric = "near_future"
	MetricSpread     AlertMetric = "spread" // future price difference
)

// AlertCondition is the trigger rule evaluated against successive feed ticks.
type AlertCondition string

const (
	CondCrosses       AlertCondition = "crosses"
	CondGreaterThan   AlertCondition = "greater_than"
	CondLessThan      AlertCondition = "less_than"
	CondTurnsNegative AlertCondition = "turns_negative"
	CondTurnsPositive AlertCondition = "turns_positive"
)

// Alert is a user-configured price alert. Evaluation is edge-triggered:
// an alert fires on the tick where its condition becomes true, not on every
// tick where it holds.
type Alert struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Metric    AlertMetric     `json:"metric"`
	Condition AlertCondition  `json:"condition"`
	Value     decimal.Decimal `json:"value"` // threshold; unused for turns_* conditions
	Active    bool            `json:"active"`
}
