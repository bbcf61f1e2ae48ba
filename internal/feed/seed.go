package feed

import (
	"github.com/shopspring/decimal"

	"fno-papertrade/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("feed: bad seed price " + s)
	}
	return d
}

// DefaultInstruments is the static seed watchlist: NSE indices and liquid F&O
// stocks with plausible starting quotes and contract lot sizes.
func DefaultInstruments() []model.Instrument {
	return []model.Instrument{
		{ID: "ins_nifty", Symbol: "NIFTY", SpotPrice: dec("21980.50"), NearMonthFuture: dec("22000.00"), NextMonthFuture: dec("22085.40"), LotSize: 50},
		{ID: "ins_banknifty", Symbol: "BANKNIFTY", SpotPrice: dec("46320.15"), NearMonthFuture: dec("46410.00"), NextMonthFuture: dec("46590.75"), LotSize: 15},
		{ID: "ins_finnifty", Symbol: "FINNIFTY", SpotPrice: dec("20710.85"), NearMonthFuture: dec("20745.30"), NextMonthFuture: dec("20820.00"), LotSize: 40},
		{ID: "ins_reliance", Symbol: "RELIANCE", SpotPrice: dec("2895.60"), NearMonthFuture: dec("2901.45"), NextMonthFuture: dec("2915.10"), LotSize: 250},
		{ID: "ins_hdfcbank", Symbol: "HDFCBANK", SpotPrice: dec("1448.25"), NearMonthFuture: dec("1452.80"), NextMonthFuture: dec("1459.95"), LotSize: 550},
		{ID: "ins_tcs", Symbol: "TCS", SpotPrice: dec("3870.40"), NearMonthFuture: dec("3878.15"), NextMonthFuture: dec("3894.60"), LotSize: 175},
		{ID: "ins_infy", Symbol: "INFY", SpotPrice: dec("1512.70"), NearMonthFuture: dec("1516.25"), NextMonthFuture: dec("1523.50"), LotSize: 400},
		{ID: "ins_sbin", Symbol: "SBIN", SpotPrice: dec("612.35"), NearMonthFuture: dec("614.10"), NextMonthFuture: dec("617.25"), LotSize: 750},
	}
}

// DefaultAlerts is the static seed alert list shown on the alerts screen.
func DefaultAlerts() []model.Alert {
	return []model.Alert{
		{ID: "alr_1", Symbol: "NIFTY", Metric: model.MetricSpread, Condition: model.CondTurnsNegative, Active: true},
		{ID: "alr_2", Symbol: "RELIANCE", Metric: model.MetricSpot, Condition: model.CondGreaterThan, Value: dec("2950.00"), Active: true},
		{ID: "alr_3", Symbol: "BANKNIFTY", Metric: model.MetricNearFuture, Condition: model.CondLessThan, Value: dec("46000.00"), Active: false},
	}
}
