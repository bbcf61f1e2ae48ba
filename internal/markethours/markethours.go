// Package markethours reports NSE trading session state. Display only: the
// synthetic feed keeps running outside market hours.
package markethours

import "time"

// IST is the Indian Standard Time location (UTC+5:30).
var IST = time.FixedZone("IST", 5*3600+30*60)

// NSE cash/derivatives session in IST.
const (
	OpenHour    = 9
	OpenMinute  = 15
	CloseHour   = 15
	CloseMinute = 30
)

// IsMarketOpen returns true if t falls within NSE trading hours
// (9:15 AM – 3:30 PM IST, Mon–Fri, excluding holidays).
func IsMarketOpen(t time.Time) bool {
	ist := t.In(IST)
	if !IsTradingDay(ist) {
		return false
	}
	hm := ist.Hour()*60 + ist.Minute()
	return hm >= OpenHour*60+OpenMinute && hm < CloseHour*60+CloseMinute
}

// IsTradingDay returns true if t is a weekday and not an exchange holiday.
func IsTradingDay(t time.Time) bool {
	ist := t.In(IST)
	wd := ist.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !IsHoliday(ist)
}

// NextOpen returns the next market open time (9:15 AM IST on the next
// trading day, or today's open if t is before it on a trading day).
func NextOpen(t time.Time) time.Time {
	ist := t.In(IST)

	todayOpen := time.Date(ist.Year(), ist.Month(), ist.Day(), OpenHour, OpenMinute, 0, 0, IST)
	if ist.Before(todayOpen) && IsTradingDay(ist) {
		return todayOpen
	}

	d := ist.AddDate(0, 0, 1)
	for i := 0; i < 10; i++ { // holidays + weekends never span 10 days
		if IsTradingDay(d) {
			return time.Date(d.Year(), d.Month(), d.Day(), OpenHour, OpenMinute, 0, 0, IST)
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(ist.Year(), ist.Month(), ist.Day()+1, OpenHour, OpenMinute, 0, 0, IST)
}

// Status is the /api/v1/session payload.
type Status struct {
	Open     bool      `json:"open"`
	Session  string    `json:"session"` // "open" or "closed"
	NextOpen time.Time `json:"next_open,omitempty"`
	Now      time.Time `json:"now"`
}

// StatusAt returns the session status at t.
func StatusAt(t time.Time) Status {
	ist := t.In(IST)
	st := Status{Open: IsMarketOpen(ist), Now: ist}
	if st.Open {
		st.Session = "open"
	} else {
		st.Session = "closed"
		st.NextOpen = NextOpen(ist)
	}
	return st
}
