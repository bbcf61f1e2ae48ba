package markethours

import "time"

// NSE exchange holidays for 2026.
// Source: NSE India official holiday list.
var nseHolidays2026 = []struct {
	month time.Month
	day   int
}{
	{time.January, 26},  // Republic Day
	{time.February, 17}, // Mahashivratri (tentative)
	{time.March, 14},    // Holi
	{time.March, 31},    // Id-ul-Fitr (tentative)
	{time.April, 6},     // Mahavir Jayanti
	{time.April, 10},    // Good Friday
	{time.April, 14},    // Dr. Ambedkar Jayanti
	{time.May, 1},       // Maharashtra Day
	{time.August, 15},   // Independence Day
	{time.October, 2},   // Mahatma Gandhi Jayanti
	{time.October, 20},  // Dussehra
	{time.November, 5},  // Diwali / Lakshmi Puja (tentative)
	{time.November, 19}, // Guru Nanak Jayanti
	{time.December, 25}, // Christmas
}

var holidaySet map[[2]int]bool

func init() {
	holidaySet = make(map[[2]int]bool, len(nseHolidays2026))
	for _, h := range nseHolidays2026 {
		holidaySet[[2]int{int(h.month), h.day}] = true
	}
}

// IsHoliday returns true if t (interpreted in IST) is an exchange holiday.
// The list only covers 2026; other years fall back to weekday-only checks.
func IsHoliday(t time.Time) bool {
	ist := t.In(IST)
	if ist.Year() != 2026 {
		return false
	}
	return holidaySet[[2]int{int(ist.Month()), ist.Day()}]
}
