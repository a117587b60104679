package reporting

import "time"

// Window is an inclusive [From, To] date range. Both bounds are UTC midnight;
// query layers must filter with >= From AND <= To.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of calendar days the window spans, inclusive.
func (w Window) Days() int {
	return int(w.To.Sub(w.From).Hours()/24) + 1
}

// ResolvePeriod computes the current window ending at anchor and the
// equal-length window immediately preceding it. The previous window ends
// exactly one day before the current window starts, leaving no gap and no
// overlap.
func ResolvePeriod(periodDays int, anchor time.Time) (current, previous Window) {
	end := DayKey(anchor)
	start := end.AddDate(0, 0, -periodDays)

	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -periodDays)

	return Window{From: start, To: end}, Window{From: prevStart, To: prevEnd}
}

// ChangePercent returns the period-over-period delta in percent. A zero
// previous value yields 100 when the current value is positive and 0
// otherwise, so a metric appearing from nothing reads as a full increase
// rather than a division by zero.
func ChangePercent(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
