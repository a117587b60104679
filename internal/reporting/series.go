package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

const dayFormat = "2006-01-02"

// DayKey truncates t to its UTC calendar day. Every date bucketing in this
// package goes through it so that boundary orders land on one day only.
func DayKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last instant of t's UTC calendar day, for inclusive
// upper bounds in timestamp queries.
func EndOfDay(t time.Time) time.Time {
	return DayKey(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayTotals is the per-day aggregate behind one chart point.
type DayTotals struct {
	Sales  decimal.Decimal
	Profit decimal.Decimal
}

// SeriesPoint is one rendered day of the activity chart.
type SeriesPoint struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

// Densify expands a sparse day-keyed aggregate into a contiguous daily series
// covering [from, to] inclusive. Days without data are zero-filled, so the
// result always has daysBetween(from, to)+1 points in ascending date order.
func Densify(sparse map[time.Time]DayTotals, from, to time.Time) []SeriesPoint {
	start := DayKey(from)
	end := DayKey(to)
	if end.Before(start) {
		return []SeriesPoint{}
	}

	points := make([]SeriesPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		totals, ok := sparse[day]
		if !ok {
			totals = DayTotals{Sales: decimal.Zero, Profit: decimal.Zero}
		}
		points = append(points, SeriesPoint{
			Date:   day.Format(dayFormat),
			Sales:  totals.Sales,
			Profit: totals.Profit,
		})
	}
	return points
}
