// Package period normalizes date-like values into canonical billing months.
//
// A billing period is never stored. It is derived from a payment's explicit
// period, its legacy payment date, or an ISO date string, and always means
// the first calendar day of a month at midnight in one fixed location.
package period

import (
	"fmt"
	"time"
)

// Month is a canonical billing period: a (year, month) pair. The zero value
// means "no period".
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns the month for year y and month m, normalizing overflow
// (month 13 is January of the next year, month 0 is December of the last).
func NewMonth(y int, m time.Month) Month {
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return NewMonth(m.Year, m.Month+time.Month(n))
}

// Prev returns the month before m.
func (m Month) Prev() Month { return m.AddMonths(-1) }

// Next returns the month after m.
func (m Month) Next() Month { return m.AddMonths(1) }

// StartIn returns the first instant of the month in loc.
func (m Month) StartIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return m.StartIn(time.UTC)
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Compare returns -1, 0 or 1 when m is before, equal to or after o.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year < o.Year, m.Year == o.Year && m.Month < o.Month:
		return -1
	case m == o:
		return 0
	default:
		return 1
	}
}

// Before reports whether m is strictly before o.
func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

// After reports whether m is strictly after o.
func (m Month) After(o Month) bool { return m.Compare(o) > 0 }

// String formats the month as YYYY-MM, the grouping key used in reports.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label formats the month as MM/YYYY for chart axes.
func (m Month) Label() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

// Range returns n consecutive months ending at end inclusive, oldest first.
func Range(end Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, n)
	for i := 0; i < n; i++ {
		months[i] = end.AddMonths(i - n + 1)
	}
	return months
}
