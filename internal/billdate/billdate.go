// Package billdate converts between the ISO dates accepted on the API
// surface and the locale-formatted date strings stored on invoices.
//
// Invoices persist their creation and clearing dates as "D/M/YYYY" with no
// leading zeros (e.g. "5/6/2024", "20/12/2024"). Every date-keyed query
// compares against that stored text, so the conversion here must be exact:
// a padded day or month silently matches nothing.
package billdate

import (
	"fmt"
	"time"
)

// Layout is the stored wire format. time.Format("2/1/2006") produces
// day and month without leading zeros.
const Layout = "2/1/2006"

// ClockLayout is the stored creation-time format, e.g. "3:04:05 PM".
const ClockLayout = "3:04:05 PM"

// FromISO converts "YYYY-MM-DD" to the stored "D/M/YYYY" form.
func FromISO(iso string) (string, error) {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", iso, err)
	}
	return t.Format(Layout), nil
}

// Format renders t in the stored "D/M/YYYY" form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Clock renders the stored time-of-day string for t.
func Clock(t time.Time) string {
	return t.Format(ClockLayout)
}

// Today returns today's date in the stored form.
func Today() string {
	return Format(time.Now())
}
