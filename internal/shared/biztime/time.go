// Package biztime centralizes the time handling rules of the control
// plane. All storage, token lifetimes and expiry math are UTC; tenant
// expiry and quota validity work at day granularity, so date boundaries
// are computed here instead of ad hoc at call sites.
package biztime

import "time"

// DateLayout is the wire format for day-granular dates such as quota
// validity, matching the remote tooling's site_config.json fields.
const DateLayout = "2006-01-02"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns midnight UTC of the day containing t.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDayUTC returns the last nanosecond of the day containing t.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// AddDays returns t shifted by n calendar days, normalized to UTC.
// Calendar arithmetic keeps day-granular dates stable across DST
// transitions of whatever zone t carries.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}

// FormatDate renders t as a day-granular UTC date string.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a day-granular date string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
