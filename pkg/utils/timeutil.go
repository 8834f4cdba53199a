package utils

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used by request bodies, chart
// points and option expirations.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WholeDaysBetween returns the number of complete 24h periods from "from" to
// "to", floored (a partial day counts as nothing, negative spans round down).
func WholeDaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// UnixDate converts a unix timestamp (seconds) into a UTC calendar date.
func UnixDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(DateLayout)
}
