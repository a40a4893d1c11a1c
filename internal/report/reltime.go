package report

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	daysPerMonth     = 30
	daysPerYear      = 365
)

// RelativeTime renders an ISO-8601 timestamp as a duration since now, using
// the largest applicable unit: years, 30-day months, days, hours, minutes or
// "just now". Unparseable input is returned unchanged rather than failing
// the render.
func RelativeTime(iso string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}

	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	days := int(d / (24 * time.Hour))
	switch {
	case days > daysPerYear:
		return pluralize(days/daysPerYear, "year")
	case days > daysPerMonth:
		return pluralize(days/daysPerMonth, "month")
	case days > 0:
		return pluralize(days, "day")
	}

	seconds := int(d/time.Second) % secondsPerDay
	switch {
	case seconds >= secondsPerHour:
		return pluralize(seconds/secondsPerHour, "hour")
	case seconds >= secondsPerMinute:
		return pluralize(seconds/secondsPerMinute, "minute")
	}

	return "just now"
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}
