package ingest

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing field-level dates. Exports
// sometimes carry a time component on the modified column; the date part is
// all that survives.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate parses a raw date string to a date-only value in UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return toDateOnly(t), true
		}
	}

	return time.Time{}, false
}

func toDateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysSince returns whole calendar days from t to now. Never negative.
func DaysSince(now, t time.Time) int {
	days := int(toDateOnly(now).Sub(toDateOnly(t)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DaysUntil returns signed whole calendar days from now to t; negative when
// t is already past.
func DaysUntil(now, t time.Time) int {
	return int(toDateOnly(t).Sub(toDateOnly(now)).Hours() / 24)
}

// UrgencyTier buckets days-since-modified into fresh/warning/stale/critical.
func UrgencyTier(daysSince int) string {
	switch {
	case daysSince == DaysUnknown:
		return "unknown"
	case daysSince <= 7:
		return "fresh"
	case daysSince <= 14:
		return "warning"
	case daysSince <= 30:
		return "stale"
	default:
		return "critical"
	}
}

// ClosingTier buckets signed days-until-closing into overdue/soon/normal.
func ClosingTier(daysUntil *int) string {
	switch {
	case daysUntil == nil:
		return "none"
	case *daysUntil < 0:
		return "overdue"
	case *daysUntil <= 30:
		return "soon"
	default:
		return "normal"
	}
}
