package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the canonical YYYY-MM-DD layout used throughout the engine
const ISODate = "2006-01-02"

// MinDate returns the sentinel minimum date (0001-01-01 UTC),
// used as the open lower edge of background segments
func MinDate() time.Time {
	return time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// MaxDate returns the sentinel maximum date (9999-12-31 UTC),
// used as the open upper edge of background segments
func MaxDate() time.Time {
	return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DateOnly normalizes a timestamp to its UTC calendar day (00:00:00 UTC)
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the UTC calendar day (23:59:59.999...)
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999999999, time.UTC)
}

// IsSameDay returns true if two dates fall on the same UTC calendar day
func IsSameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() &&
		au.Month() == bu.Month() &&
		au.Day() == bu.Day()
}

// WithinInclusive returns true if d falls within [start, end] at UTC-day
// granularity, endpoints included
func WithinInclusive(d, start, end time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(start)) && !day.After(DateOnly(end))
}

// NextDay returns the UTC calendar day after d
func NextDay(d time.Time) time.Time {
	return DateOnly(d).AddDate(0, 0, 1)
}

// PrevDay returns the UTC calendar day before d
func PrevDay(d time.Time) time.Time {
	return DateOnly(d).AddDate(0, 0, -1)
}

// DaysBetween returns the number of whole days from a to b (negative when
// b is earlier than a)
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// FormatDate formats a date as YYYY-MM-DD in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format(ISODate)
}

// ParseDate parses a date string in the supported formats and normalizes
// the result to its UTC calendar day
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		ISODate,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05-0700",
		"02.01.2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}
