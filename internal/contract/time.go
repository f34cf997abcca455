package contract

import (
	"fmt"
	"regexp"
	"time"
)

// CompactTimestampFormat is the web archive's timestamp layout.
const CompactTimestampFormat = "20060102150405"

// monthKeyPattern matches zero-padded YYYY-MM period keys.
var monthKeyPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// DayKey formats a time as the calendar-day period key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey formats a time as the monthly period key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WeekKey formats a time as the weekly period key, e.g. "2024-W12".
//
// The week number comes from the original dashboard formula: day-of-year
// shifted by the weekday of January 1st, divided into seven-day slices. It is
// close to but not exactly ISO-8601 week numbering, and is kept for
// compatibility with the persisted history files.
func WeekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	week := (t.YearDay() + int(jan1.Weekday()) + 6) / 7
	if week < 1 {
		week = 1
	}
	return fmt.Sprintf("%04d-W%02d", t.Year(), week)
}

// ParseMonthKey splits a YYYY-MM period key into its year and month parts.
func ParseMonthKey(key string) (int, int, error) {
	m := monthKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid month key %q, expected YYYY-MM", key)
	}
	var year, month int
	_, _ = fmt.Sscanf(key, "%d-%d", &year, &month)
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d in key %q", month, key)
	}
	return year, month, nil
}

// AddMonthKey advances a YYYY-MM key by n months, carrying year boundaries.
func AddMonthKey(key string, n int) (string, error) {
	year, month, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	total := year*12 + (month - 1) + n
	return fmt.Sprintf("%04d-%02d", total/12, total%12+1), nil
}

// MonthsBetween returns the number of month steps from key a to key b.
// The result is negative when b precedes a.
func MonthsBetween(a, b string) (int, error) {
	ay, am, err := ParseMonthKey(a)
	if err != nil {
		return 0, err
	}
	by, bm, err := ParseMonthKey(b)
	if err != nil {
		return 0, err
	}
	return (by*12 + bm) - (ay*12 + am), nil
}

// MonthKeyToCompact converts a YYYY-MM key to a mid-day archive timestamp on
// the first of that month, the probe point used for historical backfills.
func MonthKeyToCompact(key string) (string, error) {
	year, month, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d%02d01120000", year, month), nil
}

// CompactToDayKey converts a compact archive timestamp to its calendar day.
func CompactToDayKey(ts string) (string, error) {
	t, err := time.Parse(CompactTimestampFormat, ts)
	if err != nil {
		return "", fmt.Errorf("invalid archive timestamp %q: %w", ts, err)
	}
	return DayKey(t), nil
}
