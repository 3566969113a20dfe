package utils

import (
	"strconv"
	"time"
)

// ParseYear parses a year string like "2023" into an int. Returns 0
// for anything that is not a plain integer year.
func ParseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return y
}

// ParseMonthPeriod parses a monthly period key like "2024-05" into a
// time.Time. The zero time is returned for malformed keys.
func ParseMonthPeriod(s string) time.Time {
	for _, layout := range []string{"2006-01", "2006-01-02", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// LatestMonthPeriod returns the chronologically greatest period key in
// keys, optionally restricted to those falling inside year (e.g.
// "2023"). Keys that fail to parse as dates are ignored. Returns ""
// when nothing matches.
func LatestMonthPeriod(keys []string, year string) string {
	var (
		best   string
		bestAt time.Time
	)
	for _, k := range keys {
		at := ParseMonthPeriod(k)
		if at.IsZero() {
			continue
		}
		if year != "" && strconv.Itoa(at.Year()) != year {
			continue
		}
		if best == "" || at.After(bestAt) {
			best = k
			bestAt = at
		}
	}
	return best
}
