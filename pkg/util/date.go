package util

import (
	"strconv"
	"strings"
	"time"
)

// ParsePeriodDays parses a period string like "365d" or "90d" into days.
// A bare number is treated as days. Returns (n, true) if it parsed.
func ParsePeriodDays(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "d")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PeriodDaysDefault parses a period or returns default if empty/invalid.
func PeriodDaysDefault(s string, def int) int {
	if n, ok := ParsePeriodDays(s); ok {
		return n
	}
	return def
}

// FormatStamp formats a time as "2006-01-02 15:04:05 MST" in the given zone.
func FormatStamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}

// FormatStampCompact formats a time as "20060102_150405" in the given zone,
// suitable for file names.
func FormatStampCompact(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("20060102_150405")
}
