package util

import (
	"math"
	"testing"
	"time"
)

func TestParsePeriodDays(t *testing.T) {
	if n, ok := ParsePeriodDays("365d"); !ok || n != 365 {
		t.Fatalf("unexpected %d %v", n, ok)
	}
	if n, ok := ParsePeriodDays("90"); !ok || n != 90 {
		t.Fatalf("unexpected %d %v", n, ok)
	}
	if _, ok := ParsePeriodDays(""); ok {
		t.Fatalf("expected not ok")
	}
	if _, ok := ParsePeriodDays("-5d"); ok {
		t.Fatalf("expected not ok")
	}
}

func TestPeriodDaysDefault(t *testing.T) {
	if got := PeriodDaysDefault("bogus", 30); got != 30 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestFormatStamp(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	ts := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	got := FormatStamp(ts, loc)
	if got != "2024-01-15 12:00:00 PST" {
		t.Fatalf("unexpected stamp %q", got)
	}
	summer := time.Date(2024, 7, 15, 19, 0, 0, 0, time.UTC)
	if got := FormatStamp(summer, loc); got != "2024-07-15 12:00:00 PDT" {
		t.Fatalf("unexpected stamp %q", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 0); got != 42 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("unexpected %d", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename("a/b\\c report.html"); got != "a_b_c_report.html" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(100, 110); got != 10 {
		t.Fatalf("unexpected %v", got)
	}
	if got := PercentChange(0, 110); got != 0 {
		t.Fatalf("expected 0 for non-positive prev, got %v", got)
	}
	if got := PercentChange(math.NaN(), 110); got != 0 {
		t.Fatalf("expected 0 for NaN prev, got %v", got)
	}
}
