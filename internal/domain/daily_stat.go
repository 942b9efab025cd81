package domain

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used as the DailyStat key.
// Lexicographic order of strings in this layout matches chronological order.
const DateLayout = "2006-01-02"

// DailyStat holds the usage counters recorded for one calendar date.
type DailyStat struct {
	Date                string
	InterceptedRequests int64
	RepeaterRequests    int64
	IntruderRequests    int64
	ScannerRequests     int64
	SpiderRequests      int64
	DecoderOperations   int64
	ComparerOperations  int64
	SequencerOperations int64
	ExtenderEvents      int64
	TargetAdditions     int64
	LoggerRequests      int64
	SessionMinutes      int64
	SessionsCount       int64
}

// PrimaryRequests sums the five request-producing tools:
// proxy, repeater, intruder, scanner and spider.
// The sum saturates at math.MaxInt64.
func (d *DailyStat) PrimaryRequests() int64 {
	return sumCounters(d.InterceptedRequests, d.RepeaterRequests, d.IntruderRequests,
		d.ScannerRequests, d.SpiderRequests)
}

// addCounter adds two non-negative counters, saturating at math.MaxInt64.
func addCounter(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func sumCounters(ns ...int64) int64 {
	var total int64
	for _, n := range ns {
		total = addCounter(total, n)
	}
	return total
}

// FormatDate renders t as a DailyStat key in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates that s is a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
