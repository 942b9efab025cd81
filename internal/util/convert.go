package util

import (
	"database/sql"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToInt64 safely converts an any to int64.
// Handles int64, int, float64, json.Number, string, sql.NullInt64 and sql.NullFloat64.
// Returns 0 for nil, unparsable or unsupported values.
func ToInt64(v any) int64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return floatToInt64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return ToInt64(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	case sql.NullInt64:
		if n.Valid {
			return n.Int64
		}
		return 0
	case sql.NullFloat64:
		if n.Valid {
			return floatToInt64(n.Float64)
		}
		return 0
	default:
		return 0
	}
}

// floatToInt64 truncates f toward zero, saturating at the int64 bounds.
// NaN maps to 0.
func floatToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// ToCounter converts v like ToInt64 and clamps negative results to 0.
func ToCounter(v any) int64 {
	if n := ToInt64(v); n > 0 {
		return n
	}
	return 0
}

// ToString returns v when it is a string and "" otherwise.
func ToString(v any) string {
	s, _ := v.(string)
	return s
}

// Truncate shortens s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
