package util

import (
	"database/sql"
	"encoding/json"
	"math"
	"testing"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"nil", nil, 0},
		{"int64", int64(42), 42},
		{"int", int(7), 7},
		{"float64", float64(3.9), 3},
		{"float64 NaN", math.NaN(), 0},
		{"json number int", json.Number("12"), 12},
		{"json number float", json.Number("12.7"), 12},
		{"json number invalid", json.Number("x"), 0},
		{"string valid", "123", 123},
		{"string padded", " 5 ", 5},
		{"string invalid", "abc", 0},
		{"string empty", "", 0},
		{"NullInt64 valid", sql.NullInt64{Int64: 99, Valid: true}, 99},
		{"NullInt64 null", sql.NullInt64{Valid: false}, 0},
		{"NullFloat64 valid", sql.NullFloat64{Float64: 15.0, Valid: true}, 15},
		{"NullFloat64 null", sql.NullFloat64{Valid: false}, 0},
		{"float above range", 1e19, math.MaxInt64},
		{"float below range", -1e19, math.MinInt64},
		{"number above range", json.Number("1e19"), math.MaxInt64},
		{"NullFloat64 above range", sql.NullFloat64{Float64: 1e30, Valid: true}, math.MaxInt64},
		{"bool", true, 0},
		{"map", map[string]any{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToInt64(tt.in); got != tt.want {
				t.Errorf("ToInt64(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToCounter(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"positive", json.Number("8"), 8},
		{"zero", json.Number("0"), 0},
		{"negative", json.Number("-3"), 0},
		{"negative string", "-1", 0},
		{"missing", nil, 0},
		{"huge", json.Number("99999999999999999999"), math.MaxInt64},
		{"huge negative", json.Number("-1e19"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCounter(tt.in); got != tt.want {
				t.Errorf("ToCounter(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("expected hel, got %q", got)
	}
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("expected rune-safe truncation, got %q", got)
	}
	if got := Truncate("hello", 0); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestToString(t *testing.T) {
	if got := ToString("x"); got != "x" {
		t.Errorf("expected x, got %q", got)
	}
	if got := ToString(42); got != "" {
		t.Errorf("expected empty string for non-string, got %q", got)
	}
}
