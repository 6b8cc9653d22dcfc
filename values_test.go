package duckflat

import (
	"math"
	"math/big"
	"testing"
)

func TestHugeintBigConversion(t *testing.T) {
	values := []string{
		"0",
		"1",
		"-1",
		"18446744073709551615",
		"18446744073709551616",
		"-18446744073709551616",
		"170141183460469231731687303715884105727",
		"-170141183460469231731687303715884105728",
	}

	for _, s := range values {
		v, _ := new(big.Int).SetString(s, 10)
		h, ok := HugeintFromBig(v)
		if !ok {
			t.Fatalf("HugeintFromBig(%s) reported overflow", s)
		}
		if h.String() != s {
			t.Errorf("Expected %s, got %s (upper=%d lower=%d)", s, h.String(), h.Upper, h.Lower)
		}
	}

	tooBig, _ := new(big.Int).SetString("170141183460469231731687303715884105728", 10)
	if _, ok := HugeintFromBig(tooBig); ok {
		t.Error("Expected overflow for 2^127")
	}
}

func TestHugeintFromInt64(t *testing.T) {
	h := HugeintFromInt64(-2)
	if h.Upper != -1 || h.Lower != math.MaxUint64-1 {
		t.Errorf("Unexpected halves for -2: upper=%d lower=%d", h.Upper, h.Lower)
	}
	if h.String() != "-2" {
		t.Errorf("Expected -2, got %s", h)
	}
	if HugeintFromInt64(math.MaxInt64).String() != "9223372036854775807" {
		t.Errorf("Unexpected MaxInt64 rendering %s", HugeintFromInt64(math.MaxInt64))
	}
}

func TestIntervalString(t *testing.T) {
	tests := []struct {
		iv   Interval
		want string
	}{
		{Interval{}, "00:00:00"},
		{Interval{Months: 1}, "1 month"},
		{Interval{Months: 14, Days: 3}, "1 year 2 months 3 days"},
		{Interval{Days: 1, Micros: 3*microsPerHour + 500000}, "1 day 03:00:00.5"},
		{Interval{Micros: -microsPerSecond}, "-00:00:01"},
	}
	for _, tt := range tests {
		if got := tt.iv.String(); got != tt.want {
			t.Errorf("Interval%+v: expected %q, got %q", tt.iv, tt.want, got)
		}
	}
}

func TestFormatBlob(t *testing.T) {
	if got := FormatBlob([]byte{'a', 0x00, 0xff, '\\'}); got != `a\x00\xFF\x5C` {
		t.Errorf("Unexpected blob rendering %q", got)
	}
}
