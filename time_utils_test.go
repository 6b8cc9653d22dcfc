package duckflat

import (
	"testing"
	"time"
)

func TestDateRoundtrip(t *testing.T) {
	d := NewDate(2024, 1, 1)
	if d.Days() != 19723 {
		t.Errorf("Expected 19723 days, got %d", d.Days())
	}
	if got := DateFromDays(19723); got != d {
		t.Errorf("Expected %v, got %v", d, got)
	}
	if d.String() != "2024-01-01" {
		t.Errorf("Expected 2024-01-01, got %s", d)
	}

	before := DateFromDays(-1)
	if before != NewDate(1969, 12, 31) {
		t.Errorf("Expected 1969-12-31, got %s", before)
	}

	for _, days := range []int32{-719528, -1, 0, 1, 11016, 19723, 2932896} {
		if got := DateFromDays(days).Days(); got != days {
			t.Errorf("Days roundtrip of %d returned %d", days, got)
		}
	}
}

func TestTimeFromMicros(t *testing.T) {
	micros := int64(12)*microsPerHour + 10*microsPerMinute + 5*microsPerSecond + 42
	tm := TimeFromMicros(micros)
	if tm != NewTime(12, 10, 5, 42) {
		t.Errorf("Unexpected time %+v", tm)
	}
	if tm.TotalMicros() != micros {
		t.Errorf("Expected %d micros, got %d", micros, tm.TotalMicros())
	}
	if tm.String() != "12:10:05.42" {
		t.Errorf("Expected 12:10:05.42, got %s", tm)
	}
}

func TestTimeFromMicrosEndOfDay(t *testing.T) {
	tm := TimeFromMicros(microsPerDay)
	if tm != NewTime(24, 0, 0, 0) {
		t.Errorf("Expected 24:00:00, got %+v", tm)
	}
	if tm.TotalMicros() != microsPerDay {
		t.Errorf("Expected %d micros, got %d", microsPerDay, tm.TotalMicros())
	}

	if tm := TimeFromMicros(microsPerDay + microsPerSecond); tm != NewTime(0, 0, 1, 0) {
		t.Errorf("Expected values past one day to wrap, got %+v", tm)
	}
	if tm := TimeFromMicros(-microsPerSecond); tm != NewTime(23, 59, 59, 0) {
		t.Errorf("Expected negative values to wrap, got %+v", tm)
	}
}

func TestTimestampString(t *testing.T) {
	ts := NewTimestamp(NewDate(1996, 8, 7), NewTime(12, 10, 0, 0))
	if ts.String() != "1996-08-07T12:10:00.0" {
		t.Errorf("Expected 1996-08-07T12:10:00.0, got %s", ts)
	}
}

func TestTimestampFromMicros(t *testing.T) {
	ts := TimestampFromMicros(0)
	if ts.Date != NewDate(1970, 1, 1) || ts.Time != (Time{}) {
		t.Errorf("Unexpected epoch timestamp %s", ts)
	}

	ts = TimestampFromMicros(-1)
	if ts.Date != NewDate(1969, 12, 31) || ts.Time != NewTime(23, 59, 59, 999999) {
		t.Errorf("Unexpected pre-epoch timestamp %s", ts)
	}
	if ts.Micros() != -1 {
		t.Errorf("Expected -1 micros, got %d", ts.Micros())
	}

	goTime := time.Date(2022, 3, 4, 5, 6, 7, 8000, time.UTC)
	ts = TimestampFromMicros(goTime.UnixMicro())
	if !ts.GoTime().Equal(goTime) {
		t.Errorf("Expected %v, got %v", goTime, ts.GoTime())
	}
	if TimestampFromTime(goTime) != ts {
		t.Errorf("TimestampFromTime mismatch: %s vs %s", TimestampFromTime(goTime), ts)
	}
}
