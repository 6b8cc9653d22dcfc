package duckflat

import (
	"fmt"
	"time"
)

const (
	microsPerSecond = int64(1000000)
	microsPerMinute = 60 * microsPerSecond
	microsPerHour   = 60 * microsPerMinute
	microsPerDay    = 24 * microsPerHour
	secondsPerDay   = int64(24 * 60 * 60)
)

// Date is a calendar date decomposed into its fields.
type Date struct {
	Year  int32
	Month int8
	Day   int8
}

// NewDate creates a Date from its fields.
func NewDate(year int32, month, day int8) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateFromDays converts a count of days since 1970-01-01 to a Date.
func DateFromDays(days int32) Date {
	t := time.Unix(int64(days)*secondsPerDay, 0).UTC()
	return Date{Year: int32(t.Year()), Month: int8(t.Month()), Day: int8(t.Day())}
}

// DateFromTime converts a Go time.Time to a Date, using the time's UTC calendar day.
func DateFromTime(t time.Time) Date {
	t = t.UTC()
	return Date{Year: int32(t.Year()), Month: int8(t.Month()), Day: int8(t.Day())}
}

// Days returns the number of days since 1970-01-01.
func (d Date) Days() int32 {
	return int32(d.Time().Unix() / secondsPerDay)
}

// Time converts the date to midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time is a time of day decomposed into its fields.
type Time struct {
	Hour   int8
	Minute int8
	Second int8
	Micros int32
}

// NewTime creates a Time from its fields.
func NewTime(hour, minute, second int8, micros int32) Time {
	return Time{Hour: hour, Minute: minute, Second: second, Micros: micros}
}

// TimeFromMicros converts microseconds since midnight to a Time. Exactly one
// day is kept as 24:00:00, which engines accept as a TIME value; anything else
// wraps into the day.
func TimeFromMicros(micros int64) Time {
	if micros != microsPerDay {
		micros = floorMod(micros, microsPerDay)
	}
	return Time{
		Hour:   int8(micros / microsPerHour),
		Minute: int8((micros % microsPerHour) / microsPerMinute),
		Second: int8((micros % microsPerMinute) / microsPerSecond),
		Micros: int32(micros % microsPerSecond),
	}
}

// TimeOfDay converts the clock part of a Go time.Time to a Time.
func TimeOfDay(t time.Time) Time {
	hour, min, sec := t.Clock()
	return Time{Hour: int8(hour), Minute: int8(min), Second: int8(sec), Micros: int32(t.Nanosecond() / 1000)}
}

// TotalMicros returns the number of microseconds since midnight.
func (t Time) TotalMicros() int64 {
	return int64(t.Hour)*microsPerHour + int64(t.Minute)*microsPerMinute +
		int64(t.Second)*microsPerSecond + int64(t.Micros)
}

// Duration returns the time of day as a duration since midnight.
func (t Time) Duration() time.Duration {
	return time.Duration(t.TotalMicros()) * time.Microsecond
}

// String formats the time as HH:MM:SS.micros.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%d", t.Hour, t.Minute, t.Second, t.Micros)
}

// Timestamp is a date and a time of day.
type Timestamp struct {
	Date Date
	Time Time
}

// NewTimestamp creates a Timestamp from a Date and a Time.
func NewTimestamp(date Date, tm Time) Timestamp {
	return Timestamp{Date: date, Time: tm}
}

// TimestampFromMicros converts microseconds since the Unix epoch to a Timestamp.
// Values before the epoch land on the previous day with a positive time of day.
func TimestampFromMicros(micros int64) Timestamp {
	days := floorDiv(micros, microsPerDay)
	return Timestamp{
		Date: DateFromDays(int32(days)),
		Time: TimeFromMicros(micros - days*microsPerDay),
	}
}

// TimestampFromTime converts a Go time.Time to a Timestamp in UTC.
func TimestampFromTime(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Date: DateFromTime(t), Time: TimeOfDay(t)}
}

// Micros returns the number of microseconds since the Unix epoch.
func (ts Timestamp) Micros() int64 {
	return int64(ts.Date.Days())*microsPerDay + ts.Time.TotalMicros()
}

// GoTime converts the timestamp to a Go time.Time in UTC.
func (ts Timestamp) GoTime() time.Time {
	return ts.Date.Time().Add(ts.Time.Duration())
}

// String formats the timestamp as dateTtime, e.g. 1996-08-07T12:10:00.0.
func (ts Timestamp) String() string {
	return ts.Date.String() + "T" + ts.Time.String()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
