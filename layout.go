package duckflat

import (
	"encoding/binary"
	"math"
)

// Cell encoders and decoders for the flat layout. All multi-byte fields are
// little-endian; offsets match duckflat.h.

func putDate(b []byte, d Date) {
	binary.LittleEndian.PutUint32(b[0:], uint32(d.Year))
	b[4] = byte(d.Month)
	b[5] = byte(d.Day)
}

func getDate(b []byte) Date {
	return Date{
		Year:  int32(binary.LittleEndian.Uint32(b[0:])),
		Month: int8(b[4]),
		Day:   int8(b[5]),
	}
}

func putTime(b []byte, t Time) {
	b[0] = byte(t.Hour)
	b[1] = byte(t.Minute)
	b[2] = byte(t.Second)
	binary.LittleEndian.PutUint32(b[4:], uint32(t.Micros))
}

func getTime(b []byte) Time {
	return Time{
		Hour:   int8(b[0]),
		Minute: int8(b[1]),
		Second: int8(b[2]),
		Micros: int32(binary.LittleEndian.Uint32(b[4:])),
	}
}

func putTimestamp(b []byte, ts Timestamp) {
	putDate(b[0:8], ts.Date)
	putTime(b[8:16], ts.Time)
}

func getTimestamp(b []byte) Timestamp {
	return Timestamp{Date: getDate(b[0:8]), Time: getTime(b[8:16])}
}

func putHugeint(b []byte, h Hugeint) {
	binary.LittleEndian.PutUint64(b[0:], h.Lower)
	binary.LittleEndian.PutUint64(b[8:], uint64(h.Upper))
}

func getHugeint(b []byte) Hugeint {
	return Hugeint{
		Lower: binary.LittleEndian.Uint64(b[0:]),
		Upper: int64(binary.LittleEndian.Uint64(b[8:])),
	}
}

func putInterval(b []byte, iv Interval) {
	binary.LittleEndian.PutUint32(b[0:], uint32(iv.Months))
	binary.LittleEndian.PutUint32(b[4:], uint32(iv.Days))
	binary.LittleEndian.PutUint64(b[8:], uint64(iv.Micros))
}

func getInterval(b []byte) Interval {
	return Interval{
		Months: int32(binary.LittleEndian.Uint32(b[0:])),
		Days:   int32(binary.LittleEndian.Uint32(b[4:])),
		Micros: int64(binary.LittleEndian.Uint64(b[8:])),
	}
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

func getFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// A VARCHAR slot holds arena offset+1 of a NUL-terminated copy; zero means no value.
func putStringRef(b []byte, off int) {
	binary.LittleEndian.PutUint64(b, uint64(off)+1)
}

func getStringRef(b []byte) (int, bool) {
	ref := binary.LittleEndian.Uint64(b)
	if ref == 0 {
		return 0, false
	}
	return int(ref - 1), true
}

// A BLOB slot holds arena offset+1 at 0 and the byte length at 8.
func putBlobRef(b []byte, off, size int) {
	binary.LittleEndian.PutUint64(b[0:], uint64(off)+1)
	binary.LittleEndian.PutUint64(b[8:], uint64(size))
}

func getBlobRef(b []byte) (off, size int, ok bool) {
	ref := binary.LittleEndian.Uint64(b[0:])
	if ref == 0 {
		return 0, 0, false
	}
	return int(ref - 1), int(binary.LittleEndian.Uint64(b[8:])), true
}
