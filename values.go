package duckflat

import (
	"fmt"
	"math/big"
	"strings"
)

// Hugeint is a signed 128-bit integer stored as two 64-bit halves.
// The value is Upper*2^64 + Lower.
type Hugeint struct {
	Lower uint64
	Upper int64
}

// HugeintFromInt64 widens an int64.
func HugeintFromInt64(v int64) Hugeint {
	h := Hugeint{Lower: uint64(v)}
	if v < 0 {
		h.Upper = -1
	}
	return h
}

var (
	twoTo64     = new(big.Int).Lsh(big.NewInt(1), 64)
	hugeintMax  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	hugeintMin  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	lowerMask64 = new(big.Int).Sub(twoTo64, big.NewInt(1))
)

// HugeintFromBig converts a big.Int. It reports false if v does not fit in 128 bits.
func HugeintFromBig(v *big.Int) (Hugeint, bool) {
	if v.Cmp(hugeintMin) < 0 || v.Cmp(hugeintMax) > 0 {
		return Hugeint{}, false
	}
	lower := new(big.Int).And(v, lowerMask64)
	upper := new(big.Int).Rsh(v, 64)
	return Hugeint{Lower: lower.Uint64(), Upper: upper.Int64()}, true
}

// BigInt returns the value as a big.Int.
func (h Hugeint) BigInt() *big.Int {
	v := big.NewInt(h.Upper)
	v.Mul(v, twoTo64)
	return v.Add(v, new(big.Int).SetUint64(h.Lower))
}

// String formats the value in decimal.
func (h Hugeint) String() string {
	return h.BigInt().String()
}

// Interval is a calendar interval. Months and days are kept apart from the
// sub-day part because their length in microseconds is not fixed.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// String formats the interval, e.g. "1 month 2 days 03:00:00.5".
func (iv Interval) String() string {
	var parts []string
	if iv.Months != 0 {
		years, months := iv.Months/12, iv.Months%12
		if years != 0 {
			parts = append(parts, plural(int64(years), "year"))
		}
		if months != 0 {
			parts = append(parts, plural(int64(months), "month"))
		}
	}
	if iv.Days != 0 {
		parts = append(parts, plural(int64(iv.Days), "day"))
	}
	if iv.Micros != 0 || len(parts) == 0 {
		micros := iv.Micros
		sign := ""
		if micros < 0 {
			sign = "-"
			micros = -micros
		}
		hours := micros / microsPerHour
		clock := fmt.Sprintf("%s%02d:%02d:%02d", sign, hours,
			(micros%microsPerHour)/microsPerMinute, (micros%microsPerMinute)/microsPerSecond)
		if frac := micros % microsPerSecond; frac != 0 {
			clock += strings.TrimRight(fmt.Sprintf(".%06d", frac), "0")
		}
		parts = append(parts, clock)
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatBlob renders bytes the way the engine prints BLOB values: printable
// ASCII as is, everything else as \xNN.
func FormatBlob(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7f && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\x%02X", c)
	}
	return sb.String()
}
