package duckflat

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// slot returns the cell of (col, row) when it exists, has tag typ and is not NULL.
func (r *Result) slot(col, row int, typ Type) (*Column, []byte, bool) {
	c := r.Column(col)
	if c == nil || c.typ != typ {
		return nil, nil, false
	}
	if row < 0 || row >= r.rowCount || row >= len(c.nullmask) || c.nullmask[row] {
		return nil, nil, false
	}
	cell := c.cell(row)
	if cell == nil {
		return nil, nil, false
	}
	return c, cell, true
}

// IsNull reports whether (col, row) holds no value. Cells outside the result
// are reported as NULL.
func (r *Result) IsNull(col, row int) bool {
	c := r.Column(col)
	if c == nil || row < 0 || row >= r.rowCount || row >= len(c.nullmask) {
		return true
	}
	return c.nullmask[row]
}

// Boolean returns the BOOLEAN value at (col, row).
func (r *Result) Boolean(col, row int) (bool, bool) {
	_, cell, ok := r.slot(col, row, TypeBoolean)
	if !ok {
		return false, false
	}
	return cell[0] != 0, true
}

// Int8 returns the TINYINT value at (col, row).
func (r *Result) Int8(col, row int) (int8, bool) {
	_, cell, ok := r.slot(col, row, TypeTinyint)
	if !ok {
		return 0, false
	}
	return int8(cell[0]), true
}

// Int16 returns the SMALLINT value at (col, row).
func (r *Result) Int16(col, row int) (int16, bool) {
	_, cell, ok := r.slot(col, row, TypeSmallint)
	if !ok {
		return 0, false
	}
	return int16(binary.LittleEndian.Uint16(cell)), true
}

// Int32 returns the INTEGER value at (col, row).
func (r *Result) Int32(col, row int) (int32, bool) {
	_, cell, ok := r.slot(col, row, TypeInteger)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(cell)), true
}

// Int64 returns the BIGINT value at (col, row).
func (r *Result) Int64(col, row int) (int64, bool) {
	_, cell, ok := r.slot(col, row, TypeBigint)
	if !ok {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(cell)), true
}

// Hugeint returns the HUGEINT value at (col, row).
func (r *Result) Hugeint(col, row int) (Hugeint, bool) {
	_, cell, ok := r.slot(col, row, TypeHugeint)
	if !ok {
		return Hugeint{}, false
	}
	return getHugeint(cell), true
}

// Float returns the FLOAT value at (col, row).
func (r *Result) Float(col, row int) (float32, bool) {
	_, cell, ok := r.slot(col, row, TypeFloat)
	if !ok {
		return 0, false
	}
	return getFloat32(cell), true
}

// Double returns the DOUBLE value at (col, row).
func (r *Result) Double(col, row int) (float64, bool) {
	_, cell, ok := r.slot(col, row, TypeDouble)
	if !ok {
		return 0, false
	}
	return getFloat64(cell), true
}

// Date returns the DATE value at (col, row).
func (r *Result) Date(col, row int) (Date, bool) {
	_, cell, ok := r.slot(col, row, TypeDate)
	if !ok {
		return Date{}, false
	}
	return getDate(cell), true
}

// Time returns the TIME value at (col, row).
func (r *Result) Time(col, row int) (Time, bool) {
	_, cell, ok := r.slot(col, row, TypeTime)
	if !ok {
		return Time{}, false
	}
	return getTime(cell), true
}

// Timestamp returns the TIMESTAMP value at (col, row).
func (r *Result) Timestamp(col, row int) (Timestamp, bool) {
	_, cell, ok := r.slot(col, row, TypeTimestamp)
	if !ok {
		return Timestamp{}, false
	}
	return getTimestamp(cell), true
}

// Interval returns the INTERVAL value at (col, row).
func (r *Result) Interval(col, row int) (Interval, bool) {
	_, cell, ok := r.slot(col, row, TypeInterval)
	if !ok {
		return Interval{}, false
	}
	return getInterval(cell), true
}

// Varchar returns the VARCHAR value at (col, row).
func (r *Result) Varchar(col, row int) (string, bool) {
	b, ok := r.varcharBytes(col, row)
	if !ok {
		return "", false
	}
	return string(b), true
}

// varcharBytes returns the string bytes of (col, row) inside the column arena,
// without the terminator.
func (r *Result) varcharBytes(col, row int) ([]byte, bool) {
	c, cell, ok := r.slot(col, row, TypeVarchar)
	if !ok {
		return nil, false
	}
	off, ok := getStringRef(cell)
	if !ok || off >= len(c.heap) {
		return nil, false
	}
	end := off
	for end < len(c.heap) && c.heap[end] != 0 {
		end++
	}
	return c.heap[off:end], true
}

// Blob returns a copy of the BLOB value at (col, row).
func (r *Result) Blob(col, row int) ([]byte, bool) {
	b, ok := r.blobBytes(col, row)
	if !ok {
		return nil, false
	}
	return append(make([]byte, 0, len(b)), b...), true
}

func (r *Result) blobBytes(col, row int) ([]byte, bool) {
	c, cell, ok := r.slot(col, row, TypeBlob)
	if !ok {
		return nil, false
	}
	off, size, ok := getBlobRef(cell)
	if !ok || off+size > len(c.heap) {
		return nil, false
	}
	return c.heap[off : off+size], true
}

// Value returns the cell at (col, row) as a Go value of the type matching the
// column tag: bool, int8, int16, int32, int64, Hugeint, float32, float64,
// Date, Time, Timestamp, Interval, string or []byte.
func (r *Result) Value(col, row int) (any, bool) {
	switch r.ColumnType(col) {
	case TypeBoolean:
		return unwrap(r.Boolean(col, row))
	case TypeTinyint:
		return unwrap(r.Int8(col, row))
	case TypeSmallint:
		return unwrap(r.Int16(col, row))
	case TypeInteger:
		return unwrap(r.Int32(col, row))
	case TypeBigint:
		return unwrap(r.Int64(col, row))
	case TypeHugeint:
		return unwrap(r.Hugeint(col, row))
	case TypeFloat:
		return unwrap(r.Float(col, row))
	case TypeDouble:
		return unwrap(r.Double(col, row))
	case TypeDate:
		return unwrap(r.Date(col, row))
	case TypeTime:
		return unwrap(r.Time(col, row))
	case TypeTimestamp:
		return unwrap(r.Timestamp(col, row))
	case TypeInterval:
		return unwrap(r.Interval(col, row))
	case TypeVarchar:
		return unwrap(r.Varchar(col, row))
	case TypeBlob:
		return unwrap(r.Blob(col, row))
	default:
		return nil, false
	}
}

func unwrap[T any](v T, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

// Format renders the cell at (col, row) as text. Absent cells render as NULL.
func (r *Result) Format(col, row int) string {
	v, ok := r.Value(col, row)
	if !ok {
		return "NULL"
	}
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case []byte:
		return FormatBlob(x)
	default:
		return fmt.Sprint(x)
	}
}
