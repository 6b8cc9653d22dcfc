package duckdb

import (
	"unsafe"

	"github.com/semihalev/duckflat"
)

// cBlob mirrors struct duckdb_blob.
type cBlob struct {
	data unsafe.Pointer
	size uint64
}

// vector reads rows offset.. of one materialized column array. The element
// type of the array follows the column's logical type: int32 days for DATE,
// int64 micros for TIME and TIMESTAMP, char* for VARCHAR and duckdb_blob for BLOB.
type vector struct {
	arrays *columnArrays
	offset int
}

func at[T any](p unsafe.Pointer, i int) T {
	var zero T
	return *(*T)(unsafe.Add(p, uintptr(i)*unsafe.Sizeof(zero)))
}

func (v *vector) IsValid(row int) bool {
	if v.arrays.nullmask == nil {
		return v.arrays.data != nil
	}
	return !at[bool](v.arrays.nullmask, v.offset+row)
}

func (v *vector) Bool(row int) bool       { return at[bool](v.arrays.data, v.offset+row) }
func (v *vector) Int8(row int) int8       { return at[int8](v.arrays.data, v.offset+row) }
func (v *vector) Int16(row int) int16     { return at[int16](v.arrays.data, v.offset+row) }
func (v *vector) Int32(row int) int32     { return at[int32](v.arrays.data, v.offset+row) }
func (v *vector) Int64(row int) int64     { return at[int64](v.arrays.data, v.offset+row) }
func (v *vector) Float32(row int) float32 { return at[float32](v.arrays.data, v.offset+row) }
func (v *vector) Float64(row int) float64 { return at[float64](v.arrays.data, v.offset+row) }
func (v *vector) Date(row int) int32      { return at[int32](v.arrays.data, v.offset+row) }
func (v *vector) Time(row int) int64      { return at[int64](v.arrays.data, v.offset+row) }
func (v *vector) Timestamp(row int) int64 { return at[int64](v.arrays.data, v.offset+row) }

func (v *vector) Interval(row int) duckflat.Interval {
	return at[duckflat.Interval](v.arrays.data, v.offset+row)
}

func (v *vector) Hugeint(row int) duckflat.Hugeint {
	return at[duckflat.Hugeint](v.arrays.data, v.offset+row)
}

func (v *vector) Varchar(row int) []byte {
	return cBytes(at[unsafe.Pointer](v.arrays.data, v.offset+row))
}

func (v *vector) Blob(row int) []byte {
	b := at[cBlob](v.arrays.data, v.offset+row)
	if b.data == nil || b.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.data), int(b.size))
}
