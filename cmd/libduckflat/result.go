package main

/*
#include <stdlib.h>
#define DUCKFLAT_NO_PROTOTYPES
#include "duckflat.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/semihalev/duckflat"
)

// The flat layout is little-endian; these fail to compile if a C struct
// drifts from the cell sizes the marshaler writes.
var (
	_ [unsafe.Sizeof(C.duckflat_date{}) - 8]struct{}
	_ [8 - unsafe.Sizeof(C.duckflat_date{})]struct{}
	_ [unsafe.Sizeof(C.duckflat_time{}) - 8]struct{}
	_ [8 - unsafe.Sizeof(C.duckflat_time{})]struct{}
	_ [unsafe.Sizeof(C.duckflat_timestamp{}) - 16]struct{}
	_ [16 - unsafe.Sizeof(C.duckflat_timestamp{})]struct{}
	_ [unsafe.Sizeof(C.duckflat_interval{}) - 16]struct{}
	_ [16 - unsafe.Sizeof(C.duckflat_interval{})]struct{}
	_ [unsafe.Sizeof(C.duckflat_hugeint{}) - 16]struct{}
	_ [16 - unsafe.Sizeof(C.duckflat_hugeint{})]struct{}
	_ [unsafe.Sizeof(C.duckflat_blob{}) - 16]struct{}
	_ [16 - unsafe.Sizeof(C.duckflat_blob{})]struct{}
)

// cCalloc returns n zeroed bytes of C memory, or nil when C memory runs out.
var cCalloc = func(n int) unsafe.Pointer {
	return C.calloc(C.size_t(n), 1)
}

// exporter copies results into C memory. With a positive limit it fails once
// the bytes copied for one result would exceed it.
type exporter struct {
	limit int64
	used  int64
}

// alloc returns n zeroed bytes of C memory. Zero-sized requests still return
// a unique pointer.
func (e *exporter) alloc(n int) (unsafe.Pointer, error) {
	if n < 1 {
		n = 1
	}
	if e.limit > 0 && e.used+int64(n) > e.limit {
		return nil, &duckflat.Error{
			Type:    duckflat.ErrAlloc,
			Message: fmt.Sprintf("result exceeds the %d byte limit", e.limit),
		}
	}
	p := cCalloc(n)
	if p == nil {
		return nil, duckflat.NewError(duckflat.ErrAlloc, fmt.Sprintf("out of memory allocating %d bytes", n))
	}
	e.used += int64(n)
	return p, nil
}

func (e *exporter) bytes(b []byte) (unsafe.Pointer, error) {
	p, err := e.alloc(len(b))
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(p), len(b)), b)
	return p, nil
}

// cstring copies s into C memory with a terminating NUL.
func (e *exporter) cstring(s string) (*C.char, error) {
	p, err := e.alloc(len(s) + 1)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	return (*C.char)(p), nil
}

// exportResult copies res into C memory owned by out. Fixed-width cells are
// copied verbatim; VARCHAR and BLOB cells get one allocation each. On error
// everything copied so far is freed and out is left zeroed.
func exportResult(res *duckflat.Result, p unsafe.Pointer, limit int64) error {
	out := (*C.duckflat_result)(p)
	*out = C.duckflat_result{}

	e := &exporter{limit: limit}
	if err := e.result(res, out); err != nil {
		destroyResult(p)
		return err
	}
	return nil
}

func (e *exporter) result(res *duckflat.Result, out *C.duckflat_result) error {
	if res.Failed() {
		msg, err := e.cstring(res.ErrorMessage())
		out.error_message = msg
		return err
	}

	cols, rows := res.ColumnCount(), res.RowCount()
	out.column_count = C.uint64_t(cols)
	out.row_count = C.uint64_t(rows)
	if cols == 0 {
		return nil
	}

	columns, err := e.alloc(cols * int(unsafe.Sizeof(C.duckflat_column{})))
	if err != nil {
		return err
	}
	out.columns = (*C.duckflat_column)(columns)
	dst := unsafe.Slice(out.columns, cols)
	for i := range dst {
		if err := e.column(res, i, rows, &dst[i]); err != nil {
			return err
		}
	}
	return nil
}

// column fills dst, storing every pointer as soon as it is allocated so that
// destroyResult can release a partly copied column.
func (e *exporter) column(res *duckflat.Result, i, rows int, dst *C.duckflat_column) error {
	col := res.Column(i)
	typ := col.Type()
	dst._type = C.duckflat_type(typ)

	name, err := e.cstring(col.Name())
	if err != nil {
		return err
	}
	dst.name = name

	nullmask, err := e.alloc(rows)
	if err != nil {
		return err
	}
	dst.nullmask = (*C.bool)(nullmask)
	copy(unsafe.Slice((*bool)(nullmask), rows), col.Nullmask())

	data, err := e.alloc(rows * typ.Size())
	if err != nil {
		return err
	}
	dst.data = data

	switch typ {
	case duckflat.TypeVarchar:
		slots := unsafe.Slice((**C.char)(data), rows)
		for row := range slots {
			if s, ok := res.Varchar(i, row); ok {
				if slots[row], err = e.cstring(s); err != nil {
					return err
				}
			}
		}
	case duckflat.TypeBlob:
		blobs := unsafe.Slice((*C.duckflat_blob)(data), rows)
		for row := range blobs {
			if b, ok := res.Blob(i, row); ok {
				if blobs[row].data, err = e.bytes(b); err != nil {
					return err
				}
				blobs[row].size = C.uint64_t(len(b))
			}
		}
	default:
		if rows > 0 {
			copy(unsafe.Slice((*byte)(data), rows*typ.Size()), col.Data())
		}
	}
	return nil
}

// exportError fills out with the text of an error that is not a query
// failure. The message is left NULL if it cannot be allocated.
func exportError(err error, p unsafe.Pointer) {
	out := (*C.duckflat_result)(p)
	*out = C.duckflat_result{}
	e := &exporter{}
	out.error_message, _ = e.cstring(err.Error())
}

// destroyResult frees everything exportResult allocated and zeroes the struct.
func destroyResult(p unsafe.Pointer) {
	if p == nil {
		return
	}
	r := (*C.duckflat_result)(p)

	if r.columns != nil {
		rows := int(r.row_count)
		for _, c := range unsafe.Slice(r.columns, int(r.column_count)) {
			if c.data != nil {
				switch duckflat.Type(c._type) {
				case duckflat.TypeVarchar:
					for _, s := range unsafe.Slice((**C.char)(c.data), rows) {
						C.free(unsafe.Pointer(s))
					}
				case duckflat.TypeBlob:
					for _, b := range unsafe.Slice((*C.duckflat_blob)(c.data), rows) {
						C.free(b.data)
					}
				}
				C.free(c.data)
			}
			C.free(unsafe.Pointer(c.nullmask))
			C.free(unsafe.Pointer(c.name))
		}
		C.free(unsafe.Pointer(r.columns))
	}
	C.free(unsafe.Pointer(r.error_message))
	*r = C.duckflat_result{}
}

// valuePointer returns the address of cell (col, row) if it is present and
// of type typ, and nil otherwise.
func valuePointer(p unsafe.Pointer, col, row uint64, typ duckflat.Type) unsafe.Pointer {
	if p == nil {
		return nil
	}
	r := (*C.duckflat_result)(p)
	if r.columns == nil || col >= uint64(r.column_count) || row >= uint64(r.row_count) {
		return nil
	}

	c := (*C.duckflat_column)(unsafe.Add(unsafe.Pointer(r.columns), uintptr(col)*unsafe.Sizeof(C.duckflat_column{})))
	if duckflat.Type(c._type) != typ || c.data == nil || c.nullmask == nil {
		return nil
	}
	if *(*bool)(unsafe.Add(unsafe.Pointer(c.nullmask), uintptr(row))) {
		return nil
	}
	return unsafe.Add(c.data, uintptr(row)*uintptr(typ.Size()))
}

func varcharPointer(p unsafe.Pointer, col, row uint64) *C.char {
	slot := valuePointer(p, col, row, duckflat.TypeVarchar)
	if slot == nil {
		return nil
	}
	return *(**C.char)(slot)
}
