package main

/*
#include <stdlib.h>
#define DUCKFLAT_NO_PROTOTYPES
#include "duckflat.h"
*/
import "C"

import (
	"unsafe"

	"github.com/semihalev/duckflat"
)

func state(s duckflat.State) C.duckflat_state {
	return C.duckflat_state(s)
}

// duckflat_open opens path with the configured engine, sqlite by default.
//
//export duckflat_open
func duckflat_open(path *C.char, out *C.duckflat_database) C.duckflat_state {
	return duckflat_open_engine(nil, path, out)
}

//export duckflat_open_engine
func duckflat_open_engine(engine, path *C.char, out *C.duckflat_database) C.duckflat_state {
	if out == nil {
		return state(duckflat.StateError)
	}
	*out = 0

	h, err := openDatabase(goString(engine), goString(path))
	if err != nil {
		libraryLogger().Warn("open failed", "engine", goString(engine), "path", goString(path), "error", err)
		return state(duckflat.StateError)
	}
	*out = C.duckflat_database(h)
	return state(duckflat.StateSuccess)
}

//export duckflat_close
func duckflat_close(db *C.duckflat_database) {
	if db == nil {
		return
	}
	closeDatabase(uintptr(*db))
	*db = 0
}

//export duckflat_connect
func duckflat_connect(db C.duckflat_database, out *C.duckflat_connection) C.duckflat_state {
	if out == nil {
		return state(duckflat.StateError)
	}
	*out = 0

	h, err := connect(uintptr(db))
	if err != nil {
		libraryLogger().Warn("connect failed", "error", err)
		return state(duckflat.StateError)
	}
	*out = C.duckflat_connection(h)
	return state(duckflat.StateSuccess)
}

//export duckflat_disconnect
func duckflat_disconnect(conn *C.duckflat_connection) {
	if conn == nil {
		return
	}
	disconnect(uintptr(*conn))
	*conn = 0
}

//export duckflat_query
func duckflat_query(conn C.duckflat_connection, query *C.char, out *C.duckflat_result) C.duckflat_state {
	return state(runQuery(uintptr(conn), goString(query), unsafe.Pointer(out)))
}

//export duckflat_destroy_result
func duckflat_destroy_result(r *C.duckflat_result) {
	destroyResult(unsafe.Pointer(r))
}

//export duckflat_value_boolean
func duckflat_value_boolean(r *C.duckflat_result, col, row C.uint64_t) *C.bool {
	return (*C.bool)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeBoolean))
}

//export duckflat_value_int8
func duckflat_value_int8(r *C.duckflat_result, col, row C.uint64_t) *C.int8_t {
	return (*C.int8_t)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeTinyint))
}

//export duckflat_value_int16
func duckflat_value_int16(r *C.duckflat_result, col, row C.uint64_t) *C.int16_t {
	return (*C.int16_t)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeSmallint))
}

//export duckflat_value_int32
func duckflat_value_int32(r *C.duckflat_result, col, row C.uint64_t) *C.int32_t {
	return (*C.int32_t)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeInteger))
}

//export duckflat_value_int64
func duckflat_value_int64(r *C.duckflat_result, col, row C.uint64_t) *C.int64_t {
	return (*C.int64_t)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeBigint))
}

//export duckflat_value_hugeint
func duckflat_value_hugeint(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_hugeint {
	return (*C.duckflat_hugeint)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeHugeint))
}

//export duckflat_value_float
func duckflat_value_float(r *C.duckflat_result, col, row C.uint64_t) *C.float {
	return (*C.float)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeFloat))
}

//export duckflat_value_double
func duckflat_value_double(r *C.duckflat_result, col, row C.uint64_t) *C.double {
	return (*C.double)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeDouble))
}

//export duckflat_value_date
func duckflat_value_date(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_date {
	return (*C.duckflat_date)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeDate))
}

//export duckflat_value_time
func duckflat_value_time(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_time {
	return (*C.duckflat_time)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeTime))
}

//export duckflat_value_timestamp
func duckflat_value_timestamp(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_timestamp {
	return (*C.duckflat_timestamp)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeTimestamp))
}

//export duckflat_value_interval
func duckflat_value_interval(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_interval {
	return (*C.duckflat_interval)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeInterval))
}

//export duckflat_value_varchar
func duckflat_value_varchar(r *C.duckflat_result, col, row C.uint64_t) *C.char {
	return varcharPointer(unsafe.Pointer(r), uint64(col), uint64(row))
}

//export duckflat_value_blob
func duckflat_value_blob(r *C.duckflat_result, col, row C.uint64_t) *C.duckflat_blob {
	return (*C.duckflat_blob)(valuePointer(unsafe.Pointer(r), uint64(col), uint64(row), duckflat.TypeBlob))
}

//export duckflat_library_version
func duckflat_library_version(db C.duckflat_database) *C.char {
	e := &exporter{}
	v, _ := e.cstring(libraryVersion(uintptr(db)))
	return v
}

//export duckflat_free
func duckflat_free(p unsafe.Pointer) {
	C.free(p)
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
