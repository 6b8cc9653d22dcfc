// Package duckdb provides a duckflat engine backed by the DuckDB shared
// library. The library is loaded at runtime through purego, so the package
// builds without cgo and without DuckDB headers.
//
// Results are read through the materialized result API (duckdb_column_data,
// duckdb_nullmask_data), which exposes every column as one dense C array.
// The engine presents those arrays to the marshaler as chunks of ChunkSize rows.
package duckdb

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/semihalev/duckflat"
)

// Name is the name the engine registers under.
const Name = "duckdb"

const duckdbError = 1

func init() {
	duckflat.Register(Name, &Engine{})
}

// Engine opens DuckDB databases.
type Engine struct {
	// LibraryPath is the shared library to load. Empty searches the default locations.
	LibraryPath string
	// ChunkSize is the number of rows per result chunk. Zero selects
	// duckflat.StandardVectorSize.
	ChunkSize int
}

// Open opens the database file at path; an empty path opens an in-memory database.
func (e *Engine) Open(path string) (duckflat.EngineDatabase, error) {
	lib, err := Load(e.LibraryPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = ":memory:"
	}

	var handle uintptr
	if lib.open(path, &handle) == duckdbError {
		if handle != 0 {
			lib.close(&handle)
		}
		return nil, fmt.Errorf("duckdb_open %q failed", path)
	}

	chunkSize := e.ChunkSize
	if chunkSize <= 0 {
		chunkSize = duckflat.StandardVectorSize
	}
	return &database{lib: lib, handle: handle, chunkSize: chunkSize}, nil
}

type database struct {
	lib       *Library
	handle    uintptr
	chunkSize int
	mu        sync.Mutex
}

func (d *database) Connect() (duckflat.EngineConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle == 0 {
		return nil, errors.New("database is closed")
	}
	var conn uintptr
	if d.lib.connect(d.handle, &conn) == duckdbError {
		return nil, errors.New("duckdb_connect failed")
	}
	return &connection{lib: d.lib, handle: conn, chunkSize: d.chunkSize}, nil
}

func (d *database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handle != 0 {
		d.lib.close(&d.handle)
		d.handle = 0
	}
	return nil
}

// Version returns the DuckDB library version.
func (d *database) Version() string {
	return d.lib.Version()
}

type connection struct {
	lib       *Library
	handle    uintptr
	chunkSize int
}

func (c *connection) Query(query string) (duckflat.Source, error) {
	if c.handle == 0 {
		return nil, errors.New("connection is closed")
	}

	res := &cResult{}
	state := c.lib.query(c.handle, query, res)
	if state == duckdbError {
		msg := goString(c.lib.resultError(res))
		c.lib.destroyResult(res)
		if msg == "" {
			msg = "query failed"
		}
		return duckflat.FailedSource(msg), nil
	}
	return newResultSource(c.lib, res, c.chunkSize), nil
}

func (c *connection) Close() error {
	if c.handle != 0 {
		c.lib.disconnect(&c.handle)
		c.handle = 0
	}
	return nil
}

// resultSource exposes a materialized duckdb_result as chunks of chunkSize rows.
type resultSource struct {
	lib       *Library
	res       *cResult
	names     []string
	types     []duckflat.LogicalType
	columns   []columnArrays
	rows      int
	chunkSize int
	closed    bool
}

type columnArrays struct {
	typ      duckflat.LogicalType
	data     unsafe.Pointer
	nullmask unsafe.Pointer
}

func newResultSource(lib *Library, res *cResult, chunkSize int) *resultSource {
	cols := int(lib.columnCount(res))
	s := &resultSource{
		lib:       lib,
		res:       res,
		names:     make([]string, cols),
		types:     make([]duckflat.LogicalType, cols),
		columns:   make([]columnArrays, cols),
		rows:      int(lib.rowCount(res)),
		chunkSize: chunkSize,
	}
	for i := 0; i < cols; i++ {
		col := uint64(i)
		s.names[i] = goString(lib.columnName(res, col))
		s.types[i] = duckflat.LogicalType(lib.columnType(res, col))
		s.columns[i] = columnArrays{
			typ:      s.types[i],
			data:     lib.columnData(res, col),
			nullmask: lib.nullmaskData(res, col),
		}
	}
	return s
}

func (s *resultSource) Success() bool                       { return true }
func (s *resultSource) ErrorMessage() string                { return "" }
func (s *resultSource) ColumnTypes() []duckflat.LogicalType { return s.types }
func (s *resultSource) ColumnNames() []string               { return s.names }

func (s *resultSource) ChunkCount() int {
	return (s.rows + s.chunkSize - 1) / s.chunkSize
}

func (s *resultSource) Chunk(i int) duckflat.Chunk {
	start := i * s.chunkSize
	size := s.rows - start
	if size > s.chunkSize {
		size = s.chunkSize
	}
	return &chunk{source: s, start: start, size: size}
}

func (s *resultSource) Close() error {
	if !s.closed {
		s.closed = true
		s.lib.destroyResult(s.res)
	}
	return nil
}

type chunk struct {
	source *resultSource
	start  int
	size   int
}

func (c *chunk) Size() int { return c.size }

func (c *chunk) Vector(col int) duckflat.Vector {
	return &vector{arrays: &c.source.columns[col], offset: c.start}
}
