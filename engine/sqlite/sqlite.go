// Package sqlite provides a duckflat engine backed by modernc.org/sqlite, a
// pure Go build of SQLite. It needs no shared library and no cgo, which makes
// it the engine of choice for tests and for platforms without libduckdb.
//
// SQLite is dynamically typed, so column types are derived from the declared
// column type when there is one and from the first non-NULL value otherwise.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/semihalev/duckflat"
)

// Name is the name the engine registers under.
const Name = "sqlite"

func init() {
	duckflat.Register(Name, &Engine{})
}

// Engine opens SQLite databases.
type Engine struct {
	// ChunkSize is the number of rows per result chunk. Zero selects
	// duckflat.StandardVectorSize.
	ChunkSize int
}

// Open opens the database file at path. An empty path or ":memory:" opens a
// private in-memory database that every connection of the returned handle shares.
func (e *Engine) Open(path string) (duckflat.EngineDatabase, error) {
	dsn := path
	if path == "" || path == ":memory:" {
		dsn = fmt.Sprintf("file:duckflat-%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	// A shared in-memory database lives as long as one connection to it is
	// open, so the handle pins one for its whole lifetime.
	keeper, err := db.Conn(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	if err := keeper.PingContext(context.Background()); err != nil {
		keeper.Close()
		db.Close()
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	return &database{db: db, keeper: keeper, chunkSize: e.ChunkSize}, nil
}

type database struct {
	db        *sql.DB
	keeper    *sql.Conn
	chunkSize int
	mu        sync.Mutex
}

func (d *database) Connect() (duckflat.EngineConn, error) {
	conn, err := d.db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &connection{conn: conn, chunkSize: d.chunkSize}, nil
}

func (d *database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	if d.keeper != nil {
		firstErr = d.keeper.Close()
		d.keeper = nil
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.db = nil
	}
	return firstErr
}

// Version returns the SQLite library version.
func (d *database) Version() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.keeper == nil {
		return ""
	}
	var version string
	if err := d.keeper.QueryRowContext(context.Background(), "SELECT sqlite_version()").Scan(&version); err != nil {
		return ""
	}
	return version
}

type connection struct {
	conn      *sql.Conn
	chunkSize int
}

// Query runs query and materializes all of its rows. SQL errors and values
// that do not fit the column type are reported as a failed source.
func (c *connection) Query(query string) (duckflat.Source, error) {
	rows, err := c.conn.QueryContext(context.Background(), query)
	if err != nil {
		return duckflat.FailedSource(err.Error()), nil
	}
	defer rows.Close()

	columns, err := rows.ColumnTypes()
	if err != nil {
		return duckflat.FailedSource(err.Error()), nil
	}

	var values [][]any
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return duckflat.FailedSource(err.Error()), nil
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return duckflat.FailedSource(err.Error()), nil
	}

	return buildSource(columns, values, c.chunkSize), nil
}

func (c *connection) Close() error {
	return c.conn.Close()
}

func buildSource(columns []*sql.ColumnType, values [][]any, chunkSize int) duckflat.Source {
	names := make([]string, len(columns))
	types := make([]duckflat.LogicalType, len(columns))
	for i, col := range columns {
		names[i] = col.Name()
		types[i] = columnType(col.DatabaseTypeName(), i, values)
	}

	src, err := duckflat.NewMaterialized(names, types, chunkSize)
	if err != nil {
		return duckflat.FailedSource(err.Error())
	}

	converted := make([]any, len(columns))
	for r, row := range values {
		for i, v := range row {
			cv, err := convert(types[i], v)
			if err != nil {
				src.Fail(fmt.Sprintf("Conversion Error: row %d column %q: %v", r, names[i], err))
				return src
			}
			converted[i] = cv
		}
		if err := src.AppendRow(converted...); err != nil {
			src.Fail(fmt.Sprintf("Conversion Error: row %d: %v", r, err))
			return src
		}
	}
	return src
}
