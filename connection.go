package duckflat

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Database is an open database of a registered engine.
type Database struct {
	engine   string
	handle   EngineDatabase
	settings settings
	closed   int32
	mu       sync.Mutex
}

// Open opens path with the engine registered under engine.
func Open(engine, path string, opts ...Option) (*Database, error) {
	e, err := LookupEngine(engine)
	if err != nil {
		return nil, err
	}
	return OpenEngine(engine, e, path, opts...)
}

// OpenEngine opens path with an engine that need not be registered. name is
// used in logs and metrics.
func OpenEngine(name string, engine Engine, path string, opts ...Option) (*Database, error) {
	if engine == nil {
		return nil, NewError(ErrEngine, "nil engine")
	}
	s := applyOptions(opts)

	handle, err := engine.Open(path)
	if err != nil {
		return nil, WrapError(ErrConnection, fmt.Sprintf("failed to open database %q", path), err)
	}

	db := &Database{
		engine:   name,
		handle:   handle,
		settings: s,
	}
	s.logger.Debug("database opened", "engine", name, "path", path)

	runtime.SetFinalizer(db, (*Database).Close)
	return db, nil
}

// Engine returns the engine name.
func (db *Database) Engine() string {
	return db.engine
}

// Version returns the engine library version, or "" if the engine cannot report it.
func (db *Database) Version() string {
	if db == nil || atomic.LoadInt32(&db.closed) != 0 {
		return ""
	}
	if v, ok := db.handle.(Versioner); ok {
		return v.Version()
	}
	return ""
}

// Connect opens a connection to the database.
func (db *Database) Connect() (*Connection, error) {
	if db == nil || atomic.LoadInt32(&db.closed) != 0 {
		return nil, NewError(ErrClosed, "database is closed")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	conn, err := db.handle.Connect()
	if err != nil {
		return nil, WrapError(ErrConnection, "failed to connect to database", err)
	}

	c := &Connection{
		db:   db,
		conn: conn,
	}
	runtime.SetFinalizer(c, (*Connection).Close)
	return c, nil
}

// Close closes the database. Closing a nil or already closed database is a no-op.
func (db *Database) Close() error {
	if db == nil || !atomic.CompareAndSwapInt32(&db.closed, 0, 1) {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	var err error
	if db.handle != nil {
		err = db.handle.Close()
		db.handle = nil
	}
	db.settings.logger.Debug("database closed", "engine", db.engine)

	runtime.SetFinalizer(db, nil)
	if err != nil {
		return WrapError(ErrConnection, "failed to close database", err)
	}
	return nil
}

// Connection is a connection to a Database. A connection runs one query at a
// time; concurrent Execute calls are serialized.
type Connection struct {
	db     *Database
	conn   EngineConn
	closed int32
	mu     sync.Mutex
}

// Execute runs query and marshals its result into out, which is destroyed
// first if it holds a previous result. When out is nil only the status is
// reported.
//
// A failed query leaves its message in out and returns an ErrQuery error.
// If marshaling fails for any other reason out is destroyed before returning.
func (c *Connection) Execute(query string, out *Result) error {
	if c == nil || atomic.LoadInt32(&c.closed) != 0 {
		return NewError(ErrClosed, "connection is closed")
	}
	if atomic.LoadInt32(&c.db.closed) != 0 {
		return NewError(ErrClosed, "database is closed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out.Destroy()

	s := c.db.settings
	queryID := uuid.NewString()
	start := time.Now()

	err := c.execute(query, out, s)

	stats := QueryStats{
		QueryID:  queryID,
		Engine:   c.db.engine,
		Rows:     out.RowCount(),
		Columns:  out.ColumnCount(),
		Bytes:    out.Size(),
		Duration: time.Since(start),
		Err:      err,
	}
	logQuery(s.logger, query, stats)
	if s.observer != nil {
		s.observer.ObserveQuery(stats)
	}
	return err
}

func (c *Connection) execute(query string, out *Result, s settings) error {
	src, err := c.conn.Query(query)
	if err != nil {
		return WrapError(ErrConnection, "query failed", err)
	}
	defer src.Close()

	if err := Marshal(src, out, WithAllocator(s.alloc)); err != nil {
		if !IsError(err, ErrQuery) {
			out.Destroy()
		}
		return err
	}
	return nil
}

func logQuery(logger *slog.Logger, query string, stats QueryStats) {
	attrs := []any{
		"query_id", stats.QueryID,
		"engine", stats.Engine,
		"rows", stats.Rows,
		"columns", stats.Columns,
		"bytes", stats.Bytes,
		"duration", stats.Duration,
	}
	if stats.Err != nil {
		if IsError(stats.Err, ErrQuery) {
			logger.Debug("query failed", append(attrs, "query", query, "error", stats.Err)...)
			return
		}
		logger.Warn("query failed", append(attrs, "query", query, "error", stats.Err)...)
		return
	}
	logger.Debug("query executed", attrs...)
}

// Close closes the connection. Closing a nil or already closed connection is a no-op.
func (c *Connection) Close() error {
	if c == nil || !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}

	runtime.SetFinalizer(c, nil)
	if err != nil {
		return WrapError(ErrConnection, "failed to close connection", err)
	}
	return nil
}
