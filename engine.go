package duckflat

import (
	"fmt"
	"sort"
	"sync"
)

// Engine opens databases of one embedded database implementation.
type Engine interface {
	// Open opens the database at path. An empty path or ":memory:" opens a
	// private in-memory database.
	Open(path string) (EngineDatabase, error)
}

// EngineDatabase is an open engine database handle.
type EngineDatabase interface {
	Connect() (EngineConn, error)
	Close() error
}

// EngineConn is an engine connection. Query blocks until the statement has
// completed. Query failures are reported through a failed Source; the error
// return is reserved for problems with the connection itself.
type EngineConn interface {
	Query(query string) (Source, error)
	Close() error
}

// Versioner is implemented by engine databases that can report the version
// of the underlying library.
type Versioner interface {
	Version() string
}

var (
	enginesMu sync.RWMutex
	engines   = make(map[string]Engine)
)

// Register makes an engine available by name. It panics if Register is called
// twice with the same name or with a nil engine.
func Register(name string, engine Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	if engine == nil {
		panic("duckflat: Register engine is nil")
	}
	if _, dup := engines[name]; dup {
		panic("duckflat: Register called twice for engine " + name)
	}
	engines[name] = engine
}

// Engines returns a sorted list of the names of the registered engines.
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupEngine returns the engine registered under name.
func LookupEngine(name string) (Engine, error) {
	enginesMu.RLock()
	engine, ok := engines[name]
	enginesMu.RUnlock()
	if !ok {
		return nil, NewError(ErrEngine, fmt.Sprintf("unknown engine %q (forgotten import?)", name))
	}
	return engine, nil
}
