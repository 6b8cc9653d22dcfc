// Command libduckflat builds the C-linkage library:
//
//	go build -buildmode=c-shared -o libduckflat.so ./cmd/libduckflat
//
// Callers include duckflat.h. Databases and connections are opaque handles;
// results are plain C structs that the caller releases with
// duckflat_destroy_result. The library reads the same configuration file and
// DUCKFLAT_* environment variables as the duckflat command.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/internal/config"
	"github.com/semihalev/duckflat/internal/engines"
	"github.com/semihalev/duckflat/internal/logger"
)

func main() {}

var library struct {
	once sync.Once
	cfg  *config.Config
	log  *slog.Logger
	err  error
}

func setup() (*config.Config, *slog.Logger, error) {
	library.once.Do(func() {
		cfg, err := config.Load("", nil)
		if err != nil {
			library.err = err
			library.log = logger.New(logger.Config{Level: "WARN", Output: os.Stderr})
			return
		}
		library.cfg = cfg
		library.log = logger.New(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: os.Stderr,
		})
	})
	return library.cfg, library.log, library.err
}

func libraryLogger() *slog.Logger {
	_, log, _ := setup()
	return log
}

var errInvalidHandle = errors.New("invalid handle")

func lookup[T any](h uintptr) (v T, err error) {
	if h == 0 {
		return v, errInvalidHandle
	}
	// Value panics on a handle that was already deleted.
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("%w: %d", errInvalidHandle, h)
		}
	}()
	v, ok := cgo.Handle(h).Value().(T)
	if !ok {
		return v, fmt.Errorf("%w: %d", errInvalidHandle, h)
	}
	return v, nil
}

func openDatabase(engine, path string) (uintptr, error) {
	cfg, log, err := setup()
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}

	c := *cfg
	c.Path = path
	db, err := engines.Open(&c, engine,
		duckflat.WithAllocator(engines.NewAllocator(&c)),
		duckflat.WithLogger(log),
	)
	if err != nil {
		return 0, err
	}
	return uintptr(cgo.NewHandle(db)), nil
}

func closeDatabase(h uintptr) {
	db, err := lookup[*duckflat.Database](h)
	if err != nil {
		return
	}
	if err := db.Close(); err != nil {
		libraryLogger().Warn("close failed", "error", err)
	}
	cgo.Handle(h).Delete()
}

func connect(h uintptr) (uintptr, error) {
	db, err := lookup[*duckflat.Database](h)
	if err != nil {
		return 0, err
	}
	conn, err := db.Connect()
	if err != nil {
		return 0, err
	}
	return uintptr(cgo.NewHandle(conn)), nil
}

func disconnect(h uintptr) {
	conn, err := lookup[*duckflat.Connection](h)
	if err != nil {
		return
	}
	conn.Close()
	cgo.Handle(h).Delete()
}

// runQuery executes query on the connection behind h and, when out is not
// nil, fills the duckflat_result it points to.
func runQuery(h uintptr, query string, out unsafe.Pointer) duckflat.State {
	conn, err := lookup[*duckflat.Connection](h)
	if err != nil {
		if out != nil {
			exportError(err, out)
		}
		return duckflat.StateError
	}
	if out == nil {
		return duckflat.StateOf(conn.Execute(query, nil))
	}

	var res duckflat.Result
	defer res.Destroy()

	err = conn.Execute(query, &res)
	if err != nil && !res.Failed() {
		exportError(err, out)
		return duckflat.StateError
	}
	if xerr := exportResult(&res, out, resultLimit()); xerr != nil {
		libraryLogger().Warn("copy result failed", "error", xerr)
		exportError(xerr, out)
		return duckflat.StateError
	}
	return duckflat.StateOf(err)
}

// resultLimit is the configured cap on the bytes copied for one result.
func resultLimit() int64 {
	cfg, _, _ := setup()
	if cfg == nil {
		return 0
	}
	return cfg.MaxResultBytes
}

func libraryVersion(h uintptr) string {
	db, err := lookup[*duckflat.Database](h)
	if err != nil {
		return ""
	}
	return db.Version()
}
