package duckdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// LibraryEnv names the environment variable that points at the DuckDB shared library.
const LibraryEnv = "DUCKFLAT_DUCKDB_LIBRARY"

// cResult mirrors struct duckdb_result.
type cResult struct {
	columnCount  uint64
	rowCount     uint64
	rowsChanged  uint64
	columns      uintptr
	errorMessage uintptr
	internalData uintptr
}

// Library is a loaded DuckDB shared library with its C API bound.
type Library struct {
	path   string
	handle uintptr

	open           func(path string, out *uintptr) int32
	close          func(db *uintptr)
	connect        func(db uintptr, out *uintptr) int32
	disconnect     func(conn *uintptr)
	query          func(conn uintptr, query string, out *cResult) int32
	destroyResult  func(res *cResult)
	resultError    func(res *cResult) uintptr
	columnCount    func(res *cResult) uint64
	rowCount       func(res *cResult) uint64
	columnName     func(res *cResult, col uint64) uintptr
	columnType     func(res *cResult, col uint64) int32
	columnData     func(res *cResult, col uint64) unsafe.Pointer
	nullmaskData   func(res *cResult, col uint64) unsafe.Pointer
	libraryVersion func() uintptr
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Version returns the version reported by the library.
func (l *Library) Version() string {
	return goString(l.libraryVersion())
}

var (
	librariesMu sync.Mutex
	libraries   = make(map[string]*Library)
)

// Load loads the DuckDB shared library. An empty path searches the usual
// locations: the LibraryEnv variable, the working directory, the executable's
// directory, lib/<os>/<arch> below either, and finally the system loader path.
// Libraries are loaded once per path and never unloaded.
func Load(path string) (*Library, error) {
	librariesMu.Lock()
	defer librariesMu.Unlock()

	if lib, ok := libraries[path]; ok {
		return lib, nil
	}

	var candidates []string
	if path != "" {
		candidates = []string{path}
	} else {
		candidates = searchPaths()
	}

	var errs []error
	for _, candidate := range candidates {
		handle, err := loadDynamicLibrary(candidate)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lib := &Library{path: candidate, handle: handle}
		if err := lib.bind(); err != nil {
			closeLibrary(handle)
			return nil, fmt.Errorf("bind %s: %w", candidate, err)
		}
		libraries[path] = lib
		return lib, nil
	}
	return nil, fmt.Errorf("duckdb library not found (set %s): %w", LibraryEnv, errors.Join(errs...))
}

func libraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "duckdb.dll"
	case "darwin":
		return "libduckdb.dylib"
	default:
		return "libduckdb.so"
	}
}

func searchPaths() []string {
	name := libraryName()
	osArch := filepath.Join("lib", runtime.GOOS, runtime.GOARCH, name)

	var paths []string
	if env := os.Getenv(LibraryEnv); env != "" {
		paths = append(paths, env)
	}
	paths = append(paths, filepath.Join(".", name), filepath.Join(".", osArch))
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths, filepath.Join(dir, name), filepath.Join(dir, osArch))
	}

	var found []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	// Bare name: let the system loader search its own path.
	return append(found, name)
}

// bind resolves every C function the engine uses.
func (l *Library) bind() (err error) {
	defer func() {
		// RegisterLibFunc panics on a missing symbol.
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	purego.RegisterLibFunc(&l.open, l.handle, "duckdb_open")
	purego.RegisterLibFunc(&l.close, l.handle, "duckdb_close")
	purego.RegisterLibFunc(&l.connect, l.handle, "duckdb_connect")
	purego.RegisterLibFunc(&l.disconnect, l.handle, "duckdb_disconnect")
	purego.RegisterLibFunc(&l.query, l.handle, "duckdb_query")
	purego.RegisterLibFunc(&l.destroyResult, l.handle, "duckdb_destroy_result")
	purego.RegisterLibFunc(&l.resultError, l.handle, "duckdb_result_error")
	purego.RegisterLibFunc(&l.columnCount, l.handle, "duckdb_column_count")
	purego.RegisterLibFunc(&l.rowCount, l.handle, "duckdb_row_count")
	purego.RegisterLibFunc(&l.columnName, l.handle, "duckdb_column_name")
	purego.RegisterLibFunc(&l.columnType, l.handle, "duckdb_column_type")
	purego.RegisterLibFunc(&l.columnData, l.handle, "duckdb_column_data")
	purego.RegisterLibFunc(&l.nullmaskData, l.handle, "duckdb_nullmask_data")
	purego.RegisterLibFunc(&l.libraryVersion, l.handle, "duckdb_library_version")
	return nil
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return string(cBytes(unsafe.Pointer(p)))
}

// cBytes returns the bytes of a NUL-terminated C string without copying.
func cBytes(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return unsafe.Slice((*byte)(p), n)
}
