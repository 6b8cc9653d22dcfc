package main

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semihalev/duckflat"
)

// Go mirrors of duckflat_result and duckflat_column.
type flatColumn struct {
	data     unsafe.Pointer
	nullmask *bool
	typ      int32
	name     *byte
}

type flatResult struct {
	columnCount  uint64
	rowCount     uint64
	columns      *flatColumn
	errorMessage *byte
}

func cstr(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func (r *flatResult) column(i int) flatColumn {
	return unsafe.Slice(r.columns, int(r.columnCount))[i]
}

func openTestConn(t *testing.T) uintptr {
	t.Helper()
	db, err := openDatabase("sqlite", "")
	require.NoError(t, err)
	t.Cleanup(func() { closeDatabase(db) })

	conn, err := connect(db)
	require.NoError(t, err)
	t.Cleanup(func() { disconnect(conn) })
	return conn
}

func query(t *testing.T, conn uintptr, sql string) (*flatResult, duckflat.State) {
	t.Helper()
	res := &flatResult{}
	st := runQuery(conn, sql, unsafe.Pointer(res))
	t.Cleanup(func() { destroyResult(unsafe.Pointer(res)) })
	return res, st
}

func TestQueryRoundtrip(t *testing.T) {
	conn := openTestConn(t)
	_, st := query(t, conn, "CREATE TABLE t (i INTEGER, s VARCHAR, d DATE)")
	require.Equal(t, duckflat.StateSuccess, st)
	_, st = query(t, conn, "INSERT INTO t VALUES (1, 'a', '2024-01-01'), (NULL, 'b', NULL)")
	require.Equal(t, duckflat.StateSuccess, st)

	res, st := query(t, conn, "SELECT i, s, d FROM t ORDER BY s")
	require.Equal(t, duckflat.StateSuccess, st)
	require.Equal(t, uint64(3), res.columnCount)
	require.Equal(t, uint64(2), res.rowCount)
	assert.Nil(t, res.errorMessage)

	i := res.column(0)
	assert.Equal(t, "i", cstr(i.name))
	assert.Equal(t, int32(duckflat.TypeInteger), i.typ)
	assert.Equal(t, []bool{false, true}, unsafe.Slice(i.nullmask, 2))

	p := unsafe.Pointer(res)
	v := (*int32)(valuePointer(p, 0, 0, duckflat.TypeInteger))
	require.NotNil(t, v)
	assert.Equal(t, int32(1), *v)
	assert.Nil(t, valuePointer(p, 0, 1, duckflat.TypeInteger))

	assert.Equal(t, "a", cstr((*byte)(unsafe.Pointer(varcharPointer(p, 1, 0)))))
	assert.Equal(t, "b", cstr((*byte)(unsafe.Pointer(varcharPointer(p, 1, 1)))))

	date := (*struct {
		year       int32
		month, day int8
	})(valuePointer(p, 2, 0, duckflat.TypeDate))
	require.NotNil(t, date)
	assert.Equal(t, int32(2024), date.year)
	assert.Equal(t, int8(1), date.month)
	assert.Equal(t, int8(1), date.day)
	assert.Nil(t, valuePointer(p, 2, 1, duckflat.TypeDate))
}

func TestValueBounds(t *testing.T) {
	conn := openTestConn(t)
	res, st := query(t, conn, "SELECT 1 AS n")
	require.Equal(t, duckflat.StateSuccess, st)

	p := unsafe.Pointer(res)
	assert.NotNil(t, valuePointer(p, 0, 0, duckflat.TypeBigint))
	assert.Nil(t, valuePointer(p, 1, 0, duckflat.TypeBigint))
	assert.Nil(t, valuePointer(p, 0, 1, duckflat.TypeBigint))
	assert.Nil(t, valuePointer(p, 0, 0, duckflat.TypeVarchar))
	assert.Nil(t, varcharPointer(p, 0, 0))
	assert.Nil(t, valuePointer(nil, 0, 0, duckflat.TypeBigint))
}

func TestBlobCells(t *testing.T) {
	conn := openTestConn(t)
	res, st := query(t, conn, "SELECT x'0102ff' AS b UNION ALL SELECT NULL")
	require.Equal(t, duckflat.StateSuccess, st)

	blob := (*struct {
		data unsafe.Pointer
		size uint64
	})(valuePointer(unsafe.Pointer(res), 0, 0, duckflat.TypeBlob))
	require.NotNil(t, blob)
	assert.Equal(t, []byte{1, 2, 0xff}, unsafe.Slice((*byte)(blob.data), int(blob.size)))

	assert.Nil(t, valuePointer(unsafe.Pointer(res), 0, 1, duckflat.TypeBlob))
}

func TestQueryError(t *testing.T) {
	conn := openTestConn(t)
	res, st := query(t, conn, "SELEC 1")
	assert.Equal(t, duckflat.StateError, st)
	assert.NotEmpty(t, cstr(res.errorMessage))
	assert.Zero(t, res.columnCount)
	assert.Nil(t, res.columns)
}

func TestStatusOnly(t *testing.T) {
	conn := openTestConn(t)
	assert.Equal(t, duckflat.StateSuccess, runQuery(conn, "SELECT 1", nil))
	assert.Equal(t, duckflat.StateError, runQuery(conn, "SELEC 1", nil))
}

func TestDestroyTwice(t *testing.T) {
	conn := openTestConn(t)
	res := &flatResult{}
	require.Equal(t, duckflat.StateSuccess, runQuery(conn, "SELECT 'x' AS s", unsafe.Pointer(res)))

	destroyResult(unsafe.Pointer(res))
	assert.Equal(t, flatResult{}, *res)
	destroyResult(unsafe.Pointer(res))
	destroyResult(nil)
}

func TestInvalidHandles(t *testing.T) {
	res := &flatResult{}
	assert.Equal(t, duckflat.StateError, runQuery(0, "SELECT 1", unsafe.Pointer(res)))
	assert.Equal(t, "invalid handle", cstr(res.errorMessage))
	destroyResult(unsafe.Pointer(res))

	_, err := connect(0)
	assert.ErrorIs(t, err, errInvalidHandle)

	db, err := openDatabase("sqlite", "")
	require.NoError(t, err)
	closeDatabase(db)
	closeDatabase(db)
	_, err = connect(db)
	assert.ErrorIs(t, err, errInvalidHandle)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := openDatabase("nope", "")
	assert.True(t, duckflat.IsError(err, duckflat.ErrEngine))
}

func TestLibraryVersion(t *testing.T) {
	db, err := openDatabase("sqlite", "")
	require.NoError(t, err)
	defer closeDatabase(db)

	assert.NotEmpty(t, libraryVersion(db))
	assert.Empty(t, libraryVersion(0))
}

// failNthAlloc makes the nth C allocation from now on fail once.
func failNthAlloc(t *testing.T, n int) {
	t.Helper()
	orig := cCalloc
	calls := 0
	cCalloc = func(size int) unsafe.Pointer {
		calls++
		if calls == n {
			return nil
		}
		return orig(size)
	}
	t.Cleanup(func() { cCalloc = orig })
}

func TestQueryOutOfMemory(t *testing.T) {
	conn := openTestConn(t)
	const sql = "SELECT 'a' AS s, x'01' AS b"

	// columns, then name, nullmask, data and one cell for each column.
	for n := 1; n <= 9; n++ {
		failNthAlloc(t, n)

		res, st := query(t, conn, sql)
		assert.Equal(t, duckflat.StateError, st, "allocation %d", n)
		assert.Contains(t, cstr(res.errorMessage), "out of memory", "allocation %d", n)
		assert.Zero(t, res.columnCount, "allocation %d", n)
		assert.Nil(t, res.columns, "allocation %d", n)
	}

	failNthAlloc(t, 10)
	res, st := query(t, conn, sql)
	require.Equal(t, duckflat.StateSuccess, st)
	assert.Equal(t, "a", cstr((*byte)(unsafe.Pointer(varcharPointer(unsafe.Pointer(res), 0, 0)))))
}

func TestExportResultLimit(t *testing.T) {
	src, err := duckflat.NewMaterialized([]string{"s"}, []duckflat.LogicalType{duckflat.LogicalVarchar}, 0)
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, src.AppendRow("a fairly long string value"))

	var res duckflat.Result
	require.NoError(t, duckflat.Marshal(src, &res))
	defer res.Destroy()

	out := &flatResult{}
	err = exportResult(&res, unsafe.Pointer(out), 16)
	assert.True(t, duckflat.IsError(err, duckflat.ErrAlloc))
	assert.Equal(t, flatResult{}, *out)

	require.NoError(t, exportResult(&res, unsafe.Pointer(out), 0))
	defer destroyResult(unsafe.Pointer(out))
	assert.Equal(t, uint64(1), out.rowCount)
}

func TestOpenDefaultEngine(t *testing.T) {
	cfg, _, err := setup()
	require.NoError(t, err)

	h, err := openDatabase("", "")
	require.NoError(t, err)
	defer closeDatabase(h)

	db, err := lookup[*duckflat.Database](h)
	require.NoError(t, err)
	assert.Equal(t, cfg.Engine, db.Engine())
}
