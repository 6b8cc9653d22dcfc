package duckdb

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semihalev/duckflat"
)

func requireLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Load(os.Getenv(LibraryEnv))
	if err != nil {
		t.Skipf("DuckDB library not available: %v", err)
	}
	return lib
}

func openConn(t *testing.T, engine *Engine) *duckflat.Connection {
	t.Helper()
	requireLibrary(t)

	db, err := duckflat.OpenEngine(Name, engine, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn, err := db.Connect()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestLibraryVersion(t *testing.T) {
	lib := requireLibrary(t)
	version := duckflat.ParseVersion(lib.Version())
	assert.True(t, version.AtLeast(0, 3, 0), "unexpected version %q", lib.Version())
}

func TestRoundtrip(t *testing.T) {
	conn := openConn(t, &Engine{})

	var res duckflat.Result
	defer res.Destroy()
	err := conn.Execute(`SELECT * FROM (VALUES (1, 'a', DATE '2024-01-01'), (NULL, 'b', NULL)) t(i, s, d)`, &res)
	require.NoError(t, err)

	require.Equal(t, 2, res.RowCount())
	require.Equal(t, 3, res.ColumnCount())
	assert.Equal(t, []bool{false, true}, res.Column(0).Nullmask())

	i, ok := res.Int32(0, 0)
	assert.True(t, ok)
	assert.Equal(t, int32(1), i)

	s, _ := res.Varchar(1, 1)
	assert.Equal(t, "b", s)

	d, ok := res.Date(2, 0)
	assert.True(t, ok)
	assert.Equal(t, duckflat.NewDate(2024, 1, 1), d)
	_, ok = res.Date(2, 1)
	assert.False(t, ok)
}

func TestTemporalAndWideTypes(t *testing.T) {
	conn := openConn(t, &Engine{})

	var res duckflat.Result
	defer res.Destroy()
	err := conn.Execute(`SELECT
		TIMESTAMP '1996-08-07 12:10:00' AS ts,
		TIME '12:10:00.5' AS tm,
		INTERVAL 3 DAY AS iv,
		170141183460469231731687303715884105727::HUGEINT AS h,
		'\x01\x02'::BLOB AS b,
		true AS flag,
		1.5::FLOAT AS f`, &res)
	require.NoError(t, err)

	ts, ok := res.Timestamp(0, 0)
	require.True(t, ok)
	assert.Equal(t, "1996-08-07T12:10:00.0", ts.String())

	tm, _ := res.Time(1, 0)
	assert.Equal(t, duckflat.NewTime(12, 10, 0, 500000), tm)

	iv, _ := res.Interval(2, 0)
	assert.Equal(t, duckflat.Interval{Days: 3}, iv)

	h, _ := res.Hugeint(3, 0)
	assert.Equal(t, "170141183460469231731687303715884105727", h.String())

	b, _ := res.Blob(4, 0)
	assert.Equal(t, []byte{1, 2}, b)

	flag, _ := res.Boolean(5, 0)
	assert.True(t, flag)

	f, _ := res.Float(6, 0)
	assert.Equal(t, float32(1.5), f)
}

func TestInvalidQuery(t *testing.T) {
	conn := openConn(t, &Engine{})

	var res duckflat.Result
	defer res.Destroy()
	err := conn.Execute("SELEC 1", &res)
	require.Error(t, err)
	assert.True(t, duckflat.IsError(err, duckflat.ErrQuery))
	assert.NotEmpty(t, res.ErrorMessage())
	assert.Equal(t, 0, res.ColumnCount())
}

func TestUnsupportedType(t *testing.T) {
	conn := openConn(t, &Engine{})

	var res duckflat.Result
	err := conn.Execute("SELECT 1.25::DECIMAL(10,2) AS price", &res)
	assert.True(t, duckflat.IsError(err, duckflat.ErrUnsupportedType))
	assert.Equal(t, 0, res.ColumnCount())
}

func TestChunkedRange(t *testing.T) {
	conn := openConn(t, &Engine{ChunkSize: 100})

	var res duckflat.Result
	defer res.Destroy()
	require.NoError(t, conn.Execute("SELECT range AS n, CASE WHEN range % 3 = 0 THEN NULL ELSE range::VARCHAR END AS s FROM range(1000)", &res))
	require.Equal(t, 1000, res.RowCount())

	for row := 0; row < 1000; row++ {
		n, ok := res.Int64(0, row)
		require.True(t, ok)
		require.Equal(t, int64(row), n)
		_, ok = res.Varchar(1, row)
		require.Equal(t, row%3 != 0, ok, "row %d", row)
	}
}

func TestChunkBoundaries(t *testing.T) {
	s := &resultSource{rows: 250, chunkSize: 100}
	assert.Equal(t, 3, s.ChunkCount())
	assert.Equal(t, 100, s.Chunk(1).Size())
	assert.Equal(t, 50, s.Chunk(2).Size())

	empty := &resultSource{rows: 0, chunkSize: 100}
	assert.Equal(t, 0, empty.ChunkCount())
}

func TestSearchPathsEndWithBareName(t *testing.T) {
	paths := searchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, libraryName(), paths[len(paths)-1])
}
