package engines

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/internal/config"
)

func TestNewAllocator(t *testing.T) {
	budget, ok := NewAllocator(&config.Config{MaxResultBytes: 1024}).(*duckflat.BudgetAllocator)
	require.True(t, ok)
	assert.Equal(t, int64(1024), budget.Limit())

	_, ok = NewAllocator(&config.Config{}).(*duckflat.PoolAllocator)
	assert.True(t, ok)
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{Engine: "sqlite", Path: filepath.Join(t.TempDir(), "test.db"), ChunkSize: 3}

	db, err := Open(cfg, "")
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", db.Engine())

	conn, err := db.Connect()
	require.NoError(t, err)
	defer conn.Close()

	var res duckflat.Result
	defer res.Destroy()
	require.NoError(t, conn.Execute("WITH RECURSIVE n(i) AS (SELECT 1 UNION ALL SELECT i+1 FROM n WHERE i < 10) SELECT i FROM n", &res))
	assert.Equal(t, 10, res.RowCount())
}

func TestOpenByName(t *testing.T) {
	db, err := Open(&config.Config{Engine: "duckdb"}, "sqlite")
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", db.Engine())
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(&config.Config{Engine: "nope"}, "")
	assert.True(t, duckflat.IsError(err, duckflat.ErrEngine))
}

func TestBundledEnginesRegistered(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "sqlite"}, duckflat.Engines())
}
