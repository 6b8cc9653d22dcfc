package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semihalev/duckflat"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "query_error", Status(duckflat.NewError(duckflat.ErrQuery, "syntax")))
	assert.Equal(t, "unsupported_type", Status(duckflat.NewError(duckflat.ErrUnsupportedType, "decimal")))
	assert.Equal(t, "alloc_error", Status(duckflat.WrapError(duckflat.ErrAlloc, "oom", errors.New("budget"))))
	assert.Equal(t, "error", Status(errors.New("plain")))
}

func TestObserveQuery(t *testing.T) {
	c := New()

	c.ObserveQuery(duckflat.QueryStats{Engine: "sqlite", Rows: 3, Columns: 2, Bytes: 1024, Duration: time.Millisecond})
	c.ObserveQuery(duckflat.QueryStats{Engine: "sqlite", Rows: 2, Bytes: 10, Duration: time.Millisecond})
	c.ObserveQuery(duckflat.QueryStats{Engine: "sqlite", Err: duckflat.NewError(duckflat.ErrQuery, "syntax")})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.QueriesTotal.WithLabelValues("sqlite", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.QueriesTotal.WithLabelValues("sqlite", "query_error")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.RowsTotal.WithLabelValues("sqlite")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.QueryDuration))
}

func TestObserveUnknownEngine(t *testing.T) {
	c := New()
	c.ObserveQuery(duckflat.QueryStats{Rows: 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.QueriesTotal.WithLabelValues("unknown", "success")))
}

func TestHandler(t *testing.T) {
	c := New()
	c.ObserveQuery(duckflat.QueryStats{Engine: "duckdb", Rows: 7})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `duckflat_queries_total{engine="duckdb",status="success"} 1`)
	assert.Contains(t, string(body), `duckflat_result_rows_total{engine="duckdb"} 7`)
}
