package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semihalev/duckflat"
)

func sampleResult(t *testing.T) *duckflat.Result {
	t.Helper()
	src, err := duckflat.NewMaterialized(
		[]string{"id", "name"},
		[]duckflat.LogicalType{duckflat.LogicalInteger, duckflat.LogicalVarchar},
		0,
	)
	require.NoError(t, err)
	require.NoError(t, src.AppendRow(int32(1), "alice"))
	require.NoError(t, src.AppendRow(int32(2), nil))
	defer src.Close()

	res := &duckflat.Result{}
	require.NoError(t, duckflat.Marshal(src, res))
	t.Cleanup(res.Destroy)
	return res
}

func TestCells(t *testing.T) {
	res := sampleResult(t)
	assert.Equal(t, [][]string{{"1", "alice"}, {"2", "NULL"}}, Cells(res))
}

func TestText(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res))

	out := buf.String()
	for _, want := range []string{"id", "name", "alice", "NULL", "2 rows, 2 columns"} {
		assert.Contains(t, out, want)
	}
}

func TestTextNoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, &duckflat.Result{}))
	assert.Equal(t, "OK", strings.TrimSpace(buf.String()))
}

func TestSummarySingular(t *testing.T) {
	src, err := duckflat.NewMaterialized([]string{"x"}, []duckflat.LogicalType{duckflat.LogicalBigint}, 0)
	require.NoError(t, err)
	require.NoError(t, src.AppendRow(int64(1)))
	defer src.Close()

	var res duckflat.Result
	require.NoError(t, duckflat.Marshal(src, &res))
	defer res.Destroy()

	assert.True(t, strings.HasPrefix(Summary(&res), "1 row, 1 columns"))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", MaxCellWidth+10)
	got := truncate(long)
	assert.Equal(t, MaxCellWidth, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "short", truncate("short"))
}

func TestHTML(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "<th>id: INTEGER</th>")
	assert.Contains(t, out, "<th>name: VARCHAR</th>")
	assert.Contains(t, out, "<td>alice</td>")
	assert.Contains(t, out, "<td>NULL</td>")
}

func TestHTMLEscapes(t *testing.T) {
	src, err := duckflat.NewMaterialized([]string{"markup"}, []duckflat.LogicalType{duckflat.LogicalVarchar}, 0)
	require.NoError(t, err)
	require.NoError(t, src.AppendRow("<b>bold</b>"))
	defer src.Close()

	var res duckflat.Result
	require.NoError(t, duckflat.Marshal(src, &res))
	defer res.Destroy()

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, &res))
	assert.Contains(t, buf.String(), "&lt;b&gt;bold&lt;/b&gt;")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	Error(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "Error: boom")

	buf.Reset()
	Error(&buf, nil)
	assert.Empty(t, buf.String())
}
