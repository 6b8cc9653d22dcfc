package duckflat

import (
	"testing"
)

func marshalRows(t *testing.T, names []string, types []LogicalType, rows ...[]any) *Result {
	t.Helper()
	src := newSource(t, names, types, 0, rows...)
	defer src.Close()

	res := &Result{}
	if err := Marshal(src, res); err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return res
}

func TestAccessorBounds(t *testing.T) {
	res := marshalRows(t, []string{"i"}, []LogicalType{LogicalInteger}, []any{1}, []any{2})
	defer res.Destroy()

	cases := []struct{ col, row int }{
		{-1, 0}, {1, 0}, {0, -1}, {0, 2}, {100, 100},
	}
	for _, c := range cases {
		if v, ok := res.Int32(c.col, c.row); ok {
			t.Errorf("Int32(%d, %d): expected absent, got %d", c.col, c.row, v)
		}
		if v, ok := res.Value(c.col, c.row); ok {
			t.Errorf("Value(%d, %d): expected absent, got %v", c.col, c.row, v)
		}
		if !res.IsNull(c.col, c.row) {
			t.Errorf("IsNull(%d, %d): expected true outside the result", c.col, c.row)
		}
	}

	if res.Column(1) != nil || res.ColumnName(5) != "" || res.ColumnType(-1) != TypeInvalid {
		t.Error("Expected out-of-range column metadata to be empty")
	}
}

func TestAccessorTypeMismatch(t *testing.T) {
	res := marshalRows(t, []string{"i", "s"}, []LogicalType{LogicalInteger, LogicalVarchar}, []any{7, "seven"})
	defer res.Destroy()

	if _, ok := res.Int64(0, 0); ok {
		t.Error("Expected Int64 on an INTEGER column to be absent")
	}
	if _, ok := res.Double(0, 0); ok {
		t.Error("Expected Double on an INTEGER column to be absent")
	}
	if _, ok := res.Blob(1, 0); ok {
		t.Error("Expected Blob on a VARCHAR column to be absent")
	}
	if _, ok := res.Varchar(0, 0); ok {
		t.Error("Expected Varchar on an INTEGER column to be absent")
	}
	if v, ok := res.Int32(0, 0); !ok || v != 7 {
		t.Errorf("Expected (7, true), got (%d, %v)", v, ok)
	}
}

func TestAccessorFormat(t *testing.T) {
	res := marshalRows(t,
		[]string{"i", "f", "s", "b", "blob"},
		[]LogicalType{LogicalInteger, LogicalDouble, LogicalVarchar, LogicalBoolean, LogicalBlob},
		[]any{42, 1.5, "text", true, []byte("a\x01")},
		[]any{nil, nil, nil, nil, nil},
	)
	defer res.Destroy()

	want := []string{"42", "1.5", "text", "true", `a\x01`}
	for col, w := range want {
		if got := res.Format(col, 0); got != w {
			t.Errorf("Format(%d, 0): expected %q, got %q", col, w, got)
		}
		if got := res.Format(col, 1); got != "NULL" {
			t.Errorf("Format(%d, 1): expected NULL, got %q", col, got)
		}
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	var nilResult *Result
	nilResult.Destroy()

	var zero Result
	zero.Destroy()

	res := marshalRows(t, []string{"s"}, []LogicalType{LogicalVarchar}, []any{"x"})
	res.Destroy()
	res.Destroy()

	if res.ColumnCount() != 0 || res.RowCount() != 0 || res.Columns() != nil {
		t.Error("Expected a destroyed result to be empty")
	}
	if _, ok := res.Varchar(0, 0); ok {
		t.Error("Expected no value after Destroy")
	}
}

func TestEmptyStringAndBlob(t *testing.T) {
	res := marshalRows(t, []string{"s", "b"}, []LogicalType{LogicalVarchar, LogicalBlob}, []any{"", []byte{}})
	defer res.Destroy()

	if v, ok := res.Varchar(0, 0); !ok || v != "" {
		t.Errorf("Expected empty string, got (%q, %v)", v, ok)
	}
	if v, ok := res.Blob(1, 0); !ok || len(v) != 0 {
		t.Errorf("Expected empty blob, got (%v, %v)", v, ok)
	}
}
