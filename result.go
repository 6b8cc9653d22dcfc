package duckflat

// Column is one column of a flat Result.
type Column struct {
	typ      Type
	name     string
	nullmask []bool
	data     []byte
	// heap holds the out-of-line bytes of VARCHAR and BLOB cells.
	heap []byte
}

// Type returns the column's type tag.
func (c *Column) Type() Type { return c.typ }

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Nullmask returns the per-row null flags; true means the cell has no value.
// The slice belongs to the Result and must not be modified.
func (c *Column) Nullmask() []bool { return c.nullmask }

// Data returns the fixed-width cell buffer, RowCount()*Type().Size() bytes.
// The slice belongs to the Result and must not be modified.
func (c *Column) Data() []byte { return c.data }

// Heap returns the arena holding VARCHAR and BLOB bytes.
// The slice belongs to the Result and must not be modified.
func (c *Column) Heap() []byte { return c.heap }

// Allocated reports whether the column's data and null mask exist. They are
// allocated together, so a column is either fully allocated or not at all.
func (c *Column) Allocated() bool { return c.data != nil && c.nullmask != nil }

// cell returns the slot of row, or nil when the column was never allocated.
func (c *Column) cell(row int) []byte {
	size := c.typ.Size()
	off := row * size
	if off+size > len(c.data) {
		return nil
	}
	return c.data[off : off+size]
}

// Result is a query result marshaled into flat per-column buffers. A Result
// is either failed (ErrorMessage set, no columns) or successful with a fixed
// shape. Its contents never change until Destroy.
//
// The zero value is an empty, destroyed result and is ready to be passed to
// Marshal or Connection.Execute.
type Result struct {
	columnCount  int
	rowCount     int
	columns      []Column
	errorMessage string
	failed       bool
	alloc        Allocator
}

// ColumnCount returns the number of columns.
func (r *Result) ColumnCount() int {
	if r == nil {
		return 0
	}
	return r.columnCount
}

// RowCount returns the number of rows.
func (r *Result) RowCount() int {
	if r == nil {
		return 0
	}
	return r.rowCount
}

// Failed reports whether the result describes a failed query.
func (r *Result) Failed() bool {
	return r != nil && r.failed
}

// ErrorMessage returns the engine's error text of a failed query.
func (r *Result) ErrorMessage() string {
	if r == nil {
		return ""
	}
	return r.errorMessage
}

// Column returns column col, or nil if col is out of range.
func (r *Result) Column(col int) *Column {
	if r == nil || col < 0 || col >= len(r.columns) {
		return nil
	}
	return &r.columns[col]
}

// Columns returns all columns.
func (r *Result) Columns() []Column {
	if r == nil {
		return nil
	}
	return r.columns
}

// ColumnName returns the name of column col, or "" if col is out of range.
func (r *Result) ColumnName(col int) string {
	if c := r.Column(col); c != nil {
		return c.name
	}
	return ""
}

// ColumnType returns the tag of column col, or TypeInvalid if col is out of range.
func (r *Result) ColumnType(col int) Type {
	if c := r.Column(col); c != nil {
		return c.typ
	}
	return TypeInvalid
}

// ColumnNames returns the names of all columns.
func (r *Result) ColumnNames() []string {
	names := make([]string, r.ColumnCount())
	for i := range names {
		names[i] = r.columns[i].name
	}
	return names
}

// Size returns the number of bytes held by the result's buffers.
func (r *Result) Size() int {
	if r == nil {
		return 0
	}
	total := 0
	for i := range r.columns {
		c := &r.columns[i]
		total += len(c.data) + len(c.nullmask) + len(c.heap) + len(c.name)
	}
	return total + len(r.errorMessage)
}

// Destroy releases every buffer of the result back to its allocator and
// resets it to the zero value. Destroying a nil or already destroyed result
// is a no-op.
func (r *Result) Destroy() {
	if r == nil {
		return
	}
	alloc := r.alloc
	if alloc == nil {
		alloc = DefaultAllocator
	}
	for i := range r.columns {
		c := &r.columns[i]
		if c.data != nil {
			alloc.Release(c.data)
		}
		if c.heap != nil {
			alloc.Release(c.heap)
		}
		if c.nullmask != nil {
			alloc.ReleaseBools(c.nullmask)
		}
	}
	*r = Result{}
}
