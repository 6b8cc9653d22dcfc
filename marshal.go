package duckflat

import (
	"encoding/binary"
	"fmt"
)

// Marshal copies src into out as flat per-column buffers. Anything out held
// before is destroyed first.
//
// If out is nil only the query status is reported: nil on success, an
// ErrQuery error on failure, and nothing is allocated. A failed query fills
// out with the engine's message and no columns and returns an ErrQuery error.
//
// Any other error (ErrUnsupportedType, ErrAlloc) aborts marshaling with out
// partially built. A partial result is consistent enough for Destroy and must
// be destroyed by the caller; none of its cells should be read.
func Marshal(src Source, out *Result, opts ...Option) error {
	if src == nil {
		return NewError(ErrGeneric, "nil source")
	}
	s := applyOptions(opts)

	out.Destroy()

	if !src.Success() {
		msg := src.ErrorMessage()
		if msg == "" {
			msg = "unknown error"
		}
		if out != nil {
			*out = Result{errorMessage: msg, failed: true, alloc: s.alloc}
		}
		return NewError(ErrQuery, msg)
	}
	if out == nil {
		return nil
	}

	types := src.ColumnTypes()
	names := src.ColumnNames()
	rows := SourceRows(src)

	*out = Result{
		columnCount: len(types),
		rowCount:    rows,
		columns:     make([]Column, len(types)),
		alloc:       s.alloc,
	}

	for col, logical := range types {
		c := &out.columns[col]
		if col < len(names) {
			c.name = names[col]
		}
		c.typ = TranslateType(logical)
		if !c.typ.Valid() {
			return &Error{
				Type:    ErrUnsupportedType,
				Message: fmt.Sprintf("column %d (%q) has unsupported type %s", col, c.name, logical),
			}
		}
		if err := allocateColumn(c, rows, s.alloc); err != nil {
			return err
		}
	}

	for col := range out.columns {
		if err := fillColumn(src, col, &out.columns[col], s.alloc); err != nil {
			return err
		}
	}
	return nil
}

// allocateColumn allocates the null mask and then the data buffer. Either both
// are set on return or neither is.
func allocateColumn(c *Column, rows int, alloc Allocator) error {
	nullmask, err := alloc.Bools(rows)
	if err != nil {
		return allocError(c, err)
	}
	data, err := alloc.Bytes(rows * c.typ.Size())
	if err != nil {
		alloc.ReleaseBools(nullmask)
		return allocError(c, err)
	}
	c.nullmask = nullmask
	c.data = data
	return nil
}

func allocError(c *Column, err error) error {
	return WrapError(ErrAlloc, fmt.Sprintf("column %q (%s)", c.name, c.typ), err)
}

// fillColumn walks every chunk of column col in order, writing one null mask
// entry per row and copying each non-null value into its slot.
func fillColumn(src Source, col int, c *Column, alloc Allocator) error {
	if c.typ.Variable() {
		if err := allocateHeap(src, col, c, alloc); err != nil {
			return err
		}
	}

	size := c.typ.Size()
	row := 0
	heapOff := 0
	for ci := 0; ci < src.ChunkCount(); ci++ {
		chunk := src.Chunk(ci)
		vec := chunk.Vector(col)
		n := chunk.Size()
		for i := 0; i < n; i, row = i+1, row+1 {
			if !vec.IsValid(i) {
				c.nullmask[row] = true
				continue
			}
			cell := c.data[row*size : (row+1)*size]
			switch c.typ {
			case TypeBoolean:
				if vec.Bool(i) {
					cell[0] = 1
				}
			case TypeTinyint:
				cell[0] = byte(vec.Int8(i))
			case TypeSmallint:
				binary.LittleEndian.PutUint16(cell, uint16(vec.Int16(i)))
			case TypeInteger:
				binary.LittleEndian.PutUint32(cell, uint32(vec.Int32(i)))
			case TypeBigint:
				binary.LittleEndian.PutUint64(cell, uint64(vec.Int64(i)))
			case TypeHugeint:
				putHugeint(cell, vec.Hugeint(i))
			case TypeFloat:
				putFloat32(cell, vec.Float32(i))
			case TypeDouble:
				putFloat64(cell, vec.Float64(i))
			case TypeDate:
				putDate(cell, DateFromDays(vec.Date(i)))
			case TypeTime:
				putTime(cell, TimeFromMicros(vec.Time(i)))
			case TypeTimestamp:
				putTimestamp(cell, TimestampFromMicros(vec.Timestamp(i)))
			case TypeInterval:
				putInterval(cell, vec.Interval(i))
			case TypeVarchar:
				s := vec.Varchar(i)
				copy(c.heap[heapOff:], s)
				c.heap[heapOff+len(s)] = 0
				putStringRef(cell, heapOff)
				heapOff += len(s) + 1
			case TypeBlob:
				b := vec.Blob(i)
				copy(c.heap[heapOff:], b)
				putBlobRef(cell, heapOff, len(b))
				heapOff += len(b)
			}
		}
	}
	return nil
}

// allocateHeap sizes and allocates the arena of a VARCHAR or BLOB column.
// Strings are stored with a NUL terminator.
func allocateHeap(src Source, col int, c *Column, alloc Allocator) error {
	total := 0
	for ci := 0; ci < src.ChunkCount(); ci++ {
		chunk := src.Chunk(ci)
		vec := chunk.Vector(col)
		for i := 0; i < chunk.Size(); i++ {
			if !vec.IsValid(i) {
				continue
			}
			if c.typ == TypeVarchar {
				total += len(vec.Varchar(i)) + 1
			} else {
				total += len(vec.Blob(i))
			}
		}
	}
	if total == 0 {
		return nil
	}
	heap, err := alloc.Bytes(total)
	if err != nil {
		return allocError(c, err)
	}
	c.heap = heap
	return nil
}
