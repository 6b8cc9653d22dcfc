package duckflat

import (
	"fmt"
)

// DataChunk is an in-memory Chunk: one ColumnVector per column, all of equal length.
type DataChunk struct {
	vectors []*ColumnVector
}

// Size returns the number of rows in the chunk.
func (c *DataChunk) Size() int {
	if len(c.vectors) == 0 {
		return 0
	}
	return c.vectors[0].Len()
}

// Vector returns the vector of column col.
func (c *DataChunk) Vector(col int) Vector {
	return c.vectors[col]
}

// Column returns the concrete vector of column col.
func (c *DataChunk) Column(col int) *ColumnVector {
	return c.vectors[col]
}

// Materialized is an in-memory Source built row by row. Rows are cut into
// chunks of at most chunkSize rows, the way an engine emits them.
type Materialized struct {
	names     []string
	types     []LogicalType
	chunkSize int
	chunks    []*DataChunk

	failed  bool
	message string
	closed  bool
}

// NewMaterialized creates an empty successful source with the given schema.
// A chunkSize <= 0 selects StandardVectorSize.
func NewMaterialized(names []string, types []LogicalType, chunkSize int) (*Materialized, error) {
	if len(names) != len(types) {
		return nil, fmt.Errorf("schema mismatch: %d names, %d types", len(names), len(types))
	}
	if chunkSize <= 0 {
		chunkSize = StandardVectorSize
	}
	return &Materialized{
		names:     append([]string(nil), names...),
		types:     append([]LogicalType(nil), types...),
		chunkSize: chunkSize,
	}, nil
}

// FailedSource returns a source describing a failed query.
func FailedSource(message string) *Materialized {
	return &Materialized{failed: true, message: message, chunkSize: StandardVectorSize}
}

// AppendRow appends one row. values must hold one entry per column; nil is NULL.
// A row that fails conversion leaves the source unchanged.
func (m *Materialized) AppendRow(values ...any) error {
	if m.failed {
		return fmt.Errorf("cannot append to a failed result")
	}
	if len(m.types) == 0 {
		return fmt.Errorf("cannot append rows to a result without columns")
	}
	if len(values) != len(m.types) {
		return fmt.Errorf("row has %d values, result has %d columns", len(values), len(m.types))
	}

	chunk := m.tail()
	row := chunk.Size()
	for col, value := range values {
		if err := chunk.vectors[col].Append(value); err != nil {
			for i := 0; i < col; i++ {
				chunk.vectors[i].truncate(row)
			}
			if row == 0 {
				m.dropTail()
			}
			return fmt.Errorf("column %q: %w", m.names[col], err)
		}
	}
	return nil
}

// tail returns the chunk to append to, starting a new one when the last is full.
func (m *Materialized) tail() *DataChunk {
	if n := len(m.chunks); n > 0 && m.chunks[n-1].Size() < m.chunkSize {
		return m.chunks[n-1]
	}
	chunk := &DataChunk{vectors: make([]*ColumnVector, len(m.types))}
	for i, typ := range m.types {
		chunk.vectors[i] = columnVectorPool.Get(typ, m.chunkSize)
	}
	m.chunks = append(m.chunks, chunk)
	return chunk
}

func (m *Materialized) dropTail() {
	last := m.chunks[len(m.chunks)-1]
	for _, v := range last.vectors {
		columnVectorPool.Put(v)
	}
	m.chunks = m.chunks[:len(m.chunks)-1]
}

// Fail turns the source into a failed result with the given message,
// discarding any rows appended so far.
func (m *Materialized) Fail(message string) {
	m.release()
	m.failed = true
	m.message = message
	m.names = nil
	m.types = nil
}

// Success reports whether the query completed.
func (m *Materialized) Success() bool { return !m.failed }

// ErrorMessage returns the failure text.
func (m *Materialized) ErrorMessage() string { return m.message }

// ColumnTypes returns the logical type of every column.
func (m *Materialized) ColumnTypes() []LogicalType { return m.types }

// ColumnNames returns the name of every column.
func (m *Materialized) ColumnNames() []string { return m.names }

// ChunkCount returns the number of chunks.
func (m *Materialized) ChunkCount() int { return len(m.chunks) }

// Chunk returns chunk i.
func (m *Materialized) Chunk(i int) Chunk { return m.chunks[i] }

// DataChunk returns the concrete chunk i.
func (m *Materialized) DataChunk(i int) *DataChunk { return m.chunks[i] }

// ChunkSize returns the maximum number of rows per chunk.
func (m *Materialized) ChunkSize() int { return m.chunkSize }

// Close returns the vectors to the shared pool. It is safe to call more than once.
func (m *Materialized) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.release()
	return nil
}

func (m *Materialized) release() {
	for _, chunk := range m.chunks {
		for _, v := range chunk.vectors {
			columnVectorPool.Put(v)
		}
	}
	m.chunks = nil
}
