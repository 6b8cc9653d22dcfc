package duckflat

// Source is an engine's query result: a success flag with an error message,
// or a column schema plus an ordered sequence of chunks. Sources are produced
// by engines and are not owned by this package; Marshal reads them and never
// retains any of their memory.
type Source interface {
	// Success reports whether the query completed.
	Success() bool
	// ErrorMessage is the engine's failure text. Only meaningful when Success is false.
	ErrorMessage() string
	// ColumnTypes returns one logical type per column.
	ColumnTypes() []LogicalType
	// ColumnNames returns one name per column.
	ColumnNames() []string
	// ChunkCount returns the number of chunks.
	ChunkCount() int
	// Chunk returns chunk i, 0 <= i < ChunkCount().
	Chunk(i int) Chunk
	// Close releases engine memory. Byte slices returned by vectors are invalid afterwards.
	Close() error
}

// Chunk is a horizontal slice of a result holding one Vector per column.
type Chunk interface {
	// Size returns the number of rows in the chunk.
	Size() int
	// Vector returns the vector of column col.
	Vector(col int) Vector
}

// Vector is one column of one chunk in the engine's internal representation.
// Each getter is only called for rows that are valid and for the getter
// matching the column's logical type.
type Vector interface {
	// IsValid reports whether row holds a value (false means NULL).
	IsValid(row int) bool

	Bool(row int) bool
	Int8(row int) int8
	Int16(row int) int16
	Int32(row int) int32
	Int64(row int) int64
	Hugeint(row int) Hugeint
	Float32(row int) float32
	Float64(row int) float64
	// Date returns days since 1970-01-01.
	Date(row int) int32
	// Time returns microseconds since midnight.
	Time(row int) int64
	// Timestamp returns microseconds since the Unix epoch.
	Timestamp(row int) int64
	Interval(row int) Interval
	// Varchar returns the string bytes, without a terminator. The slice is
	// engine-owned and must be copied.
	Varchar(row int) []byte
	// Blob returns the blob bytes. The slice is engine-owned and must be copied.
	Blob(row int) []byte
}

// SourceRows returns the total number of rows across all chunks of src.
func SourceRows(src Source) int {
	rows := 0
	for i := 0; i < src.ChunkCount(); i++ {
		rows += src.Chunk(i).Size()
	}
	return rows
}
