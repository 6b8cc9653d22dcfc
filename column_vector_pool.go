package duckflat

import (
	"fmt"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"
)

// ColumnVector is an in-memory Vector holding one column of one chunk in the
// engine's internal representation. Engines that do not expose vectors of
// their own (and tests) build results out of ColumnVectors.
type ColumnVector struct {
	logical LogicalType
	nulls   []bool

	boolData   []bool
	int8Data   []int8
	int16Data  []int16
	int32Data  []int32
	int64Data  []int64
	hugeData   []Hugeint
	float32Dat []float32
	float64Dat []float64
	intervals  []Interval
	bytesData  [][]byte
	otherData  []any
}

// NewColumnVector creates an empty vector for the given logical type.
func NewColumnVector(logical LogicalType, capacity int) *ColumnVector {
	v := &ColumnVector{logical: logical}
	v.reserve(capacity)
	return v
}

func (v *ColumnVector) reserve(capacity int) {
	if capacity <= 0 {
		return
	}
	v.nulls = make([]bool, 0, capacity)
	switch v.logical {
	case LogicalBoolean:
		v.boolData = make([]bool, 0, capacity)
	case LogicalTinyint:
		v.int8Data = make([]int8, 0, capacity)
	case LogicalSmallint:
		v.int16Data = make([]int16, 0, capacity)
	case LogicalInteger, LogicalDate:
		v.int32Data = make([]int32, 0, capacity)
	case LogicalBigint, LogicalTime, LogicalTimestamp:
		v.int64Data = make([]int64, 0, capacity)
	case LogicalHugeint:
		v.hugeData = make([]Hugeint, 0, capacity)
	case LogicalFloat:
		v.float32Dat = make([]float32, 0, capacity)
	case LogicalDouble:
		v.float64Dat = make([]float64, 0, capacity)
	case LogicalInterval:
		v.intervals = make([]Interval, 0, capacity)
	case LogicalVarchar, LogicalBlob:
		v.bytesData = make([][]byte, 0, capacity)
	default:
		v.otherData = make([]any, 0, capacity)
	}
}

// Type returns the vector's logical type.
func (v *ColumnVector) Type() LogicalType {
	return v.logical
}

// Len returns the number of rows appended so far.
func (v *ColumnVector) Len() int {
	return len(v.nulls)
}

// AppendNull appends a NULL row.
func (v *ColumnVector) AppendNull() {
	v.nulls = append(v.nulls, true)
	switch v.logical {
	case LogicalBoolean:
		v.boolData = append(v.boolData, false)
	case LogicalTinyint:
		v.int8Data = append(v.int8Data, 0)
	case LogicalSmallint:
		v.int16Data = append(v.int16Data, 0)
	case LogicalInteger, LogicalDate:
		v.int32Data = append(v.int32Data, 0)
	case LogicalBigint, LogicalTime, LogicalTimestamp:
		v.int64Data = append(v.int64Data, 0)
	case LogicalHugeint:
		v.hugeData = append(v.hugeData, Hugeint{})
	case LogicalFloat:
		v.float32Dat = append(v.float32Dat, 0)
	case LogicalDouble:
		v.float64Dat = append(v.float64Dat, 0)
	case LogicalInterval:
		v.intervals = append(v.intervals, Interval{})
	case LogicalVarchar, LogicalBlob:
		v.bytesData = append(v.bytesData, nil)
	default:
		v.otherData = append(v.otherData, nil)
	}
}

// Append converts value to the vector's internal representation and appends it.
// A nil value appends NULL. Strings and byte slices are copied.
func (v *ColumnVector) Append(value any) error {
	if value == nil {
		v.AppendNull()
		return nil
	}

	switch v.logical {
	case LogicalBoolean:
		b, ok := value.(bool)
		if !ok {
			return v.conversionError(value)
		}
		v.boolData = append(v.boolData, b)

	case LogicalTinyint:
		n, err := v.integer(value, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		v.int8Data = append(v.int8Data, int8(n))

	case LogicalSmallint:
		n, err := v.integer(value, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		v.int16Data = append(v.int16Data, int16(n))

	case LogicalInteger:
		n, err := v.integer(value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		v.int32Data = append(v.int32Data, int32(n))

	case LogicalBigint:
		n, err := v.integer(value, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		v.int64Data = append(v.int64Data, n)

	case LogicalHugeint:
		h, err := v.hugeint(value)
		if err != nil {
			return err
		}
		v.hugeData = append(v.hugeData, h)

	case LogicalFloat:
		f, err := v.float(value)
		if err != nil {
			return err
		}
		v.float32Dat = append(v.float32Dat, float32(f))

	case LogicalDouble:
		f, err := v.float(value)
		if err != nil {
			return err
		}
		v.float64Dat = append(v.float64Dat, f)

	case LogicalDate:
		switch d := value.(type) {
		case Date:
			v.int32Data = append(v.int32Data, d.Days())
		case time.Time:
			v.int32Data = append(v.int32Data, DateFromTime(d).Days())
		case int32:
			v.int32Data = append(v.int32Data, d)
		default:
			return v.conversionError(value)
		}

	case LogicalTime:
		switch t := value.(type) {
		case Time:
			v.int64Data = append(v.int64Data, t.TotalMicros())
		case time.Time:
			v.int64Data = append(v.int64Data, TimeOfDay(t).TotalMicros())
		case time.Duration:
			v.int64Data = append(v.int64Data, t.Microseconds())
		case int64:
			v.int64Data = append(v.int64Data, t)
		default:
			return v.conversionError(value)
		}

	case LogicalTimestamp:
		switch ts := value.(type) {
		case Timestamp:
			v.int64Data = append(v.int64Data, ts.Micros())
		case time.Time:
			v.int64Data = append(v.int64Data, ts.UnixMicro())
		case int64:
			v.int64Data = append(v.int64Data, ts)
		default:
			return v.conversionError(value)
		}

	case LogicalInterval:
		switch iv := value.(type) {
		case Interval:
			v.intervals = append(v.intervals, iv)
		case time.Duration:
			v.intervals = append(v.intervals, Interval{Micros: iv.Microseconds()})
		default:
			return v.conversionError(value)
		}

	case LogicalVarchar, LogicalBlob:
		switch s := value.(type) {
		case string:
			v.bytesData = append(v.bytesData, []byte(s))
		case []byte:
			v.bytesData = append(v.bytesData, append([]byte(nil), s...))
		default:
			return v.conversionError(value)
		}

	default:
		v.otherData = append(v.otherData, value)
	}

	v.nulls = append(v.nulls, false)
	return nil
}

func (v *ColumnVector) conversionError(value any) error {
	return fmt.Errorf("cannot store %T in %s column", value, v.logical)
}

func (v *ColumnVector) integer(value any, min, max int64) (int64, error) {
	var n int64
	switch x := value.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range for %s", x, v.logical)
		}
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range for %s", x, v.logical)
		}
		n = int64(x)
	case bool:
		if x {
			n = 1
		}
	default:
		return 0, v.conversionError(value)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("value %d out of range for %s", n, v.logical)
	}
	return n, nil
}

func (v *ColumnVector) hugeint(value any) (Hugeint, error) {
	switch x := value.(type) {
	case Hugeint:
		return x, nil
	case *big.Int:
		h, ok := HugeintFromBig(x)
		if !ok {
			return Hugeint{}, fmt.Errorf("value %s out of range for %s", x, v.logical)
		}
		return h, nil
	case uint64:
		return Hugeint{Lower: x}, nil
	}
	n, err := v.integer(value, math.MinInt64, math.MaxInt64)
	if err != nil {
		return Hugeint{}, err
	}
	return HugeintFromInt64(n), nil
}

func (v *ColumnVector) float(value any) (float64, error) {
	switch x := value.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	}
	n, err := v.integer(value, math.MinInt64, math.MaxInt64)
	if err != nil {
		return 0, v.conversionError(value)
	}
	return float64(n), nil
}

// IsValid reports whether row holds a value.
func (v *ColumnVector) IsValid(row int) bool {
	return row >= 0 && row < len(v.nulls) && !v.nulls[row]
}

func (v *ColumnVector) Bool(row int) bool         { return v.boolData[row] }
func (v *ColumnVector) Int8(row int) int8         { return v.int8Data[row] }
func (v *ColumnVector) Int16(row int) int16       { return v.int16Data[row] }
func (v *ColumnVector) Int32(row int) int32       { return v.int32Data[row] }
func (v *ColumnVector) Int64(row int) int64       { return v.int64Data[row] }
func (v *ColumnVector) Hugeint(row int) Hugeint   { return v.hugeData[row] }
func (v *ColumnVector) Float32(row int) float32   { return v.float32Dat[row] }
func (v *ColumnVector) Float64(row int) float64   { return v.float64Dat[row] }
func (v *ColumnVector) Date(row int) int32        { return v.int32Data[row] }
func (v *ColumnVector) Time(row int) int64        { return v.int64Data[row] }
func (v *ColumnVector) Timestamp(row int) int64   { return v.int64Data[row] }
func (v *ColumnVector) Interval(row int) Interval { return v.intervals[row] }
func (v *ColumnVector) Varchar(row int) []byte    { return v.bytesData[row] }
func (v *ColumnVector) Blob(row int) []byte       { return v.bytesData[row] }

// Other returns the raw value of a row in a column without a flat tag.
func (v *ColumnVector) Other(row int) any { return v.otherData[row] }

func (v *ColumnVector) reset(logical LogicalType) {
	v.logical = logical
	v.nulls = v.nulls[:0]
	v.boolData = v.boolData[:0]
	v.int8Data = v.int8Data[:0]
	v.int16Data = v.int16Data[:0]
	v.int32Data = v.int32Data[:0]
	v.int64Data = v.int64Data[:0]
	v.hugeData = v.hugeData[:0]
	v.float32Dat = v.float32Dat[:0]
	v.float64Dat = v.float64Dat[:0]
	v.intervals = v.intervals[:0]
	clear(v.bytesData)
	v.bytesData = v.bytesData[:0]
	clear(v.otherData)
	v.otherData = v.otherData[:0]
}

// ColumnVectorPool recycles ColumnVectors between results so a long-running
// engine does not reallocate a full set of chunk vectors for every query.
type ColumnVectorPool struct {
	vectors sync.Pool

	gets        uint64
	puts        uint64
	allocations uint64
}

// NewColumnVectorPool creates a new column vector pool.
func NewColumnVectorPool() *ColumnVectorPool {
	p := &ColumnVectorPool{}
	p.vectors = sync.Pool{
		New: func() interface{} {
			atomic.AddUint64(&p.allocations, 1)
			return &ColumnVector{}
		},
	}
	return p
}

// Get returns an empty vector of the given type with room for capacity rows.
func (p *ColumnVectorPool) Get(logical LogicalType, capacity int) *ColumnVector {
	atomic.AddUint64(&p.gets, 1)
	v := p.vectors.Get().(*ColumnVector)
	v.reset(logical)
	if cap(v.nulls) < capacity {
		v.reserve(capacity)
	}
	return v
}

// Put returns a vector to the pool. The vector must not be used afterwards.
func (p *ColumnVectorPool) Put(v *ColumnVector) {
	if v == nil {
		return
	}
	atomic.AddUint64(&p.puts, 1)
	v.reset(LogicalInvalid)
	p.vectors.Put(v)
}

// Stats returns statistics about the pool.
func (p *ColumnVectorPool) Stats() map[string]uint64 {
	return map[string]uint64{
		"gets":        atomic.LoadUint64(&p.gets),
		"puts":        atomic.LoadUint64(&p.puts),
		"allocations": atomic.LoadUint64(&p.allocations),
	}
}

// Global pool shared by the in-memory sources.
var columnVectorPool = NewColumnVectorPool()

// truncate drops rows from index n onwards.
func (v *ColumnVector) truncate(n int) {
	if n >= len(v.nulls) {
		return
	}
	v.nulls = v.nulls[:n]
	v.boolData = shrink(v.boolData, n)
	v.int8Data = shrink(v.int8Data, n)
	v.int16Data = shrink(v.int16Data, n)
	v.int32Data = shrink(v.int32Data, n)
	v.int64Data = shrink(v.int64Data, n)
	v.hugeData = shrink(v.hugeData, n)
	v.float32Dat = shrink(v.float32Dat, n)
	v.float64Dat = shrink(v.float64Dat, n)
	v.intervals = shrink(v.intervals, n)
	v.bytesData = shrink(v.bytesData, n)
	v.otherData = shrink(v.otherData, n)
}

func shrink[T any](s []T, n int) []T {
	if len(s) > n {
		clear(s[n:])
		return s[:n]
	}
	return s
}
