package duckflat

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"
)

// Allocator supplies the buffers of a Result. Every buffer handed out is
// zeroed and has exactly the requested length. Buffers are given back through
// Release or ReleaseBools when the Result is destroyed.
type Allocator interface {
	Bytes(n int) ([]byte, error)
	Bools(n int) ([]bool, error)
	Release(b []byte)
	ReleaseBools(b []bool)
}

// HeapAllocator allocates every buffer from the Go heap and leaves reclamation
// to the garbage collector.
type HeapAllocator struct{}

// Bytes returns a zeroed byte buffer.
func (HeapAllocator) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative buffer size %d", n)
	}
	return make([]byte, n), nil
}

// Bools returns a zeroed bool buffer.
func (HeapAllocator) Bools(n int) ([]bool, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative buffer size %d", n)
	}
	return make([]bool, n), nil
}

// Release is a no-op.
func (HeapAllocator) Release([]byte) {}

// ReleaseBools is a no-op.
func (HeapAllocator) ReleaseBools([]bool) {}

// Size classes of the pool: powers of two from 256 bytes to 64 MiB.
const (
	minPoolShift = 8
	maxPoolShift = 26
	poolClasses  = maxPoolShift - minPoolShift + 1
)

// classOf returns the pool class serving n elements, or -1 when n is too large.
func classOf(n int) int {
	if n <= 1<<minPoolShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxPoolShift {
		return -1
	}
	return shift - minPoolShift
}

// tieredPool keeps one sync.Pool per size class.
type tieredPool[T any] struct {
	classes [poolClasses]sync.Pool
}

func (p *tieredPool[T]) get(n int, stats *PoolStats) []T {
	atomic.AddUint64(&stats.Gets, 1)
	class := classOf(n)
	if class < 0 {
		atomic.AddUint64(&stats.Misses, 1)
		return make([]T, n)
	}
	if ptr, ok := p.classes[class].Get().(*[]T); ok && ptr != nil {
		buf := (*ptr)[:n]
		clear(buf)
		return buf
	}
	atomic.AddUint64(&stats.Misses, 1)
	return make([]T, n, 1<<(class+minPoolShift))
}

func (p *tieredPool[T]) put(buf []T, stats *PoolStats) {
	if buf == nil {
		return
	}
	atomic.AddUint64(&stats.Puts, 1)
	class := classOf(cap(buf))
	if class < 0 || cap(buf) != 1<<(class+minPoolShift) {
		atomic.AddUint64(&stats.Discards, 1)
		return
	}
	buf = buf[:0]
	p.classes[class].Put(&buf)
}

// PoolStats holds counters of a PoolAllocator.
type PoolStats struct {
	Gets     uint64
	Puts     uint64
	Misses   uint64
	Discards uint64
}

// PoolAllocator reuses buffers across results through size-classed sync.Pools.
// It is safe for concurrent use.
type PoolAllocator struct {
	bytes tieredPool[byte]
	bools tieredPool[bool]
	stats PoolStats
}

// NewPoolAllocator creates a new pooled allocator.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{}
}

// Bytes returns a zeroed byte buffer, reusing a pooled one when available.
func (p *PoolAllocator) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative buffer size %d", n)
	}
	return p.bytes.get(n, &p.stats), nil
}

// Bools returns a zeroed bool buffer, reusing a pooled one when available.
func (p *PoolAllocator) Bools(n int) ([]bool, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative buffer size %d", n)
	}
	return p.bools.get(n, &p.stats), nil
}

// Release returns a byte buffer to the pool.
func (p *PoolAllocator) Release(b []byte) {
	p.bytes.put(b, &p.stats)
}

// ReleaseBools returns a bool buffer to the pool.
func (p *PoolAllocator) ReleaseBools(b []bool) {
	p.bools.put(b, &p.stats)
}

// Stats returns a snapshot of the pool counters.
func (p *PoolAllocator) Stats() PoolStats {
	return PoolStats{
		Gets:     atomic.LoadUint64(&p.stats.Gets),
		Puts:     atomic.LoadUint64(&p.stats.Puts),
		Misses:   atomic.LoadUint64(&p.stats.Misses),
		Discards: atomic.LoadUint64(&p.stats.Discards),
	}
}

// BudgetAllocator caps the number of bytes outstanding across all buffers it
// has handed out. A request that would exceed the limit fails with an
// ErrAlloc error, which makes the marshaler abort the way a failed malloc would.
type BudgetAllocator struct {
	next  Allocator
	limit int64
	used  int64
}

// NewBudgetAllocator wraps next with a byte limit. A nil next uses HeapAllocator.
func NewBudgetAllocator(next Allocator, limit int64) *BudgetAllocator {
	if next == nil {
		next = HeapAllocator{}
	}
	return &BudgetAllocator{next: next, limit: limit}
}

func (b *BudgetAllocator) reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("negative buffer size %d", n)
	}
	for {
		used := atomic.LoadInt64(&b.used)
		if used+int64(n) > b.limit {
			return NewError(ErrAlloc, fmt.Sprintf("allocation of %d bytes exceeds budget (%d of %d bytes in use)", n, used, b.limit))
		}
		if atomic.CompareAndSwapInt64(&b.used, used, used+int64(n)) {
			return nil
		}
	}
}

// Bytes returns a zeroed byte buffer if the budget allows it.
func (b *BudgetAllocator) Bytes(n int) ([]byte, error) {
	if err := b.reserve(n); err != nil {
		return nil, err
	}
	buf, err := b.next.Bytes(n)
	if err != nil {
		atomic.AddInt64(&b.used, -int64(n))
		return nil, err
	}
	return buf, nil
}

// Bools returns a zeroed bool buffer if the budget allows it.
func (b *BudgetAllocator) Bools(n int) ([]bool, error) {
	if err := b.reserve(n); err != nil {
		return nil, err
	}
	buf, err := b.next.Bools(n)
	if err != nil {
		atomic.AddInt64(&b.used, -int64(n))
		return nil, err
	}
	return buf, nil
}

// Release gives a byte buffer back and credits the budget.
func (b *BudgetAllocator) Release(buf []byte) {
	if buf == nil {
		return
	}
	atomic.AddInt64(&b.used, -int64(len(buf)))
	b.next.Release(buf)
}

// ReleaseBools gives a bool buffer back and credits the budget.
func (b *BudgetAllocator) ReleaseBools(buf []bool) {
	if buf == nil {
		return
	}
	atomic.AddInt64(&b.used, -int64(len(buf)))
	b.next.ReleaseBools(buf)
}

// Used returns the number of bytes currently outstanding.
func (b *BudgetAllocator) Used() int64 {
	return atomic.LoadInt64(&b.used)
}

// Limit returns the byte limit.
func (b *BudgetAllocator) Limit() int64 {
	return b.limit
}

// DefaultAllocator is used when no allocator is configured.
var DefaultAllocator Allocator = HeapAllocator{}
