package alloc

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/allockit/internal/sizing"
)

// Source provides the raw storage behind an Allocator.
//
// Alloc is only called with n > 0 and must return a slice with len and cap
// equal to n. A failed Alloc must return an error wrapping ErrOutOfMemory.
// Free receives slices whose cap matches a previous Alloc.
type Source[T any] interface {
	Alloc(n int) ([]T, error)
	Free(p []T) error
}

// HeapSource allocates from the Go heap. Free is a no-op; the garbage
// collector reclaims blocks once nothing references them.
type HeapSource[T any] struct{}

func (HeapSource[T]) Alloc(n int) ([]T, error) {
	var zero T
	size := unsafe.Sizeof(zero)
	if n < 0 || n > sizing.MaxCount(size) {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrOutOfMemory, n, size)
	}
	return make([]T, n), nil
}

func (HeapSource[T]) Free([]T) error { return nil }

// LimitSource caps the bytes outstanding from an inner source. A request
// that would exceed the limit fails with ErrOutOfMemory before the inner
// source is consulted.
type LimitSource[T any] struct {
	inner Source[T]
	limit uint64
	size  uintptr
	used  atomic.Uint64
}

// NewLimitSource wraps inner (the Go heap when nil) with a byte budget.
func NewLimitSource[T any](inner Source[T], limit uint64) *LimitSource[T] {
	if inner == nil {
		inner = HeapSource[T]{}
	}
	var zero T
	return &LimitSource[T]{inner: inner, limit: limit, size: unsafe.Sizeof(zero)}
}

func (l *LimitSource[T]) Alloc(n int) ([]T, error) {
	bytes, err := sizing.BlockBytes(n, l.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	for {
		cur := l.used.Load()
		next, ok := sizing.AddOverflowSafe(cur, bytes)
		if !ok || next > l.limit {
			return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, bytes, cur, l.limit)
		}
		if l.used.CompareAndSwap(cur, next) {
			break
		}
	}
	p, err := l.inner.Alloc(n)
	if err != nil {
		l.unreserve(bytes)
		return nil, err
	}
	return p, nil
}

func (l *LimitSource[T]) Free(p []T) error {
	if err := l.inner.Free(p); err != nil {
		return err
	}
	l.unreserve(uint64(cap(p)) * uint64(l.size))
	return nil
}

func (l *LimitSource[T]) unreserve(bytes uint64) {
	for {
		cur := l.used.Load()
		next := uint64(0)
		if bytes < cur {
			next = cur - bytes
		}
		if l.used.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Used returns the bytes currently reserved.
func (l *LimitSource[T]) Used() uint64 { return l.used.Load() }

// Limit returns the configured budget in bytes.
func (l *LimitSource[T]) Limit() uint64 { return l.limit }

// CheckedSource records every block handed out by an inner source and
// rejects a Free of anything else. It turns misuse that would otherwise
// silently skew the counter into ErrUnknownBlock or ErrSizeMismatch.
//
// Handles that share a CheckedSource may free each other's blocks.
type CheckedSource[T any] struct {
	inner Source[T]

	mu     sync.Mutex
	blocks map[*T]int
}

// NewCheckedSource wraps inner (the Go heap when nil).
func NewCheckedSource[T any](inner Source[T]) *CheckedSource[T] {
	if inner == nil {
		inner = HeapSource[T]{}
	}
	return &CheckedSource[T]{inner: inner, blocks: make(map[*T]int)}
}

func (c *CheckedSource[T]) Alloc(n int) ([]T, error) {
	p, err := c.inner.Alloc(n)
	if err != nil {
		return nil, err
	}
	if cap(p) > 0 {
		c.mu.Lock()
		c.blocks[unsafe.SliceData(p)] = cap(p)
		c.mu.Unlock()
	}
	return p, nil
}

func (c *CheckedSource[T]) Free(p []T) error {
	if cap(p) == 0 {
		return nil
	}
	key := unsafe.SliceData(p)

	c.mu.Lock()
	n, ok := c.blocks[key]
	switch {
	case !ok:
		c.mu.Unlock()
		return fmt.Errorf("%w: %p", ErrUnknownBlock, key)
	case n != cap(p):
		c.mu.Unlock()
		return fmt.Errorf("%w: allocated %d elements, freeing %d", ErrSizeMismatch, n, cap(p))
	}
	delete(c.blocks, key)
	c.mu.Unlock()

	return c.inner.Free(p)
}

// Outstanding returns the number of blocks allocated and not yet freed.
func (c *CheckedSource[T]) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blocks)
}

var (
	_ Source[int] = HeapSource[int]{}
	_ Source[int] = (*LimitSource[int])(nil)
	_ Source[int] = (*CheckedSource[int])(nil)
)
