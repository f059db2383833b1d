package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/allockit/internal/sizing"
)

// Allocator is a handle onto a shared accounting counter.
//
// Every handle derived from another through Clone, Assign or Rebind observes
// and mutates the same counter. Handles created independently by New get
// their own counter starting at zero.
//
// The counter is safe for concurrent use, so handles of one lineage may live
// on different goroutines. A single handle is not: Assign and Release must
// not race with other calls on the same handle.
type Allocator[T any] struct {
	st   *state
	src  Source[T]
	prop Propagation
	size uintptr
}

// New creates a handle with a fresh counter and Go heap storage.
// A nil opts uses DefaultOptions().
func New[T any](opts *Options) *Allocator[T] {
	return NewWithSource[T](HeapSource[T]{}, opts)
}

// NewWithSource creates a handle with a fresh counter backed by src.
func NewWithSource[T any](src Source[T], opts *Options) *Allocator[T] {
	if opts == nil {
		opts = DefaultOptions()
	}
	if src == nil {
		src = HeapSource[T]{}
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return &Allocator[T]{
		st:   newState(size, opts),
		src:  src,
		prop: opts.Propagation,
		size: size,
	}
}

// Rebind returns a handle over U that shares a's counter, the way a container
// rebinds its allocator to an internal node type. The new handle allocates
// from the Go heap. Rebinding a released handle yields a released handle.
func Rebind[U, T any](a *Allocator[T]) *Allocator[U] {
	var zero U
	r := &Allocator[U]{
		src:  HeapSource[U]{},
		prop: a.prop,
		size: unsafe.Sizeof(zero),
	}
	if a.st != nil {
		r.st = a.st.acquire()
	}
	return r
}

// Clone returns a new handle sharing a's counter and storage.
func (a *Allocator[T]) Clone() *Allocator[T] {
	c := &Allocator[T]{src: a.src, prop: a.prop, size: a.size}
	if a.st != nil {
		c.st = a.st.acquire()
	}
	return c
}

// SelectOnCopy returns the allocator a container copy should use.
// Copies share the counter, so this is Clone.
func (a *Allocator[T]) SelectOnCopy() *Allocator[T] {
	return a.Clone()
}

// Assign makes a share other's counter, storage and traits, releasing its
// previous counter. Assigning a handle to itself, or to a handle that already
// shares its counter, leaves the reference count unchanged.
func (a *Allocator[T]) Assign(other *Allocator[T]) {
	if a == other {
		return
	}
	var next *state
	if other.st != nil {
		next = other.st.acquire()
	}
	prev := a.st
	a.st, a.src, a.prop = next, other.src, other.prop
	if prev != nil {
		prev.release()
	}
}

// Release drops this handle's reference to the counter. Calling it again is
// a no-op. After Release, Allocate and Deallocate return ErrReleased.
func (a *Allocator[T]) Release() {
	if a.st == nil {
		return
	}
	st := a.st
	a.st = nil
	st.release()
}

// Released reports whether Release has been called on this handle.
func (a *Allocator[T]) Released() bool {
	return a.st == nil
}

// Allocate returns storage for n elements and adds n*ElementSize() to the
// shared counter. The counter is only updated after the source succeeds; a
// failure is returned unchanged and wraps ErrOutOfMemory.
//
// Allocate(0) returns an empty, non-nil slice and records a zero-byte allocation.
func (a *Allocator[T]) Allocate(n int) ([]T, error) {
	if a.st == nil {
		return nil, ErrReleased
	}
	bytes, err := sizing.BlockBytes(n, a.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	var p []T
	if n == 0 {
		p = []T{}
	} else {
		p, err = a.src.Alloc(n)
		if err != nil {
			a.st.log.Debug("allocation failed", "count", n, "bytes", bytes, "error", err)
			return nil, err
		}
	}

	a.st.recordAlloc(n, bytes)
	if a.st.debugEnabled() {
		a.st.log.Debug("allocating", "handle", fmt.Sprintf("%p", a), "count", n, "bytes", bytes,
			"total", a.st.policy.Report())
	}
	return p, nil
}

// Deallocate returns p to the source and tells the policy that cap(p)
// elements were released. Under PolicyCumulative the counter is unaffected.
//
// A source that rejects p (see CheckedSource) leaves the counter untouched.
// Any handle may deallocate storage from any other handle over the same
// element type and source; the decrement lands on this handle's counter.
func (a *Allocator[T]) Deallocate(p []T) error {
	if a.st == nil {
		return ErrReleased
	}
	if p == nil {
		return nil
	}
	n := cap(p)
	bytes := uint64(n) * uint64(a.size)
	if n > 0 {
		if err := a.src.Free(p); err != nil {
			return err
		}
	}

	err := a.st.recordDealloc(n, bytes)
	if a.st.debugEnabled() {
		a.st.log.Debug("deallocating", "handle", fmt.Sprintf("%p", a), "count", n, "bytes", bytes,
			"total", a.st.policy.Report())
	}
	if err != nil {
		if a.st.checked {
			return err
		}
		a.st.log.Warn("deallocation not recorded", "bytes", bytes, "error", err)
	}
	return nil
}

// Reallocate moves p into a new block of n elements, copying min(len(p), n)
// elements. The new block is returned even if releasing p fails.
func (a *Allocator[T]) Reallocate(p []T, n int) ([]T, error) {
	q, err := a.Allocate(n)
	if err != nil {
		return nil, err
	}
	copy(q, p)
	if err := a.Deallocate(p); err != nil {
		return q, err
	}
	return q, nil
}

// Construct stores v at p.
func (a *Allocator[T]) Construct(p *T, v T) {
	*p = v
}

// Destroy resets *p to the zero value so it no longer retains references.
func (a *Allocator[T]) Destroy(p *T) {
	var zero T
	*p = zero
}

// Count returns the shared counter's current total: bytes for the live and
// cumulative policies, elements for the objects policy. A released handle
// reports 0.
func (a *Allocator[T]) Count() uint64 {
	if a.st == nil {
		return 0
	}
	return a.st.policy.Report()
}

// Stats returns a snapshot of the shared counter. A released handle returns
// the zero Stats.
func (a *Allocator[T]) Stats() Stats {
	if a.st == nil {
		return Stats{}
	}
	return a.st.stats()
}

// Refs returns the number of live handles sharing the counter.
func (a *Allocator[T]) Refs() int64 {
	if a.st == nil {
		return 0
	}
	return a.st.refs.Load()
}

// Equal reports whether a and other may free each other's storage.
//
// It is always true: any two handles over the same element type are
// interchangeable for deallocation, whether or not they share a counter.
// Use Shares to ask whether they share accounting.
func (a *Allocator[T]) Equal(other *Allocator[T]) bool {
	return true
}

// NotEqual is !Equal.
func (a *Allocator[T]) NotEqual(other *Allocator[T]) bool {
	return !a.Equal(other)
}

// Shares reports whether a and other observe the same counter.
func (a *Allocator[T]) Shares(other *Allocator[T]) bool {
	return a.st != nil && a.st == other.st
}

// ElementSize returns the size in bytes of one T.
func (a *Allocator[T]) ElementSize() uintptr {
	return a.size
}

// MaxSize returns the largest n Allocate accepts. Larger requests fail with
// ErrOutOfMemory before reaching the source.
func (a *Allocator[T]) MaxSize() int {
	return sizing.MaxCount(a.size)
}

// Propagation returns the container traits of this handle.
func (a *Allocator[T]) Propagation() Propagation {
	return a.prop
}

// Source returns the storage backing this handle.
func (a *Allocator[T]) Source() Source[T] {
	return a.src
}
