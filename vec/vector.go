// Package vec provides Vector, a resizable sequence that obtains all of its
// storage through an alloc.Allocator and honours the allocator's
// propagation traits on copy, move and swap.
package vec

import (
	"fmt"

	"github.com/joshuapare/allockit/alloc"
)

// Vector is a growable sequence of T. Capacity doubles on growth (1, 2, 4, ...).
//
// A Vector owns a counted handle to its allocator and must be released with
// Release to return its storage and drop that handle.
type Vector[T any] struct {
	a   *alloc.Allocator[T]
	buf []T // whole block from a; len(buf) == cap(buf)
	n   int
}

// New returns an empty vector drawing storage from a copy of a.
func New[T any](a *alloc.Allocator[T]) *Vector[T] {
	return &Vector[T]{a: a.Clone()}
}

// Allocator returns a counted copy of the vector's allocator. The caller
// must Release it.
func (v *Vector[T]) Allocator() *alloc.Allocator[T] {
	return v.a.Clone()
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.n }

// Cap returns the number of elements the current block can hold.
func (v *Vector[T]) Cap() int { return len(v.buf) }

// At returns element i. It panics if i is out of range.
func (v *Vector[T]) At(i int) T { return v.buf[:v.n][i] }

// Set replaces element i. It panics if i is out of range.
func (v *Vector[T]) Set(i int, x T) { v.buf[:v.n][i] = x }

// Values returns the elements as a slice aliasing the vector's storage.
// It is invalidated by any operation that reallocates.
func (v *Vector[T]) Values() []T { return v.buf[:v.n] }

// Reserve makes room for at least n elements without further allocation.
func (v *Vector[T]) Reserve(n int) error {
	if n <= len(v.buf) {
		return nil
	}
	return v.reallocate(n)
}

// PushBack appends x, doubling the capacity when full.
func (v *Vector[T]) PushBack(x T) error {
	if v.n == len(v.buf) {
		if err := v.reallocate(max(1, 2*len(v.buf))); err != nil {
			return err
		}
	}
	v.a.Construct(&v.buf[v.n], x)
	v.n++
	return nil
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, bool) {
	var zero T
	if v.n == 0 {
		return zero, false
	}
	v.n--
	x := v.buf[v.n]
	v.a.Destroy(&v.buf[v.n])
	return x, true
}

// Clear destroys all elements and keeps the capacity.
func (v *Vector[T]) Clear() {
	v.destroy(0)
}

// ShrinkToFit reallocates so that Cap() == Len(), freeing the block entirely
// when the vector is empty.
func (v *Vector[T]) ShrinkToFit() error {
	switch {
	case len(v.buf) == v.n:
		return nil
	case v.n == 0:
		return v.free()
	default:
		return v.reallocate(v.n)
	}
}

// Clone returns a copy with exactly Len() capacity. The copy's allocator
// comes from SelectOnCopy, so both vectors account into the same counter.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := &Vector[T]{a: v.a.SelectOnCopy()}
	if v.n == 0 {
		return c, nil
	}
	buf, err := c.a.Allocate(v.n)
	if err != nil {
		c.a.Release()
		return nil, fmt.Errorf("vec: clone: %w", err)
	}
	copy(buf, v.buf[:v.n])
	c.buf, c.n = buf, v.n
	return c, nil
}

// CopyFrom replaces v's contents with a copy of src's.
//
// With Propagation().OnCopyAssign, v adopts src's allocator; storage is
// only rebuilt when the allocators compare unequal, which never happens for
// alloc.Allocator. Otherwise v keeps its allocator and reuses its block when
// it is large enough.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}
	if v.a.Propagation().OnCopyAssign {
		if v.a.NotEqual(src.a) {
			if err := v.free(); err != nil {
				return err
			}
		}
		v.a.Assign(src.a)
	}

	if src.n > len(v.buf) {
		v.destroy(0)
		if err := v.free(); err != nil {
			return err
		}
		buf, err := v.a.Allocate(src.n)
		if err != nil {
			return fmt.Errorf("vec: copy: %w", err)
		}
		v.buf = buf
	}
	copy(v.buf, src.buf[:src.n])
	if src.n < v.n {
		clear(v.buf[src.n:v.n])
	}
	v.n = src.n
	return nil
}

// MoveFrom takes src's storage, leaving src empty.
//
// v's previous storage is released through v's allocator. With
// Propagation().OnMoveAssign, v also adopts src's allocator. Allocators
// always compare equal, so the block is moved rather than copied even when
// the two vectors account into different counters; the block is then
// deallocated later through v's allocator.
func (v *Vector[T]) MoveFrom(src *Vector[T]) error {
	if v == src {
		return nil
	}
	v.destroy(0)
	if err := v.free(); err != nil {
		return err
	}
	if v.a.Propagation().OnMoveAssign {
		v.a.Assign(src.a)
	}
	v.buf, v.n = src.buf, src.n
	src.buf, src.n = nil, 0
	return nil
}

// Swap exchanges contents with o. Allocators are exchanged only when
// Propagation().OnSwap is set.
func (v *Vector[T]) Swap(o *Vector[T]) {
	v.buf, o.buf = o.buf, v.buf
	v.n, o.n = o.n, v.n
	if v.a.Propagation().OnSwap {
		v.a, o.a = o.a, v.a
	}
}

// Release destroys all elements, returns the block and drops the vector's
// allocator handle. The vector must not be used afterwards.
func (v *Vector[T]) Release() error {
	v.destroy(0)
	err := v.free()
	v.a.Release()
	return err
}

// String formats the elements the way fmt prints a slice.
func (v *Vector[T]) String() string {
	return fmt.Sprint(v.buf[:v.n])
}

func (v *Vector[T]) reallocate(capacity int) error {
	buf, err := v.a.Allocate(capacity)
	if err != nil {
		return fmt.Errorf("vec: grow to %d: %w", capacity, err)
	}
	copy(buf, v.buf[:v.n])
	old := v.buf
	clear(old)
	v.buf = buf
	if old != nil {
		if err := v.a.Deallocate(old); err != nil {
			return fmt.Errorf("vec: release old block: %w", err)
		}
	}
	return nil
}

// destroy zeroes elements [from, n) and shrinks the length to from.
func (v *Vector[T]) destroy(from int) {
	for i := from; i < v.n; i++ {
		v.a.Destroy(&v.buf[i])
	}
	v.n = from
}

func (v *Vector[T]) free() error {
	if v.buf == nil {
		return nil
	}
	old := v.buf
	v.buf, v.n = nil, 0
	if err := v.a.Deallocate(old); err != nil {
		return fmt.Errorf("vec: release block: %w", err)
	}
	return nil
}
