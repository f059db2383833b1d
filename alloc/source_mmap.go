package alloc

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/allockit/internal/mmap"
	"github.com/joshuapare/allockit/internal/sizing"
)

// MmapSource backs each block with its own anonymous mapping, outside the
// Go heap. Only element types without Go pointers are accepted, since the
// garbage collector does not scan mapped memory.
type MmapSource[T any] struct {
	size   uintptr
	page   int
	mapped atomic.Uint64
}

// NewMmapSource returns ErrPointerElem for element types containing pointers
// and ErrUnsupported where anonymous mappings are unavailable.
func NewMmapSource[T any]() (*MmapSource[T], error) {
	if !mmap.Supported {
		return nil, ErrUnsupported
	}
	t := reflect.TypeFor[T]()
	if hasPointers(t) {
		return nil, fmt.Errorf("%w: %s", ErrPointerElem, t)
	}
	var zero T
	return &MmapSource[T]{size: unsafe.Sizeof(zero), page: mmap.PageSize()}, nil
}

func (m *MmapSource[T]) Alloc(n int) ([]T, error) {
	bytes, err := sizing.BlockBytes(n, m.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if bytes == 0 {
		return make([]T, n), nil
	}
	data, err := mmap.Anon(int(bytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	m.mapped.Add(m.footprint(bytes))
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n), nil
}

func (m *MmapSource[T]) Free(p []T) error {
	if cap(p) == 0 || m.size == 0 {
		return nil
	}
	bytes := uintptr(cap(p)) * m.size
	data := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(p))), bytes)
	if err := mmap.Unmap(data); err != nil {
		return err
	}
	m.mapped.Add(-m.footprint(uint64(bytes)))
	return nil
}

// Mapped returns the bytes currently mapped, counting whole pages. It is at
// least the byte count the allocator reports for live blocks.
func (m *MmapSource[T]) Mapped() uint64 {
	return m.mapped.Load()
}

// PageSize returns the granularity mappings are rounded up to.
func (m *MmapSource[T]) PageSize() int {
	return m.page
}

func (m *MmapSource[T]) footprint(bytes uint64) uint64 {
	return uint64(sizing.RoundUp(int(bytes), m.page))
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

var _ Source[int] = (*MmapSource[int])(nil)
