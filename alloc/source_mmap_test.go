//go:build linux || darwin || freebsd

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmapSource_AllocFree(t *testing.T) {
	src, err := NewMmapSource[uint64]()
	require.NoError(t, err)

	p, err := src.Alloc(1000)
	require.NoError(t, err)
	require.Len(t, p, 1000)
	assert.Equal(t, 1000, cap(p))

	for i := range p {
		require.Zero(t, p[i])
		p[i] = uint64(i) * 3
	}
	assert.Equal(t, uint64(2997), p[999])

	require.NoError(t, src.Free(p))
}

func TestMmapSource_RejectsPointerTypes(t *testing.T) {
	_, err := NewMmapSource[string]()
	require.ErrorIs(t, err, ErrPointerElem)

	_, err = NewMmapSource[struct{ P *int }]()
	require.ErrorIs(t, err, ErrPointerElem)
}

func TestMmapSource_ZeroSizedElements(t *testing.T) {
	src, err := NewMmapSource[struct{}]()
	require.NoError(t, err)
	p, err := src.Alloc(10)
	require.NoError(t, err)
	assert.Len(t, p, 10)
	require.NoError(t, src.Free(p))
}

func TestMmapSource_WithAllocator(t *testing.T) {
	src, err := NewMmapSource[int32]()
	require.NoError(t, err)
	a := NewWithSource[int32](NewCheckedSource[int32](src), nil)
	t.Cleanup(a.Release)

	p, err := a.Allocate(1024)
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), a.Count())

	p[1023] = 42
	require.NoError(t, a.Deallocate(p))
	assert.Zero(t, a.Count())
}

func TestMmapSource_MappedRoundsToPages(t *testing.T) {
	src, err := NewMmapSource[byte]()
	require.NoError(t, err)
	page := src.PageSize()
	require.Positive(t, page)

	small, err := src.Alloc(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(page), src.Mapped())

	large, err := src.Alloc(page + 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3*page), src.Mapped())

	require.NoError(t, src.Free(small))
	assert.Equal(t, uint64(2*page), src.Mapped())
	require.NoError(t, src.Free(large))
	assert.Zero(t, src.Mapped())
}

func TestMmapSource_MappedCoversAccountedBytes(t *testing.T) {
	src, err := NewMmapSource[int32]()
	require.NoError(t, err)
	a := NewWithSource[int32](src, nil)
	t.Cleanup(a.Release)

	p, err := a.Allocate(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), a.Count())
	assert.GreaterOrEqual(t, src.Mapped(), a.Count())

	require.NoError(t, a.Deallocate(p))
	assert.Zero(t, src.Mapped())
}
