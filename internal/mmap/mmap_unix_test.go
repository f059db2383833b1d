//go:build linux || darwin || freebsd

package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnon_ReadWrite(t *testing.T) {
	data, err := Anon(100)
	require.NoError(t, err)
	require.Len(t, data, 100)

	for i, b := range data {
		require.Zero(t, b, "byte %d should be zero-filled", i)
	}

	data[0] = 0xde
	data[99] = 0xef
	assert.Equal(t, byte(0xde), data[0])
	assert.Equal(t, byte(0xef), data[99])

	require.NoError(t, Unmap(data))
}

func TestAnon_InvalidLength(t *testing.T) {
	_, err := Anon(0)
	require.Error(t, err)

	_, err = Anon(-1)
	require.Error(t, err)
}

func TestUnmap_Empty(t *testing.T) {
	require.NoError(t, Unmap(nil))
}

func TestPageSize(t *testing.T) {
	ps := PageSize()
	assert.Positive(t, ps)
	assert.Zero(t, ps&(ps-1), "page size should be a power of two")
	assert.True(t, Supported)
}
