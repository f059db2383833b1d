package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	assert.Equal(t, uint64(15), sum)

	_, ok = AddOverflowSafe(math.MaxUint64, 1)
	assert.False(t, ok, "expected overflow when adding to MaxUint64")
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want uint64
		ok   bool
	}{
		{"zero left", 0, math.MaxUint64, 0, true},
		{"zero right", 7, 0, 0, true},
		{"small", 3, 4, 12, true},
		{"max edge", math.MaxUint64, 1, math.MaxUint64, true},
		{"overflow", math.MaxUint64/2 + 1, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MulOverflowSafe(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockBytes(t *testing.T) {
	n, err := BlockBytes(3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), n)

	n, err = BlockBytes(0, 8)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = BlockBytes(-1, 4)
	require.ErrorContains(t, err, "negative count")

	_, err = BlockBytes(math.MaxInt, 8)
	require.ErrorContains(t, err, "too large")

	n, err = BlockBytes(MaxCount(8), 8)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, MaxAllocBytes)

	_, err = BlockBytes(MaxCount(8)+1, 8)
	require.ErrorContains(t, err, "too large")

	n, err = BlockBytes(math.MaxInt, 0)
	require.NoError(t, err, "zero-sized elements never overflow")
	assert.Zero(t, n)
}

func TestMaxCount(t *testing.T) {
	assert.Equal(t, math.MaxInt, MaxCount(0))
	assert.Equal(t, int(MaxAllocBytes/4), MaxCount(4))
	assert.LessOrEqual(t, MaxAllocBytes, uint64(math.MaxInt))
}

func TestRoundUp(t *testing.T) {
	assert.Equal(t, 4096, RoundUp(1, 4096))
	assert.Equal(t, 4096, RoundUp(4096, 4096))
	assert.Equal(t, 8192, RoundUp(4097, 4096))
	assert.Equal(t, 0, RoundUp(0, 4096))
}
