// Package sizing contains overflow-checked arithmetic for block size calculations.
package sizing

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uint64.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// MaxAllocBytes is the largest single block the Go runtime will hand out.
// make panics above it, so requests must be rejected before reaching it.
const MaxAllocBytes uint64 = min(1<<48, math.MaxInt)

// MaxCount returns the largest element count whose byte size stays within
// MaxAllocBytes. Zero-sized elements are limited only by the int range.
func MaxCount(elemSize uintptr) int {
	if elemSize == 0 {
		return math.MaxInt
	}
	return int(MaxAllocBytes / uint64(elemSize))
}

// BlockBytes returns count * elemSize, or an error describing why the block
// cannot be expressed (negative count or overflow).
//
//	bytes, err := sizing.BlockBytes(n, unsafe.Sizeof(v))
//	if err != nil {
//	    return fmt.Errorf("allocate: %w", err)
//	}
func BlockBytes(count int, elemSize uintptr) (uint64, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if count > MaxCount(elemSize) {
		return 0, fmt.Errorf("too large: count=%d * elemSize=%d exceeds %d bytes", count, elemSize, MaxAllocBytes)
	}
	total, ok := MulOverflowSafe(uint64(count), uint64(elemSize))
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	return total, nil
}

// RoundUp rounds n up to a multiple of align, which must be a power of two.
func RoundUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
