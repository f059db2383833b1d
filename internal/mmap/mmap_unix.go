//go:build linux || darwin || freebsd

package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Supported reports whether Anon can succeed on this platform.
const Supported = true

// PageSize returns the system page size.
func PageSize() int {
	return unix.Getpagesize()
}

// Anon maps length bytes of private, zero-filled, read-write memory.
// The mapping is rounded up to whole pages by the kernel; the returned slice
// has exactly length bytes.
func Anon(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("mmap: invalid length %d", length)
	}
	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %d bytes: %w", length, err)
	}
	return data, nil
}

// Unmap releases a mapping returned by Anon.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("mmap: unmap %d bytes: %w", len(data), err)
	}
	return nil
}
