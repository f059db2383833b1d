//go:build !linux && !darwin && !freebsd

package mmap

import "os"

// Supported reports whether Anon can succeed on this platform.
const Supported = false

// PageSize returns the system page size.
func PageSize() int {
	return os.Getpagesize()
}

// Anon always fails with ErrUnsupported.
func Anon(int) ([]byte, error) {
	return nil, ErrUnsupported
}

// Unmap always fails with ErrUnsupported.
func Unmap([]byte) error {
	return ErrUnsupported
}
