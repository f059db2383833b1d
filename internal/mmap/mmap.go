// Package mmap provides anonymous memory mappings used as off-heap block storage.
package mmap

import "errors"

// ErrUnsupported is returned on platforms without anonymous mappings.
var ErrUnsupported = errors.New("mmap: anonymous mappings not supported on this platform")
