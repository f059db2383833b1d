package alloc

import "errors"

var (
	// ErrOutOfMemory indicates the storage request could not be satisfied.
	// The shared counter is never updated when this is returned.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrReleased indicates an operation on a handle after Release.
	ErrReleased = errors.New("alloc: handle released")

	// ErrUnknownBlock indicates a Free of a block the source never handed out,
	// or one that was already freed.
	ErrUnknownBlock = errors.New("alloc: block not owned by this source")

	// ErrSizeMismatch indicates a Free whose capacity differs from the allocation.
	ErrSizeMismatch = errors.New("alloc: block size mismatch")

	// ErrUnderflow indicates a deallocation larger than what the counter holds.
	// The counter is left unchanged.
	ErrUnderflow = errors.New("alloc: counter underflow")

	// ErrPointerElem indicates an off-heap source was asked to hold a type
	// containing Go pointers.
	ErrPointerElem = errors.New("alloc: element type contains pointers")

	// ErrUnsupported indicates the source is unavailable on this platform.
	ErrUnsupported = errors.New("alloc: source not supported on this platform")
)
