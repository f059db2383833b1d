// Package alloc provides an allocation-accounting allocator whose counter is
// shared by every copy of a handle.
//
// # Overview
//
// An Allocator[T] hands out storage for elements of T and records what it
// handed out in a counter. The counter belongs to a lineage of handles, not
// to a single handle:
//
//   - New creates a handle with a fresh counter at zero
//   - Clone and Assign share the counter of an existing handle
//   - Release drops a handle; the counter is torn down with its last handle
//
// Two handles created by separate calls to New never share a counter.
//
// # Accounting Policies
//
// What the counter records is decided by an AccountingPolicy chosen when the
// lineage is created:
//
//	PolicyLive        bytes outstanding; Deallocate subtracts (default)
//	PolicyCumulative  bytes ever provisioned; Deallocate is a no-op
//	PolicyObjects     elements outstanding
//
// Custom policies plug in through Options.NewPolicy.
//
// # Usage Example
//
//	a := alloc.New[int32](nil)
//	defer a.Release()
//
//	p, err := a.Allocate(3)
//	if err != nil {
//	    return err
//	}
//	b := a.Clone()
//	fmt.Println(a.Count(), b.Count()) // 12 12
//
//	if err := b.Deallocate(p); err != nil {
//	    return err
//	}
//	fmt.Println(a.Count()) // 0
//	b.Release()
//
// # Equality
//
// Equal reports whether two handles may free each other's storage, and it is
// always true for handles over the same element type, even when their
// counters differ. This is looser than "equal means same resource pool".
// Shares answers the stricter question.
//
// # Storage Sources
//
// A Source supplies raw storage:
//
//   - HeapSource: the Go heap (default)
//   - LimitSource: a byte budget in front of another source
//   - MmapSource: anonymous mappings for pointer-free element types
//   - CheckedSource: a ledger that rejects foreign or mismatched frees
//
// # Errors
//
// Allocation failures wrap ErrOutOfMemory and never touch the counter.
// Deallocation misuse is reported by CheckedSource (ErrUnknownBlock,
// ErrSizeMismatch) and, with Options.Checked, by the policy (ErrUnderflow).
//
// # Thread Safety
//
// Counters use atomic updates, so handles of one lineage may be used from
// different goroutines. A single handle must not be Assigned or Released
// concurrently with other calls on it.
package alloc
