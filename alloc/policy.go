package alloc

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// AccountingPolicy decides what the shared counter records.
//
// Implementations must be safe for concurrent use: every handle in a lineage
// calls into the same policy instance.
type AccountingPolicy interface {
	// OnAllocate records a successful allocation of objects elements
	// totalling bytes bytes.
	OnAllocate(objects int, bytes uint64)

	// OnDeallocate records a deallocation. It returns ErrUnderflow, and
	// records nothing, when the total would go below zero.
	OnDeallocate(objects int, bytes uint64) error

	// Report returns the current total. It has no side effects.
	Report() uint64

	// Name identifies the policy in stats and logs.
	Name() string
}

// PolicyKind selects one of the built-in accounting policies.
type PolicyKind int

const (
	// PolicyLive counts bytes currently outstanding. Deallocate subtracts.
	PolicyLive PolicyKind = iota

	// PolicyCumulative counts bytes ever provisioned. Deallocate is a no-op.
	PolicyCumulative

	// PolicyObjects counts elements currently outstanding.
	PolicyObjects
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyLive:
		return "live"
	case PolicyCumulative:
		return "cumulative"
	case PolicyObjects:
		return "objects"
	default:
		return fmt.Sprintf("PolicyKind(%d)", int(k))
	}
}

// ParsePolicy converts a policy name (case-insensitive) to a PolicyKind.
func ParsePolicy(s string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "":
		return PolicyLive, nil
	case "cumulative", "monotonic":
		return PolicyCumulative, nil
	case "objects":
		return PolicyObjects, nil
	default:
		return 0, fmt.Errorf("alloc: unknown policy %q", s)
	}
}

// NewPolicy returns a fresh instance of the built-in policy k.
func NewPolicy(k PolicyKind) AccountingPolicy {
	switch k {
	case PolicyCumulative:
		return &Cumulative{}
	case PolicyObjects:
		return &Objects{}
	default:
		return &Live{}
	}
}

// Cumulative reports the total number of bytes ever allocated.
// Deallocation never lowers it.
type Cumulative struct {
	total atomic.Uint64
}

func (c *Cumulative) OnAllocate(_ int, bytes uint64) { c.total.Add(bytes) }

func (c *Cumulative) OnDeallocate(int, uint64) error { return nil }

func (c *Cumulative) Report() uint64 { return c.total.Load() }

func (c *Cumulative) Name() string { return PolicyCumulative.String() }

// Live reports the number of bytes allocated and not yet deallocated.
type Live struct {
	total atomic.Uint64
}

func (l *Live) OnAllocate(_ int, bytes uint64) { l.total.Add(bytes) }

func (l *Live) OnDeallocate(_ int, bytes uint64) error {
	return checkedSub(&l.total, bytes)
}

func (l *Live) Report() uint64 { return l.total.Load() }

func (l *Live) Name() string { return PolicyLive.String() }

// Objects reports the number of elements allocated and not yet deallocated.
type Objects struct {
	total atomic.Uint64
}

func (o *Objects) OnAllocate(objects int, _ uint64) { o.total.Add(uint64(objects)) }

func (o *Objects) OnDeallocate(objects int, _ uint64) error {
	return checkedSub(&o.total, uint64(objects))
}

func (o *Objects) Report() uint64 { return o.total.Load() }

func (o *Objects) Name() string { return PolicyObjects.String() }

func checkedSub(v *atomic.Uint64, delta uint64) error {
	for {
		cur := v.Load()
		if delta > cur {
			return fmt.Errorf("%w: have %d, releasing %d", ErrUnderflow, cur, delta)
		}
		if v.CompareAndSwap(cur, cur-delta) {
			return nil
		}
	}
}

var (
	_ AccountingPolicy = (*Cumulative)(nil)
	_ AccountingPolicy = (*Live)(nil)
	_ AccountingPolicy = (*Objects)(nil)
)
