package alloc

import (
	"log/slog"
	"strconv"
	"strings"
)

// Options configures a fresh counter lineage.
//
// Use DefaultOptions() for the documented defaults. Options only apply to New
// and NewWithSource; Clone and Assign carry the configuration of the handle
// they copy from.
type Options struct {
	// Policy selects a built-in accounting policy.
	// Default: PolicyLive (Deallocate subtracts from the counter)
	Policy PolicyKind

	// NewPolicy overrides Policy with a custom implementation.
	// It is called once per fresh counter, never per handle.
	NewPolicy func() AccountingPolicy

	// Checked makes Deallocate return ErrUnderflow when the policy refuses a
	// deallocation. When false the refusal is logged at warn level and
	// Deallocate succeeds; the counter is unchanged either way.
	Checked bool

	// Propagation is the set of container traits reported by the handle.
	// Default: all false, so containers keep their own allocator on
	// copy assignment, move assignment and swap.
	Propagation Propagation

	// Logger overrides the package logger (internal/logger.L) for this lineage.
	Logger *slog.Logger

	// OnTeardown is called once, with the final stats, when the last handle
	// referencing the counter is released.
	OnTeardown func(Stats)
}

// DefaultOptions returns the options used when nil is passed to New.
func DefaultOptions() *Options {
	return &Options{
		Policy: PolicyLive,
	}
}

func (o *Options) policy() AccountingPolicy {
	if o.NewPolicy != nil {
		if p := o.NewPolicy(); p != nil {
			return p
		}
	}
	return NewPolicy(o.Policy)
}

// Propagation mirrors the allocator traits a container consults when it is
// copy-assigned, move-assigned or swapped.
type Propagation struct {
	// OnCopyAssign: the destination adopts the source's allocator on copy assignment.
	OnCopyAssign bool
	// OnMoveAssign: the destination adopts the source's allocator on move assignment.
	OnMoveAssign bool
	// OnSwap: allocators are exchanged along with storage on swap.
	OnSwap bool
}

func (p Propagation) String() string {
	var sb strings.Builder
	sb.WriteString("propagate_on_container_copy_assignment:")
	sb.WriteString(strconv.FormatBool(p.OnCopyAssign))
	sb.WriteString("\npropagate_on_container_move_assignment:")
	sb.WriteString(strconv.FormatBool(p.OnMoveAssign))
	sb.WriteString("\npropagate_on_container_swap:")
	sb.WriteString(strconv.FormatBool(p.OnSwap))
	return sb.String()
}
