package alloc

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/joshuapare/allockit/internal/logger"
)

// state is the counter shared by every handle of one lineage.
// Its lifetime is the longest-surviving handle: refs counts handles, and the
// last release tears it down.
type state struct {
	policy   AccountingPolicy
	elemSize uintptr
	checked  bool
	log      *slog.Logger
	teardown func(Stats)

	refs atomic.Int64

	allocs   atomic.Uint64
	deallocs atomic.Uint64
	bytesIn  atomic.Uint64
	bytesOut atomic.Uint64
	peak     atomic.Uint64
}

func newState(elemSize uintptr, opts *Options) *state {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	st := &state{
		policy:   opts.policy(),
		elemSize: elemSize,
		checked:  opts.Checked,
		teardown: opts.OnTeardown,
	}
	st.log = log.With("counter", fmt.Sprintf("%p", st))
	st.refs.Store(1)
	st.log.Debug("creating counter", "policy", st.policy.Name(), "element_size", elemSize)
	return st
}

func (s *state) acquire() *state {
	s.refs.Add(1)
	return s
}

func (s *state) release() {
	n := s.refs.Add(-1)
	switch {
	case n == 0:
		final := s.stats()
		s.log.Debug("destroying counter", "report", final.String())
		if s.teardown != nil {
			s.teardown(final)
		}
	case n < 0:
		panic("alloc: counter released more times than acquired")
	}
}

// recordAlloc runs only after the source succeeded, so a failed request
// never shows up in the counter.
func (s *state) recordAlloc(objects int, bytes uint64) {
	s.policy.OnAllocate(objects, bytes)
	s.allocs.Add(1)
	in := s.bytesIn.Add(bytes)
	out := s.bytesOut.Load()
	if out >= in {
		return
	}
	live := in - out
	for {
		p := s.peak.Load()
		if live <= p || s.peak.CompareAndSwap(p, live) {
			break
		}
	}
}

// recordDealloc tallies the release unless a checked counter refuses it.
func (s *state) recordDealloc(objects int, bytes uint64) error {
	err := s.policy.OnDeallocate(objects, bytes)
	if err != nil && s.checked {
		return err
	}
	s.deallocs.Add(1)
	s.bytesOut.Add(bytes)
	return err
}

func (s *state) debugEnabled() bool {
	return s.log.Enabled(context.Background(), slog.LevelDebug)
}

func (s *state) stats() Stats {
	return Stats{
		Policy:         s.policy.Name(),
		ElementSize:    s.elemSize,
		Count:          s.policy.Report(),
		Refs:           s.refs.Load(),
		Allocations:    s.allocs.Load(),
		Deallocations:  s.deallocs.Load(),
		BytesAllocated: s.bytesIn.Load(),
		BytesReleased:  s.bytesOut.Load(),
		PeakLive:       s.peak.Load(),
	}
}
