package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want PolicyKind
	}{
		{"live", PolicyLive},
		{"", PolicyLive},
		{"Cumulative", PolicyCumulative},
		{" monotonic ", PolicyCumulative},
		{"OBJECTS", PolicyObjects},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePolicy("peak")
	require.ErrorContains(t, err, `unknown policy "peak"`)
}

func TestPolicyKind_String(t *testing.T) {
	assert.Equal(t, "live", PolicyLive.String())
	assert.Equal(t, "cumulative", PolicyCumulative.String())
	assert.Equal(t, "objects", PolicyObjects.String())
	assert.Equal(t, "PolicyKind(9)", PolicyKind(9).String())
}

func TestNewPolicy_FreshInstances(t *testing.T) {
	a := NewPolicy(PolicyLive)
	b := NewPolicy(PolicyLive)
	a.OnAllocate(1, 4)
	assert.Equal(t, uint64(4), a.Report())
	assert.Zero(t, b.Report(), "each call must return independent state")

	assert.IsType(t, &Cumulative{}, NewPolicy(PolicyCumulative))
	assert.IsType(t, &Objects{}, NewPolicy(PolicyObjects))
	assert.IsType(t, &Live{}, NewPolicy(PolicyKind(42)))
}

func TestLive_Underflow(t *testing.T) {
	var l Live
	l.OnAllocate(2, 8)
	require.NoError(t, l.OnDeallocate(1, 4))
	assert.Equal(t, uint64(4), l.Report())

	err := l.OnDeallocate(2, 8)
	require.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, uint64(4), l.Report(), "refused deallocation leaves the total")
}

func TestObjects_CountsElements(t *testing.T) {
	var o Objects
	o.OnAllocate(20, 80)
	assert.Equal(t, uint64(20), o.Report())
	require.NoError(t, o.OnDeallocate(20, 80))
	assert.Zero(t, o.Report())
	require.ErrorIs(t, o.OnDeallocate(1, 4), ErrUnderflow)
}

func TestCumulative_IgnoresDeallocate(t *testing.T) {
	var c Cumulative
	c.OnAllocate(1, 4)
	require.NoError(t, c.OnDeallocate(100, 400))
	assert.Equal(t, uint64(4), c.Report())
}

func TestStats_String(t *testing.T) {
	s := Stats{
		Policy:         "live",
		ElementSize:    4,
		Count:          1024,
		Refs:           2,
		Allocations:    3,
		Deallocations:  1,
		BytesAllocated: 3072,
		BytesReleased:  2048,
		PeakLive:       2048,
	}
	assert.Equal(t,
		"report: 1,024 bytes (live, element size 4, 2 refs, 3 allocations, 1 deallocations, peak 2,048 bytes)",
		s.String())
	assert.Equal(t, uint64(1024), s.Live())

	s.Policy = "objects"
	assert.Equal(t, "objects", s.Unit())

	assert.Zero(t, Stats{BytesAllocated: 1, BytesReleased: 2}.Live())
}
