package alloc

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a point-in-time snapshot of a counter.
type Stats struct {
	Policy      string  // AccountingPolicy.Name()
	ElementSize uintptr // element size of the handle that created the counter
	Count       uint64  // AccountingPolicy.Report()
	Refs        int64   // live handles sharing the counter

	Allocations    uint64 // successful Allocate calls
	Deallocations  uint64 // successful Deallocate calls
	BytesAllocated uint64 // raw bytes handed out, independent of policy
	BytesReleased  uint64 // raw bytes returned, independent of policy
	PeakLive       uint64 // highest BytesAllocated - BytesReleased observed
}

// Live returns the raw bytes currently outstanding.
func (s Stats) Live() uint64 {
	if s.BytesReleased > s.BytesAllocated {
		return 0
	}
	return s.BytesAllocated - s.BytesReleased
}

// Unit is "objects" for the objects policy and "bytes" otherwise.
func (s Stats) Unit() string {
	if s.Policy == PolicyObjects.String() {
		return "objects"
	}
	return "bytes"
}

var printer = message.NewPrinter(language.English)

// String renders the report line with digit grouping, e.g.
// "report: 1,024 bytes (live, element size 4, 2 refs, 3 allocations, 1 deallocations, peak 2,048 bytes)".
func (s Stats) String() string {
	return printer.Sprintf("report: %d %s (%s, element size %d, %d refs, %d allocations, %d deallocations, peak %d bytes)",
		s.Count, s.Unit(), s.Policy, s.ElementSize, s.Refs, s.Allocations, s.Deallocations, s.PeakLive)
}
