// Package regionmap models the virtual memory regions of a target
// process. Regions are transient: the target's address space can change
// between any two calls, so enumerations are recomputed per call and
// never cached.
package regionmap

import (
	"fmt"
	"sort"
)

// Region is one contiguous address range with uniform state and
// protection, as reported by the OS.
type Region struct {
	Base       uint64
	Size       uint64
	State      string // "committed", "reserved", "free" (Windows); "mapped" elsewhere
	Protection string // decoded protection, e.g. "rw-" or "r-xp"
	Kind       string // "private", "image", "mapped" or a backing path
	Readable   bool
	Writable   bool
	Executable bool
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Base + r.Size
}

// Contains reports whether addr falls inside the region.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.Base && addr < r.End()
}

// String returns a one-line summary of the region.
func (r Region) String() string {
	return fmt.Sprintf("Base: %x, Size: %d, Protection: %s, State: %s", r.Base, r.Size, r.Protection, r.State)
}

// Sort orders regions by ascending base address in place.
func Sort(regions []Region) {
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Base < regions[j].Base
	})
}

// Find returns the region containing addr, or nil. The slice must be
// sorted by ascending base address.
func Find(addr uint64, regions []Region) *Region {
	i := sort.Search(len(regions), func(i int) bool {
		return regions[i].End() > addr
	})
	if i < len(regions) && regions[i].Base <= addr {
		return &regions[i]
	}
	return nil
}
