// RegionSet is the ordered collection of mapped regions covering
// [0, physical_size). It grows by appending regions as logical size
// increases; existing regions are never unmapped or moved while the
// set is growing, so base pointers handed out earlier remain valid for
// the life of the owning Database (spec §5).
//
// Grounded on the growth-trigger shape of the mmap persister in
// other_examples/031b72b6_marmos91-dittofs__pkg-wal-mmap.go.go
// (grow-when-exceeded, power-of-two sizing), generalized from
// unmap-and-remap-one-region to append-one-more-region so that earlier
// regions' backing arrays are never invalidated.
package strata

import (
	"sort"
)

// RegionSet is an ordered, gapless arena of Regions. It is not
// safe for concurrent mutation; callers coordinate growth against
// concurrent reads via the owning Database's lock discipline.
type RegionSet struct {
	file          *File
	writable      bool
	minRegionSize int64
	regions       []*Region
}

// NewRegionSet creates an empty region set backed by file. A
// minRegionSize of 0 or less selects exact-growth mode (Config.SmallFiles):
// every region is sized exactly to the gap being filled, with no floor
// and no doubling headroom.
func NewRegionSet(file *File, writable bool, minRegionSize int64) *RegionSet {
	return &RegionSet{file: file, writable: writable, minRegionSize: minRegionSize}
}

// PhysicalSize returns the total length currently mapped.
func (rs *RegionSet) PhysicalSize() int64 {
	if len(rs.regions) == 0 {
		return 0
	}
	last := rs.regions[len(rs.regions)-1]
	return last.end()
}

// nextRegionSize computes the size of the next region to append, given
// the total already mapped and the amount still needed. The first
// region is minRegionSize; each later region is as large as everything
// mapped so far, so the mapped total doubles with every growth step.
// MapBytes doubles a region further when it would still fall short. A minRegionSize of 0 (set for
// Config.SmallFiles) disables the floor and the doubling headroom
// entirely: each region is sized exactly to the gap being filled, so
// the file's physical size never exceeds its logical size.
func (rs *RegionSet) nextRegionSize(mapped, needed int64) int64 {
	if rs.minRegionSize <= 0 {
		return needed
	}
	if mapped == 0 {
		return rs.minRegionSize
	}
	return mapped // doubling: next region is as large as everything mapped so far
}

// MapBytes ensures the region set covers at least [0, newLogical). It
// is idempotent and safe to call repeatedly with non-decreasing
// arguments: if newLogical does not exceed what's already mapped, it
// is a no-op. oldLogical is accepted for interface symmetry with the
// spec but is not otherwise consulted — growth is always computed from
// what is actually mapped.
func (rs *RegionSet) MapBytes(oldLogical, newLogical int64) error {
	_ = oldLogical
	for rs.PhysicalSize() < newLogical {
		mapped := rs.PhysicalSize()
		size := rs.nextRegionSize(mapped, newLogical-mapped)
		for mapped+size < newLogical {
			size *= 2
		}

		// A read-only descriptor cannot grow the file; a reader maps
		// only bytes a writer has already extended the file to cover.
		if rs.writable {
			if err := rs.file.Truncate(mapped + size); err != nil {
				return err
			}
		}
		region, err := mapRegion(rs.file.Fd(), mapped, size, rs.writable)
		if err != nil {
			return err
		}
		rs.regions = append(rs.regions, region)
	}
	return nil
}

// TruncateToPhysicalSize discards regions that lie entirely beyond
// logicalSize and truncates the backing file accordingly. It is the
// caller's responsibility to ensure no reader holds a view into the
// discarded tail (spec §9 open question: shrinking below any reader's
// current view is forbidden; this is enforced by Database, not here).
func (rs *RegionSet) TruncateToPhysicalSize(logicalSize int64) error {
	keep := rs.regions[:0:0]
	var physical int64
	for _, r := range rs.regions {
		if r.BaseOffset >= logicalSize {
			if err := r.unmap(); err != nil {
				return err
			}
			continue
		}
		keep = append(keep, r)
		physical = r.end()
	}
	rs.regions = keep
	return rs.file.Truncate(physical)
}

// regionFor returns the region containing addr via binary search over
// BaseOffset, or nil if addr is not currently mapped.
func (rs *RegionSet) regionFor(addr Addr) *Region {
	off := int64(addr)
	i := sort.Search(len(rs.regions), func(i int) bool {
		return rs.regions[i].end() > off
	})
	if i >= len(rs.regions) {
		return nil
	}
	r := rs.regions[i]
	if !r.contains(addr) {
		return nil
	}
	return r
}

// Close unmaps every region.
func (rs *RegionSet) Close() error {
	var firstErr error
	for _, r := range rs.regions {
		if err := r.unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	rs.regions = nil
	return firstErr
}
