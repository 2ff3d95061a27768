// A Region covers one contiguous memory mapping of a sub-range of the
// store file.
package strata

import "golang.org/x/sys/unix"

// Region is one contiguous [BaseOffset, BaseOffset+Length) mapping.
type Region struct {
	BaseOffset int64
	Length     int64
	data       []byte // mmap'd bytes, length == Length
	mapping    []byte // whole mapping, starting at the page boundary at or below BaseOffset
	writable   bool
}

// mapRegion mmaps [offset, offset+length) of fd. The mapping is
// PROT_READ (and PROT_WRITE if writable) with MAP_SHARED, so writes
// through the mapping (or via writable Handles) are visible to other
// mappings of the same file, in-process or cross-process.
func mapRegion(fd uintptr, offset, length int64, writable bool) (*Region, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	// mmap offsets must be page-aligned; map from the page boundary
	// below offset and expose only [offset, offset+length).
	pageOff := offset % int64(unix.Getpagesize())
	mapping, err := unix.Mmap(int(fd), offset-pageOff, int(length+pageOff), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, osErr("mmap", "", err)
	}
	return &Region{BaseOffset: offset, Length: length, data: mapping[pageOff:], mapping: mapping, writable: writable}, nil
}

// unmap releases the mapping. The Region must not be used afterward.
func (r *Region) unmap() error {
	if r.mapping == nil {
		return nil
	}
	err := unix.Munmap(r.mapping)
	r.data = nil
	r.mapping = nil
	if err != nil {
		return osErr("munmap", "", err)
	}
	return nil
}

// contains reports whether addr falls within this region.
func (r *Region) contains(addr Addr) bool {
	off := int64(addr)
	return off >= r.BaseOffset && off < r.BaseOffset+r.Length
}

// end returns the exclusive end offset of the region.
func (r *Region) end() int64 { return r.BaseOffset + r.Length }
