// Handle is the single return type for both Get and Getu: a
// non-spanning handle is a zero-cost view into mapped memory, a
// spanning handle owns a heap buffer produced by scatter-gather copy.
// The consumer does not need to know which.
//
// Go has no destructors, so the "on drop, copy back" contract from
// spec §9 is modeled as an explicit Close method that writable
// spanning handles must call; non-spanning and read-only handles have
// a no-op Close, matching the pattern of *os.File-shaped resources
// elsewhere in the teacher's API.
package strata

// Handle is a read or write view over store bytes, possibly spanning
// multiple mapped regions.
type Handle struct {
	bytes    []byte
	writable bool
	spanning bool
	writeBack func([]byte) error
	addr     Addr
	storage  *Storage
}

// Bytes returns the handle's view. For a non-spanning handle this
// aliases mapped memory directly; for a spanning handle it is a heap
// copy. Either way, len(Bytes()) == the size requested from Get/Getu.
func (h *Handle) Bytes() []byte { return h.bytes }

// Close writes a spanning, writable handle's buffer back to the store.
// It is a no-op for read handles and for non-spanning handles (whose
// Bytes() already aliases mapped memory, so nothing needs copying
// back).
func (h *Handle) Close() error {
	if h.writeBack == nil {
		return nil
	}
	wb := h.writeBack
	h.writeBack = nil
	return wb(h.bytes)
}

// newHandle builds the appropriate Handle shape for a [addr, addr+size)
// request: non-spanning requests get a direct mapped-memory view;
// spanning requests get a scatter-copied heap buffer, optionally primed
// from the store (initialized) and optionally wired for write-back.
func newHandle(storage *Storage, addr Addr, size int64, initialized, writable bool) (*Handle, error) {
	spans := storage.RequestSpansRegions(addr, size)
	if !spans {
		view, err := storage.AddressToPointer(addr)
		if err != nil {
			return nil, err
		}
		if int64(len(view)) < size {
			return nil, ErrBadAddress
		}
		return &Handle{bytes: view[:size:size], writable: writable, addr: addr, storage: storage}, nil
	}

	var buf []byte
	if initialized {
		b, err := storage.CopyFromStore(addr, size)
		if err != nil {
			return nil, err
		}
		buf = b
	} else {
		buf = make([]byte, size)
	}

	h := &Handle{bytes: buf, writable: writable, spanning: true, addr: addr, storage: storage}
	if writable {
		h.writeBack = func(b []byte) error {
			return storage.CopyToStore(addr, b)
		}
	}
	return h, nil
}
