// Get/Getu resolve a logical address to a Handle, the read/write view
// onto store bytes. Grounded on folio's read/write accessor pair,
// which separately validates bounds before ever touching mapped
// memory.
package strata

// checkGetParams validates a requested (addr, size) window against the
// database's current state before any address translation is
// attempted.
func (db *Database) checkGetParams(addr Addr, size int64, writable bool) error {
	if err := db.checkClosed(); err != nil {
		return err
	}
	if writable && db.mode == ReadOnly {
		return ErrReadOnlyAddress
	}
	if addr.IsNull() || size <= 0 {
		return ErrBadAddress
	}
	if int64(addr)+size > db.currentLogical {
		return ErrBadAddress
	}
	if writable && int64(addr) < int64(db.firstWritableAddress()) {
		return ErrReadOnlyAddress
	}
	return nil
}

// Get returns a read-only Handle onto size bytes at addr within the
// currently synced revision. initialized matters only for a request
// that spans regions: when true the heap buffer is filled from the
// store, when false it is left zeroed. A non-spanning handle always
// views the mapped bytes directly, whatever initialized says.
func (db *Database) Get(addr Addr, size int64, initialized bool) (*Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkGetParams(addr, size, false); err != nil {
		return nil, err
	}
	return newHandle(db.storage, addr, size, initialized, false)
}

// GetWritable returns a writable Handle onto size bytes at addr. addr
// must lie at or after the first writable address of the currently
// synced revision: committed bytes behind the trailer are immutable.
func (db *Database) GetWritable(addr Addr, size int64, initialized bool) (*Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkGetParams(addr, size, true); err != nil {
		return nil, err
	}
	h, err := newHandle(db.storage, addr, size, initialized, true)
	if err != nil {
		return nil, err
	}
	db.modified = true
	return h, nil
}

// Getu is the unique-access counterpart to Get: same read-only
// semantics, but the returned Handle is guaranteed not to alias any
// other live Handle's buffer. In folio, shared vs. unique reads differ
// because its reader pool may pin the underlying page; strata's
// Storage has no such pool, so Getu simply forces a spanning-style
// owned copy instead of aliasing mapped memory directly.
func (db *Database) Getu(addr Addr, size int64, initialized bool) (*Handle, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkGetParams(addr, size, false); err != nil {
		return nil, err
	}

	buf, err := db.storage.CopyFromStore(addr, size)
	if err != nil {
		return nil, err
	}
	return &Handle{bytes: buf, writable: false, spanning: true, addr: addr, storage: db.storage}, nil
}
