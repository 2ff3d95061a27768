// Logical-size growth and shrink: Allocate reserves bytes at the
// current logical cursor (padding for alignment), Truncate is its
// inverse.
package strata

// Allocate reserves size bytes at the current logical cursor, aligned
// to align (which must be a power of two), growing the region set as
// needed. It returns the address of the first reserved byte.
func (db *Database) Allocate(size int64, align int64) (Addr, error) {
	if err := db.checkClosed(); err != nil {
		return 0, err
	}
	if align <= 0 || align&(align-1) != 0 {
		return 0, ErrBadAddress
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return db.allocateLocked(size, align)
}

// allocateLocked is Allocate's body, callable by other Database methods
// (Transaction.Commit appending the new trailer) that already hold
// db.mu; Allocate itself just takes the lock and delegates here.
func (db *Database) allocateLocked(size int64, align int64) (Addr, error) {
	padding := (align - (db.currentLogical % align)) % align
	result := db.currentLogical + padding
	newLogical := result + size

	if err := db.regions.MapBytes(db.currentLogical, newLogical); err != nil {
		return 0, err
	}
	db.storage.UpdateMasterPointers()

	if db.config.SmallFiles {
		if err := db.file.Truncate(newLogical); err != nil {
			return 0, err
		}
	}

	db.currentLogical = newLogical
	db.modified = true

	return Addr(result), nil
}

// Truncate shrinks the logical size back to n. The caller must ensure
// no reader holds a view into the bytes being discarded (spec §9 open
// question: the spec conservatively forbids shrinking below any
// reader's current view; this implementation makes that explicit by
// refusing to shrink below the first writable address of the synced
// revision).
func (db *Database) Truncate(n int64) error {
	if err := db.checkClosed(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if n < int64(db.firstWritableAddress()) {
		return ErrBadAddress
	}
	if n > db.currentLogical {
		return ErrBadAddress
	}

	db.currentLogical = n
	if db.config.SmallFiles {
		if err := db.regions.TruncateToPhysicalSize(n); err != nil {
			return err
		}
		db.storage.UpdateMasterPointers()
	}
	return nil
}
