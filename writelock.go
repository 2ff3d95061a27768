package strata

// UpgradeToWriteLock blocks until this database holds the exclusive
// range lock, downgrading back to shared-read is the caller's
// responsibility via DowngradeToReadLock. Most callers should prefer
// Begin/Commit, which manage this transition automatically; this is
// exposed directly for callers that need to hold the write lock across
// several Allocate/Write calls without the bookkeeping Transaction
// performs (no automatic trailer append on release).
func (db *Database) UpgradeToWriteLock() error {
	if err := db.checkClosed(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.vacuumLock.Upgrade(ExclusiveWrite); err != nil {
		return err
	}
	db.state.Store(stateExclusiveWrite)
	return nil
}

// DowngradeToReadLock releases the exclusive range lock acquired by
// UpgradeToWriteLock and reacquires shared-read.
func (db *Database) DowngradeToReadLock() error {
	if err := db.checkClosed(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.vacuumLock.Upgrade(SharedRead); err != nil {
		return err
	}
	db.state.Store(stateSharedRead)
	return nil
}
