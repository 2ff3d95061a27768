// Transaction accumulates writes against a base revision and commits
// them atomically by appending a new trailer and flipping the header's
// footer_pos. Grounded on folio's write-batch-then-commit pattern,
// generalized to strata's explicit generation chain.
package strata

// Transaction is a scoped sequence of allocations and writes ending in
// a single atomic commit. Only one Transaction may be open on a
// Database at a time; Begin upgrades the database's advisory lock from
// shared-read to exclusive-write for the duration.
type Transaction struct {
	db           *Database
	baseFooter   Addr
	baseGen      uint32
	indexRecords [IndexSlots]Addr
	aborted      bool
	committed    bool
}

// Begin starts a transaction: it upgrades the database's range lock to
// exclusive-write, blocking until every other process's readers and
// writers have released it.
func (db *Database) Begin() (*Transaction, error) {
	if err := db.checkClosed(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.vacuumLock.Upgrade(ExclusiveWrite); err != nil {
		return nil, err
	}
	db.state.Store(stateExclusiveWrite)

	tx := &Transaction{
		db:           db,
		baseFooter:   db.footer,
		baseGen:      db.currentGeneration,
		indexRecords: db.currentTrailer.IndexRecords,
	}
	return tx, nil
}

// Allocate reserves size bytes, aligned to align, within the
// transaction's database. Equivalent to calling Database.Allocate
// directly; provided on Transaction for call-site symmetry with
// Write.
func (tx *Transaction) Allocate(size, align int64) (Addr, error) {
	if tx.aborted || tx.committed {
		return 0, ErrStoreClosed
	}
	return tx.db.Allocate(size, align)
}

// Write copies data into the store at addr, which must have been
// returned by a prior Allocate call within this transaction. Addresses
// inside an already committed revision are rejected with
// ErrReadOnlyAddress.
func (tx *Transaction) Write(addr Addr, data []byte) error {
	if tx.aborted || tx.committed {
		return ErrStoreClosed
	}
	h, err := tx.db.GetWritable(addr, int64(len(data)), false)
	if err != nil {
		return err
	}
	copy(h.Bytes(), data)
	return h.Close()
}

// SetIndexRecord sets one of the trailer's named root-address slots,
// to be carried into the trailer this transaction commits.
func (tx *Transaction) SetIndexRecord(slot int, addr Addr) error {
	if slot < 0 || slot >= IndexSlots {
		return ErrBadAddress
	}
	tx.indexRecords[slot] = addr
	return nil
}

// Commit appends a new trailer describing every write this transaction
// made, flushes it (and, if Config.Durable is set, fsyncs it) before
// the header update, then atomically advances the header's footer_pos
// to point at it. The store is left unchanged if any step before the
// footer_pos store fails.
func (tx *Transaction) Commit() (err error) {
	if tx.aborted || tx.committed {
		return ErrStoreClosed
	}
	db := tx.db

	db.mu.Lock()
	defer db.mu.Unlock()

	defer func() {
		tx.committed = err == nil
		if tx.committed {
			db.vacuumLock.Upgrade(SharedRead)
			db.state.Store(stateSharedRead)
		}
	}()

	trailer := &Trailer{
		Generation:     tx.baseGen + 1,
		Time:           nowMillis(),
		PrevGeneration: tx.baseFooter,
		IndexRecords:   tx.indexRecords,
	}

	newFooter, allocErr := db.allocateLocked(TrailerSize, 8)
	if allocErr != nil {
		return allocErr
	}
	encoded := trailer.encode()
	if _, werr := db.storage.CopyToStore(newFooter, encoded); werr != nil {
		return werr
	}

	if db.config.Durable {
		if serr := db.file.Sync(); serr != nil {
			return serr
		}
	}

	db.header.setFooterPos(newFooter)

	if db.config.Durable {
		if serr := db.file.Sync(); serr != nil {
			return serr
		}
	}

	if rerr := db.verifyCommittedTrailer(newFooter, trailer); rerr != nil {
		db.file.Truncate(int64(tx.baseFooter) + TrailerSize)
		db.header.setFooterPos(tx.baseFooter)
		return rerr
	}

	db.footer = newFooter
	db.currentTrailer = trailer
	db.currentGeneration = trailer.Generation
	db.modified = false

	db.config.Logger.Info().
		Uint32("generation", trailer.Generation).
		Int64("footer", int64(newFooter)).
		Msg("strata: committed")

	return nil
}

// verifyCommittedTrailer rereads the just-written trailer from mapped
// memory and confirms its CRC and contents, catching a torn or
// corrupted write before the commit is considered durable.
func (db *Database) verifyCommittedTrailer(pos Addr, want *Trailer) error {
	buf, err := db.storage.CopyFromStore(pos, TrailerSize)
	if err != nil {
		return err
	}
	got, err := decodeTrailer(buf)
	if err != nil {
		return ErrFooterCorrupt
	}
	if got.Generation != want.Generation || got.PrevGeneration != want.PrevGeneration {
		return ErrFooterCorrupt
	}
	return nil
}

// Abort discards every write the transaction made and releases the
// exclusive-write lock without touching the header.
func (tx *Transaction) Abort() error {
	if tx.aborted || tx.committed {
		return ErrStoreClosed
	}
	db := tx.db

	db.mu.Lock()
	defer db.mu.Unlock()

	db.currentLogical = int64(tx.baseFooter) + TrailerSize
	db.modified = false

	if err := db.vacuumLock.Upgrade(SharedRead); err != nil {
		return err
	}
	db.state.Store(stateSharedRead)
	tx.aborted = true

	db.config.Logger.Debug().Msg("strata: aborted transaction")
	return nil
}
