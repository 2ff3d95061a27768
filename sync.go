// Sync walks forward to the newest trailer or backward through the
// generation chain to a named historical revision, with full trailer
// validation at every step.
package strata

// Sync moves the database's view to revision, which is either Head()
// or AtGeneration(g). All validations must succeed, or Sync leaves the
// database unchanged and returns an error.
func (db *Database) Sync(revision Revision) error {
	if err := db.checkClosed(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	pos := db.footer
	tail := db.currentTrailer
	if revision.head || revision.generation > db.currentGeneration {
		newFooter := db.header.FooterPos()
		if revision.head && newFooter == db.footer {
			return nil // nothing to do: head hasn't moved
		}

		size, err := db.file.Size()
		if err != nil {
			return err
		}
		if int64(newFooter)+TrailerSize > size {
			return ErrFooterCorrupt
		}

		if err := db.regions.MapBytes(db.currentLogical, int64(newFooter)+TrailerSize); err != nil {
			return err
		}
		db.storage.UpdateMasterPointers()

		trailer, err := db.decodeTrailerAt(newFooter)
		if err != nil {
			return err
		}

		pos = newFooter
		tail = trailer
	}

	if !revision.head {
		for {
			if revision.generation > tail.Generation {
				return ErrUnknownRevision
			}
			if tail.Generation == revision.generation {
				break
			}
			prevPos := tail.PrevGeneration
			if prevPos.IsNull() {
				return ErrUnknownRevision
			}
			prevTrailer, err := db.decodeTrailerAt(prevPos)
			if err != nil {
				return err
			}
			if err := validateLink(tail, pos, prevTrailer); err != nil {
				return err
			}
			pos = prevPos
			tail = prevTrailer
		}
	}

	db.footer = pos
	db.currentTrailer = tail
	db.currentGeneration = tail.Generation
	db.currentLogical = int64(pos) + TrailerSize

	db.config.Logger.Debug().
		Uint32("generation", db.currentGeneration).
		Int64("footer", int64(db.footer)).
		Msg("strata: sync")

	return nil
}

// decodeTrailerAt reads and CRC-validates the trailer at pos without
// touching the database's cached footer/generation state. Callers
// commit the result to state only after every validation step passes.
func (db *Database) decodeTrailerAt(pos Addr) (*Trailer, error) {
	buf, err := db.storage.CopyFromStore(pos, TrailerSize)
	if err != nil {
		return nil, err
	}
	return decodeTrailer(buf)
}

// CurrentGeneration returns the generation the database is currently
// synced to.
func (db *Database) CurrentGeneration() uint32 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.currentGeneration
}

// LogicalSize returns the byte range considered valid storage for the
// currently synced revision.
func (db *Database) LogicalSize() int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.currentLogical
}
