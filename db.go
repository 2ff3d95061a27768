// Database is the top-level handle: open/close, sync, allocate,
// truncate, get/getu, write-lock upgrade, and new-store construction.
//
// Grounded on folio.DB's state+lock triple (atomic.Int32 state +
// sync.Cond + sync.RWMutex), generalized from folio's four-state model
// (StateAll/StateRead/StateNone/StateClosed, which exists to support
// folio's Repair/Rehash maintenance modes) down to the spec's
// three-state commit lock machine: closed, shared_read,
// exclusive_write.
package strata

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

const (
	stateSharedRead int32 = iota
	stateExclusiveWrite
	stateClosed
)

// Revision selects a store state to Sync to: either the current head,
// or a specific historical generation.
type Revision struct {
	head       bool
	generation uint32
}

// Head selects the most recent committed revision.
func Head() Revision { return Revision{head: true} }

// AtGeneration selects a specific historical generation.
func AtGeneration(g uint32) Revision { return Revision{generation: g} }

// Database is an open store handle. It exclusively owns its File and
// RegionSet.
type Database struct {
	root   *os.Root
	path   string
	file   *File
	regions *RegionSet
	storage *Storage
	header  *Header

	mode    AccessMode
	config  Config

	vacuumLock *RangeLock
	state      atomic.Int32

	mu sync.Mutex // guards every field below

	footer            Addr
	currentTrailer    *Trailer
	currentGeneration uint32
	currentLogical    int64

	modified bool
	syncName string
}

// Open opens or creates a store file at dir/name.
func Open(dir, name string, mode AccessMode, config Config) (*Database, error) {
	config = config.resolve()

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, osErr("open", dir, err)
	}

	writable := mode != ReadOnly
	file, err := OpenFile(root, name, writable, PresentAllowNotFound)
	if err != nil {
		root.Close()
		return nil, err
	}

	if !file.IsOpen() {
		if mode != Writable {
			root.Close()
			return nil, osErr("open", name, os.ErrNotExist)
		}
		if err := createNewStore(root, name, config); err != nil {
			root.Close()
			return nil, err
		}
		file, err = OpenFile(root, name, writable, PresentMustExist)
		if err != nil {
			root.Close()
			return nil, err
		}
	}

	db := &Database{
		root:   root,
		path:   name,
		file:   file,
		mode:   mode,
		config: config,
	}

	db.vacuumLock = NewRangeLock(file, HeaderSize+VacuumLockOffset, VacuumLockLength)
	if err := db.vacuumLock.Lock(SharedRead); err != nil {
		file.Close()
		root.Close()
		return nil, err
	}
	db.state.Store(stateSharedRead)

	db.regions = NewRegionSet(file, writable, config.MinRegionSize)

	size, err := file.Size()
	if err != nil {
		db.vacuumLock.Unlock()
		file.Close()
		root.Close()
		return nil, err
	}
	if size < LeaderSize+TrailerSize {
		db.vacuumLock.Unlock()
		file.Close()
		root.Close()
		return nil, fmt.Errorf("%w: file shorter than minimum layout", ErrFooterCorrupt)
	}

	if err := db.regions.MapBytes(0, size); err != nil {
		db.vacuumLock.Unlock()
		file.Close()
		root.Close()
		return nil, err
	}
	db.storage = NewStorage(db.regions)

	headerView, err := db.storage.AddressToPointer(0)
	if err != nil {
		db.teardown()
		return nil, err
	}
	hdr, err := parseHeader(headerView)
	if err != nil {
		db.teardown()
		return nil, err
	}
	db.header = hdr
	db.syncName = deriveSyncName(hdr.UUID, config.NameAlgorithm)

	footer := hdr.FooterPos()
	trailer, err := db.readTrailer(footer)
	if err != nil {
		db.teardown()
		return nil, err
	}
	// The head trailer's own CRC was already checked by decodeTrailer
	// inside readTrailer. The prev_generation link invariant needs the
	// predecessor's bytes to check against, which Sync validates
	// lazily as it walks backward; there is nothing further to verify
	// against a nil predecessor here.

	db.footer = footer
	db.currentTrailer = trailer
	db.currentGeneration = trailer.Generation
	db.currentLogical = int64(footer) + TrailerSize

	config.Logger.Info().
		Str("path", name).
		Str("process", processName()).
		Str("sync_name", db.syncName).
		Uint32("generation", trailer.Generation).
		Msg("strata: opened store")

	return db, nil
}

// createNewStore performs atomic new-store construction: write a fresh
// header+lock block+generation-0 trailer to a uniquely-named temp file,
// then rename it into place. Failure to rename aborts the open.
func createNewStore(root *os.Root, name string, config Config) error {
	tmp, err := CreateUnique(root, config.NameAlgorithm)
	if err != nil {
		return err
	}

	uuid, err := newUUID()
	if err != nil {
		tmp.Close()
		Remove(root, tmp.Name())
		return err
	}

	footerPos := Addr(LeaderSize)
	hdrBytes := encodeHeader(uuid, footerPos)
	if _, err := tmp.WriteAt(hdrBytes, 0); err != nil {
		tmp.Close()
		Remove(root, tmp.Name())
		return err
	}

	lockBlock := encodeLockBlock()
	if _, err := tmp.WriteAt(lockBlock, HeaderSize); err != nil {
		tmp.Close()
		Remove(root, tmp.Name())
		return err
	}

	trailer := &Trailer{Generation: 0, Time: nowMillis(), PrevGeneration: Null}
	if _, err := tmp.WriteAt(trailer.encode(), int64(footerPos)); err != nil {
		tmp.Close()
		Remove(root, tmp.Name())
		return err
	}

	written := int64(footerPos) + TrailerSize
	if !config.SmallFiles && config.MinRegionSize > written {
		if err := tmp.Truncate(config.MinRegionSize); err != nil {
			tmp.Close()
			Remove(root, tmp.Name())
			return err
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		Remove(root, tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		Remove(root, tmp.Name())
		return err
	}

	if err := tmp.Rename(name); err != nil {
		return err
	}
	return nil
}

// readTrailer reads and decodes the trailer at pos.
func (db *Database) readTrailer(pos Addr) (*Trailer, error) {
	if err := db.regions.MapBytes(db.currentLogical, int64(pos)+TrailerSize); err != nil {
		return nil, err
	}
	db.storage.UpdateMasterPointers()
	buf, err := db.storage.CopyFromStore(pos, TrailerSize)
	if err != nil {
		return nil, err
	}
	return decodeTrailer(buf)
}

// teardown releases resources acquired partway through a failed Open.
func (db *Database) teardown() {
	if db.regions != nil {
		db.regions.Close()
	}
	db.vacuumLock.Unlock()
	db.vacuumLock.clear()
	db.file.Close()
	db.root.Close()
}

// SyncName returns the short textual key derived from the store UUID,
// used by external IPC to identify this database.
func (db *Database) SyncName() string { return db.syncName }

// Close closes the database, releasing the lock and all mappings.
// Subsequent operations fail with ErrStoreClosed.
func (db *Database) Close() error {
	db.state.Store(stateClosed)

	db.mu.Lock()
	defer db.mu.Unlock()

	db.vacuumLock.Unlock()
	db.vacuumLock.clear()

	var errs []error
	if err := db.regions.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := db.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := db.root.Close(); err != nil {
		errs = append(errs, err)
	}

	db.config.Logger.Info().Str("path", db.path).Msg("strata: closed store")

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (db *Database) checkClosed() error {
	if db.state.Load() == stateClosed {
		return ErrStoreClosed
	}
	return nil
}

// firstWritableAddress returns footer+sizeof(trailer): the first byte a
// new transaction may write to, so a committed trailer is never
// overwritten.
func (db *Database) firstWritableAddress() Addr {
	return db.footer + TrailerSize
}
