package strata

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by store operations. Each is a distinct kind
// in the error taxonomy; callers should use errors.Is against these,
// never string matching.
var (
	// ErrUnknownRevision is returned by Sync for a generation newer than
	// head, or one not present on the trailer chain.
	ErrUnknownRevision = errors.New("strata: unknown revision")

	// ErrFooterCorrupt is returned when a trailer's CRC fails to
	// validate, a trailer lies off the end of the file, or the linked
	// list invariant (generation/time/prev_generation ordering) is
	// violated.
	ErrFooterCorrupt = errors.New("strata: footer corrupt")

	// ErrReadOnlyAddress is returned when a writable handle is requested
	// for an address inside a committed revision.
	ErrReadOnlyAddress = errors.New("strata: address is read-only")

	// ErrBadAddress is returned when [addr, addr+size) exceeds the
	// current logical size.
	ErrBadAddress = errors.New("strata: address out of range")

	// ErrStoreClosed is returned by any operation after Close.
	ErrStoreClosed = errors.New("strata: store closed")

	// ErrBadMessagePartNumber is returned when a control message is
	// constructed with part_no >= num_parts.
	ErrBadMessagePartNumber = errors.New("strata: bad message part number")

	// ErrAlreadyExists names a store path that was created
	// concurrently. No operation in this package returns it: new-store
	// construction renames its temp file over whatever is at the path.
	ErrAlreadyExists = errors.New("strata: store already exists")

	// ErrLockHeld names a lock held by another process. No operation in
	// this package returns it: every lock acquisition blocks until the
	// lock is available.
	ErrLockHeld = errors.New("strata: lock held by another process")
)

// OSError wraps an underlying operating system error with the
// operation and path that produced it. The core never retries
// transient OS errors; they are always surfaced to the caller.
type OSError struct {
	Op   string
	Path string
	Err  error
}

func (e *OSError) Error() string {
	return fmt.Sprintf("strata: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OSError) Unwrap() error { return e.Err }

func osErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OSError{Op: op, Path: path, Err: err}
}
