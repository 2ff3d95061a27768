// Inter-process range locking over the on-disk lock block.
//
// Grounded on folio/lock.go's fileLock: a mutex-guarded wrapper around
// an *os.File that serialises OS lock syscalls against handle teardown
// so Close can never race a concurrent Lock/Unlock. Generalized from
// folio's whole-file flock(2) to POSIX byte-range advisory locks
// (fcntl F_SETLK/F_SETLKW via golang.org/x/sys/unix.FcntlFlock) since
// the spec requires locking a specific sub-range (the vacuum_lock slot
// in the lock block), not the whole file.
package strata

import "sync"

// LockKind selects shared-read or exclusive-write locking.
type LockKind int

const (
	SharedRead LockKind = iota
	ExclusiveWrite
)

// RangeLock coordinates an OS byte-range lock with safe handle
// teardown. mu serialises the lock/unlock syscalls against clear so a
// concurrent Close cannot invalidate the fd mid-syscall.
type RangeLock struct {
	mu     sync.Mutex
	file   *File
	offset int64
	length int64
	held   bool
	kind   LockKind
}

// NewRangeLock creates a lock over [offset, offset+length) of file.
// The lock is not acquired until Lock is called.
func NewRangeLock(file *File, offset, length int64) *RangeLock {
	return &RangeLock{file: file, offset: offset, length: length}
}

// Lock blocks until an OS range lock of kind is acquired. Returns nil
// immediately if the handle has been cleared via clear().
func (l *RangeLock) Lock(kind LockKind) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	if err := l.lock(kind); err != nil {
		return err
	}
	l.held = true
	l.kind = kind
	return nil
}

// Unlock releases the range lock. Returns nil immediately if the
// handle has been cleared.
func (l *RangeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || !l.held {
		return nil
	}
	if err := l.unlock(); err != nil {
		return err
	}
	l.held = false
	return nil
}

// Upgrade releases the current lock and blocks acquiring a new one of
// kind, without any window where the lock state is ambiguous to the
// caller (Upgrade either fully succeeds at the new kind or returns an
// error; if releasing the current lock fails, that lock is still held,
// and if acquiring the new kind fails, no lock is held).
func (l *RangeLock) Upgrade(kind LockKind) error {
	if err := l.Unlock(); err != nil {
		return err
	}
	return l.Lock(kind)
}

// clear detaches the underlying file, draining any in-flight syscall
// first. Subsequent Lock/Unlock calls become no-ops. Used by Close
// before the file descriptor itself is closed.
func (l *RangeLock) clear() {
	l.mu.Lock()
	l.file = nil
	l.mu.Unlock()
}
