//go:build unix || linux || darwin

// fcntl(2) byte-range advisory locks for Unix platforms, via
// golang.org/x/sys/unix.FcntlFlock. Both methods are called with
// l.mu held by the exported Lock/Unlock/Upgrade.
package strata

import "golang.org/x/sys/unix"

func (l *RangeLock) lock(kind LockKind) error {
	typ := int16(unix.F_RDLCK)
	if kind == ExclusiveWrite {
		typ = unix.F_WRLCK
	}
	fl := unix.Flock_t{
		Type:   typ,
		Whence: 0, // SEEK_SET
		Start:  l.offset,
		Len:    l.length,
	}
	// F_SETLKW blocks until the lock is available.
	return unix.FcntlFlock(l.file.Fd(), unix.F_SETLKW, &fl)
}

func (l *RangeLock) unlock() error {
	fl := unix.Flock_t{
		Type:   unix.F_UNLCK,
		Whence: 0,
		Start:  l.offset,
		Len:    l.length,
	}
	return unix.FcntlFlock(l.file.Fd(), unix.F_SETLK, &fl)
}
