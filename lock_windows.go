//go:build windows

// LockFileEx/UnlockFileEx byte-range locks for Windows. Both methods
// are called with l.mu held by the exported Lock/Unlock/Upgrade.
package strata

import (
	"syscall"
	"unsafe"
)

var (
	modkernel32      = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx   = modkernel32.NewProc("LockFileEx")
	procUnlockFileEx = modkernel32.NewProc("UnlockFileEx")
)

const lockfileExclusiveLock = 0x00000002

func (l *RangeLock) lock(kind LockKind) error {
	var flags uint32
	if kind == ExclusiveWrite {
		flags |= lockfileExclusiveLock
	}

	h := syscall.Handle(l.file.Fd())
	var overlapped syscall.Overlapped
	overlapped.Offset = uint32(l.offset)
	overlapped.OffsetHigh = uint32(l.offset >> 32)

	lo := uint32(l.length)
	hi := uint32(l.length >> 32)

	r1, _, err := procLockFileEx.Call(
		uintptr(h),
		uintptr(flags),
		0,
		uintptr(lo),
		uintptr(hi),
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		return err
	}
	return nil
}

func (l *RangeLock) unlock() error {
	h := syscall.Handle(l.file.Fd())
	var overlapped syscall.Overlapped
	overlapped.Offset = uint32(l.offset)
	overlapped.OffsetHigh = uint32(l.offset >> 32)

	lo := uint32(l.length)
	hi := uint32(l.length >> 32)

	r1, _, err := procUnlockFileEx.Call(
		uintptr(h),
		0,
		uintptr(lo),
		uintptr(hi),
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if r1 == 0 {
		return err
	}
	return nil
}
