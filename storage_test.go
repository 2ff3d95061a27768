package strata

import (
	"bytes"
	"testing"
)

func newTestStorage(t *testing.T, minRegionSize int64, size int64) *Storage {
	t.Helper()
	rs, _ := newTestRegionSet(t, minRegionSize)
	if err := rs.MapBytes(0, size); err != nil {
		t.Fatalf("MapBytes: %v", err)
	}
	return NewStorage(rs)
}

func TestStorageNonSpanningRoundTrip(t *testing.T) {
	s := newTestStorage(t, 4096, 4096)

	data := []byte("strata-store")
	if err := s.CopyToStore(Addr(128), data); err != nil {
		t.Fatalf("CopyToStore: %v", err)
	}
	got, err := s.CopyFromStore(Addr(128), int64(len(data)))
	if err != nil {
		t.Fatalf("CopyFromStore: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("CopyFromStore = %q, want %q", got, data)
	}
	if s.RequestSpansRegions(Addr(128), int64(len(data))) {
		t.Fatalf("RequestSpansRegions = true for a request inside one region")
	}
}

func TestStorageSpanningRoundTrip(t *testing.T) {
	s := newTestStorage(t, 16, 16)
	if err := s.regions.MapBytes(16, 64); err != nil {
		t.Fatalf("MapBytes: %v", err)
	}
	s.UpdateMasterPointers()

	data := []byte("0123456789abcdef0123")
	addr := Addr(10)
	if !s.RequestSpansRegions(addr, int64(len(data))) {
		t.Fatalf("RequestSpansRegions = false, want true for a request crossing the 16-byte boundary")
	}

	if err := s.CopyToStore(addr, data); err != nil {
		t.Fatalf("CopyToStore: %v", err)
	}
	got, err := s.CopyFromStore(addr, int64(len(data)))
	if err != nil {
		t.Fatalf("CopyFromStore: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("CopyFromStore = %q, want %q", got, data)
	}
}

func TestStorageAddressToPointerBadAddress(t *testing.T) {
	s := newTestStorage(t, 64, 64)
	if _, err := s.AddressToPointer(Addr(10000)); err != ErrBadAddress {
		t.Fatalf("AddressToPointer(unmapped) = %v, want ErrBadAddress", err)
	}
}

func TestHandleSpanningCloseWritesBack(t *testing.T) {
	s := newTestStorage(t, 16, 16)
	if err := s.regions.MapBytes(16, 64); err != nil {
		t.Fatalf("MapBytes: %v", err)
	}
	s.UpdateMasterPointers()

	addr := Addr(10)
	h, err := newHandle(s, addr, 20, false, true)
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}
	copy(h.Bytes(), []byte("abcdefghijklmnopqrst"))
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := s.CopyFromStore(addr, 20)
	if err != nil {
		t.Fatalf("CopyFromStore: %v", err)
	}
	if string(got) != "abcdefghijklmnopqrst" {
		t.Fatalf("CopyFromStore after Close = %q", got)
	}
}

func TestHandleNonSpanningAliasesMemory(t *testing.T) {
	s := newTestStorage(t, 4096, 4096)
	h, err := newHandle(s, Addr(0), 8, false, true)
	if err != nil {
		t.Fatalf("newHandle: %v", err)
	}
	copy(h.Bytes(), []byte("aliasing"))
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := s.CopyFromStore(Addr(0), 8)
	if err != nil {
		t.Fatalf("CopyFromStore: %v", err)
	}
	if string(got) != "aliasing" {
		t.Fatalf("non-spanning write not visible through store: %q", got)
	}
}
