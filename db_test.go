package strata

import (
	"testing"
)

func testConfig() Config {
	return Config{SmallFiles: true}
}

func TestFreshStore(t *testing.T) {
	dir := t.TempDir()

	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if db.CurrentGeneration() != 0 {
		t.Fatalf("fresh store generation = %d, want 0", db.CurrentGeneration())
	}
	if db.SyncName() == "" {
		t.Fatalf("SyncName() is empty")
	}
}

func TestReopenExistingStore(t *testing.T) {
	dir := t.TempDir()

	db1, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	name := db1.SyncName()
	if err := db1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db2, err := Open(dir, "store.strata", WritableNoCreate, testConfig())
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()

	if db2.SyncName() != name {
		t.Fatalf("reopened sync name = %q, want %q", db2.SyncName(), name)
	}
}

func TestWritableNoCreateFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir, "missing.strata", WritableNoCreate, testConfig()); err == nil {
		t.Fatalf("Open(WritableNoCreate) on missing file = nil error, want error")
	}
}

func TestOneCommit(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	addr, err := tx.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tx.Write(addr, []byte("0123456789abcdef")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if db.CurrentGeneration() != 1 {
		t.Fatalf("generation after one commit = %d, want 1", db.CurrentGeneration())
	}

	h, err := db.Get(addr, 16, true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer h.Close()
	if string(h.Bytes()) != "0123456789abcdef" {
		t.Fatalf("Get bytes = %q", h.Bytes())
	}

	hu, err := db.Getu(addr, 16, true)
	if err != nil {
		t.Fatalf("Getu on committed address: %v", err)
	}
	defer hu.Close()
	if string(hu.Bytes()) != "0123456789abcdef" {
		t.Fatalf("Getu bytes = %q", hu.Bytes())
	}
}

func TestGetOutOfRangeBadAddress(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Get(Addr(1<<30), 8, true); err != ErrBadAddress {
		t.Fatalf("Get(out of range) = %v, want ErrBadAddress", err)
	}
}

// TestSyncBackwardRejectsLaterGenerationAddress is spec scenario S3:
// after syncing back to an older generation, an address that only
// exists in a later generation must be rejected, not just addresses
// past the newest logical size.
func TestSyncBackwardRejectsLaterGenerationAddress(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin (gen 1): %v", err)
	}
	if _, err := tx.Allocate(16, 8); err != nil {
		t.Fatalf("Allocate (gen 1): %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit (gen 1): %v", err)
	}

	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin (gen 2): %v", err)
	}
	gen2Addr, err := tx2.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate (gen 2): %v", err)
	}
	if err := tx2.Write(gen2Addr, make([]byte, 16)); err != nil {
		t.Fatalf("Write (gen 2): %v", err)
	}
	if err := tx2.Commit(); err != nil {
		t.Fatalf("Commit (gen 2): %v", err)
	}

	if db.CurrentGeneration() != 2 {
		t.Fatalf("generation after two commits = %d, want 2", db.CurrentGeneration())
	}

	if err := db.Sync(AtGeneration(0)); err != nil {
		t.Fatalf("Sync(AtGeneration(0)): %v", err)
	}

	if _, err := db.Get(gen2Addr, 16, true); err != ErrBadAddress {
		t.Fatalf("Get(gen-2 address) after Sync(AtGeneration(0)) = %v, want ErrBadAddress", err)
	}
}

// TestReopenAfterCommitRoundTrip is spec property 4 (round trip across
// reopen): a store that has committed at least one transaction must
// still open cleanly, and a fresh read-only reader must see the
// committed bytes.
func TestReopenAfterCommitRoundTrip(t *testing.T) {
	dir := t.TempDir()

	writer, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open (writer): %v", err)
	}

	tx, err := writer.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	addr, err := tx.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tx.Write(addr, []byte("roundtripbytes!!")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close (writer): %v", err)
	}

	reader, err := Open(dir, "store.strata", ReadOnly, testConfig())
	if err != nil {
		t.Fatalf("Open (reader) on a committed store: %v", err)
	}
	defer reader.Close()

	if reader.CurrentGeneration() != 1 {
		t.Fatalf("reopened generation = %d, want 1", reader.CurrentGeneration())
	}

	h, err := reader.Get(addr, 16, true)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	defer h.Close()
	if string(h.Bytes()) != "roundtripbytes!!" {
		t.Fatalf("Get after reopen = %q, want %q", h.Bytes(), "roundtripbytes!!")
	}
}

func TestWriteToReadOnlyAddressRejected(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	addr, err := tx.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tx.Write(addr, make([]byte, 16)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := db.GetWritable(addr, 16, true); err != ErrReadOnlyAddress {
		t.Fatalf("GetWritable(committed address) = %v, want ErrReadOnlyAddress", err)
	}
}

func TestSpanningRead(t *testing.T) {
	dir := t.TempDir()
	config := testConfig()
	config.MinRegionSize = 32
	config.SmallFiles = false

	db, err := Open(dir, "store.strata", Writable, config)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i)
	}
	addr, err := tx.Allocate(int64(len(payload)), 8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tx.Write(addr, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	h, err := db.Get(addr, int64(len(payload)), true)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer h.Close()
	for i, b := range h.Bytes() {
		if b != byte(i) {
			t.Fatalf("byte %d = %d, want %d", i, b, byte(i))
		}
	}
}

func TestSyncBackToHistoricalGeneration(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var firstAddr Addr
	for i := 0; i < 3; i++ {
		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("Begin: %v", err)
		}
		addr, err := tx.Allocate(8, 8)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		if i == 0 {
			firstAddr = addr
		}
		if err := tx.Write(addr, []byte{byte(i), 0, 0, 0, 0, 0, 0, 0}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	if db.CurrentGeneration() != 3 {
		t.Fatalf("generation after three commits = %d, want 3", db.CurrentGeneration())
	}

	if err := db.Sync(AtGeneration(1)); err != nil {
		t.Fatalf("Sync(AtGeneration(1)): %v", err)
	}
	if db.CurrentGeneration() != 1 {
		t.Fatalf("generation after Sync(1) = %d, want 1", db.CurrentGeneration())
	}

	h, err := db.Get(firstAddr, 8, true)
	if err != nil {
		t.Fatalf("Get at historical generation: %v", err)
	}
	h.Close()

	if err := db.Sync(Head()); err != nil {
		t.Fatalf("Sync(Head()): %v", err)
	}
	if db.CurrentGeneration() != 3 {
		t.Fatalf("generation after Sync(Head()) = %d, want 3", db.CurrentGeneration())
	}
}

func TestSyncUnknownGeneration(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.Sync(AtGeneration(99)); err != ErrUnknownRevision {
		t.Fatalf("Sync(AtGeneration(99)) = %v, want ErrUnknownRevision", err)
	}
}

func TestAbortDiscardsWrites(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := tx.Allocate(16, 8); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tx.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}

	if db.CurrentGeneration() != 0 {
		t.Fatalf("generation after abort = %d, want 0", db.CurrentGeneration())
	}

	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin after abort: %v", err)
	}
	if err := tx2.Abort(); err != nil {
		t.Fatalf("second Abort: %v", err)
	}
}

func TestOperationsFailAfterClose(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, "store.strata", Writable, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := db.Get(Addr(LeaderSize), 8, true); err != ErrStoreClosed {
		t.Fatalf("Get after Close = %v, want ErrStoreClosed", err)
	}
	if _, err := db.Allocate(8, 8); err != ErrStoreClosed {
		t.Fatalf("Allocate after Close = %v, want ErrStoreClosed", err)
	}
}

func TestControlMessageEncodeDecode(t *testing.T) {
	msg := ControlMessage{SenderID: 1, MessageID: 42, PartNo: 0, NumParts: 2, Payload: []byte("hello")}
	buf, err := EncodeControlMessage(msg)
	if err != nil {
		t.Fatalf("EncodeControlMessage: %v", err)
	}
	if len(buf) != ControlMessageSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), ControlMessageSize)
	}

	got, err := DecodeControlMessage(buf)
	if err != nil {
		t.Fatalf("DecodeControlMessage: %v", err)
	}
	if got.SenderID != msg.SenderID || got.MessageID != msg.MessageID || got.PartNo != msg.PartNo || got.NumParts != msg.NumParts {
		t.Fatalf("decoded message = %+v, want %+v", got, msg)
	}
	if string(got.Payload) != "hello" {
		t.Fatalf("decoded payload = %q, want %q", got.Payload, "hello")
	}
}

func TestControlMessageBadPartNumber(t *testing.T) {
	msg := ControlMessage{PartNo: 2, NumParts: 2}
	if _, err := EncodeControlMessage(msg); err != ErrBadMessagePartNumber {
		t.Fatalf("EncodeControlMessage(part_no >= num_parts) = %v, want ErrBadMessagePartNumber", err)
	}
}
