package strata

import (
	"os"
	"testing"
)

func openTestRoot(t *testing.T) *os.Root {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	if err != nil {
		t.Fatalf("OpenRoot: %v", err)
	}
	t.Cleanup(func() { root.Close() })
	return root
}

func TestFileCreateWriteReadAt(t *testing.T) {
	root := openTestRoot(t)

	f, err := CreateFile(root, "store.dat")
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	if _, err := f.WriteAt([]byte("hello"), 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}

	buf := make([]byte, 5)
	if _, err := f.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "hello" {
		t.Fatalf("ReadAt = %q, want %q", buf, "hello")
	}
}

func TestFileOpenMissingAllowNotFound(t *testing.T) {
	root := openTestRoot(t)

	f, err := OpenFile(root, "missing.dat", true, PresentAllowNotFound)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if f.IsOpen() {
		t.Fatalf("IsOpen() = true for a file that was never created")
	}
}

func TestFileOpenMissingMustExist(t *testing.T) {
	root := openTestRoot(t)

	if _, err := OpenFile(root, "missing.dat", true, PresentMustExist); err == nil {
		t.Fatalf("OpenFile(PresentMustExist) on missing file = nil error, want error")
	}
}

func TestFileTruncateAndSize(t *testing.T) {
	root := openTestRoot(t)
	f, err := CreateFile(root, "store.dat")
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	if err := f.Truncate(4096); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	size, err := f.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 4096 {
		t.Fatalf("Size = %d, want 4096", size)
	}
}

func TestFileRename(t *testing.T) {
	root := openTestRoot(t)
	f, err := CreateUnique(root, AlgXXHash3)
	if err != nil {
		t.Fatalf("CreateUnique: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	tmpName := f.Name()
	if err := f.Rename("final.dat"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if f.Name() != "final.dat" {
		t.Fatalf("Name() after rename = %q, want %q", f.Name(), "final.dat")
	}

	if _, err := OpenFile(root, tmpName, false, PresentMustExist); err == nil {
		t.Fatalf("old temp name %q still exists after rename", tmpName)
	}
	g, err := OpenFile(root, "final.dat", false, PresentMustExist)
	if err != nil {
		t.Fatalf("OpenFile(final.dat): %v", err)
	}
	g.Close()
}
