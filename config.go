package strata

import "github.com/rs/zerolog"

// AccessMode selects how Open may create or attach to a store file.
type AccessMode int

const (
	// Writable opens for read/write, creating the file if absent.
	Writable AccessMode = iota
	// WritableNoCreate opens for read/write but fails if absent.
	WritableNoCreate
	// ReadOnly opens for read only; fails if absent.
	ReadOnly
)

// NameAlgorithm selects the hash used to derive unique temp-file
// suffixes and the textual sync name. Mirrors the teacher's
// multi-algorithm dispatch, repointed from document labels (out of
// core scope) to filesystem/IPC naming.
type NameAlgorithm int

const (
	// AlgXXHash3 is the default: fastest, good distribution.
	AlgXXHash3 NameAlgorithm = iota
	// AlgFNV1a has no external dependencies.
	AlgFNV1a
	// AlgBlake2b gives the best distribution, at higher cost.
	AlgBlake2b
)

// Config holds store configuration. The zero value is valid; Open
// resolves zero fields to their documented defaults.
type Config struct {
	// NameAlgorithm selects the hash used for unique names.
	NameAlgorithm NameAlgorithm

	// MinRegionSize is the floor for the first mapped region. Defaults
	// to 4MB. Region sizes grow by power-of-two above this floor.
	MinRegionSize int64

	// SmallFiles disables the MinRegionSize floor and truncates the
	// physical file to exactly the logical size on every allocation.
	// Intended for tests and small stores; trades syscall volume for a
	// file that never holds unused tail bytes.
	SmallFiles bool

	// Durable calls fsync on the trailer bytes before the header's
	// footer_pos update on every commit. Off by default: durability
	// policy is left to the caller per spec §9.
	Durable bool

	// Logger receives structured diagnostic events. A nil Logger
	// resolves to a disabled logger that discards everything.
	Logger *zerolog.Logger
}

func (c Config) resolve() Config {
	if c.SmallFiles {
		c.MinRegionSize = 0
	} else if c.MinRegionSize == 0 {
		c.MinRegionSize = 4 * 1024 * 1024
	}
	if c.Logger == nil {
		l := defaultLogger()
		c.Logger = &l
	}
	return c
}
