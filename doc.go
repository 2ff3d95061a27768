// Package strata implements an embedded, append-only, memory-mapped
// key/value store with multi-version concurrency.
//
// A single writer process produces new revisions by appending records
// and committing a trailer; any number of readers, in this process or
// a cooperating one, observe a consistent past revision addressed by
// generation number. Data is addressed by a stable logical address and
// exposed through copy-on-read handles that may span non-contiguous
// mapped regions.
//
// Typical reader flow: Open, Sync, Get/Getu, Close. Typical writer
// flow: Open, Begin, Allocate+Write, Commit, Close.
package strata
