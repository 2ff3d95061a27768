// Hash-based name derivation for filesystem and IPC naming.
//
// The teacher (folio/hash.go) dispatches over three hash algorithms to
// turn a document label into a fixed-width ID. The core has no document
// labels — that belongs to the out-of-scope trie index — so the same
// three-algorithm dispatch is repurposed here for two core-owned naming
// needs: unique temporary filenames during new-store construction, and
// the short textual "sync name" derived from the store UUID.
package strata

import (
	"encoding/base32"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// nameHash produces a 16 hex character digest of data using alg.
func nameHash(data []byte, alg NameAlgorithm) string {
	switch alg {
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil)
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default: // AlgXXHash3
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	}
}

// syncNameLen is the number of base-32 characters kept from the folded
// UUID to form the sync name.
const syncNameLen = 13

// deriveSyncName folds a 128-bit UUID down to a short, filesystem- and
// IPC-safe textual key using the configured hash algorithm, then
// encodes it with unpadded base-32 (lowercase).
func deriveSyncName(uuid [16]byte, alg NameAlgorithm) string {
	digest := nameHash(uuid[:], alg)
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	s := strings.ToLower(enc.EncodeToString([]byte(digest)))
	if len(s) > syncNameLen {
		s = s[:syncNameLen]
	}
	return s
}
