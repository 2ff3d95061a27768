package strata

// Addr is a logical address: a byte offset from the start of the store
// file. The absolute byte offset equals its integer value.
type Addr int64

// TypedAddr pairs a logical address with a compile-time phantom tag
// recording the type the bytes at that address represent. T is never
// instantiated; the tag exists purely so TypedAddr[Header] and
// TypedAddr[Trailer] are distinct types at compile time and a caller
// cannot pass one where the other is expected. It carries no runtime
// cost and no layout implication — the on-disk format is unaffected.
type TypedAddr[T any] struct {
	Addr
}

// typed wraps a raw address with a phantom type tag.
func typed[T any](a Addr) TypedAddr[T] {
	return TypedAddr[T]{Addr: a}
}

// Null is the logical address used to mean "no address" (e.g. a
// generation-0 trailer's prev_generation, or an unused index_records
// slot).
const Null Addr = 0

// IsNull reports whether a is the null address.
func (a Addr) IsNull() bool { return a == Null }
