// Trailer: the fixed-size record ending every revision. Write-once —
// once a transaction commits, its trailer bytes are immutable.
//
// Layout (little-endian, TrailerSize bytes total):
//
//	[0:4)   generation      uint32
//	[4:12)  time            int64 (unix ms)
//	[12:20) prevGeneration  uint64 (logical address, 0 = null)
//	[20:84) indexRecords    [IndexSlots]uint64
//	[84:88) crc             uint32 (CRC-32 IEEE over [0:84))
//	[88:TrailerSize) reserved
package strata

import (
	"encoding/binary"
	"hash/crc32"
)

// IndexSlots is the number of externally-named index root slots a
// trailer carries. Slots may be null (unused).
const IndexSlots = 8

// TrailerSize is the fixed size of a trailer in bytes.
const TrailerSize = 96

const (
	offGeneration     = 0
	offTime           = 4
	offPrevGeneration = 12
	offIndexRecords   = 20
	offTrailerCRC     = offIndexRecords + IndexSlots*8 // 84
)

// Trailer ends a revision. Trailers form a singly-linked list from
// newest back to generation 0 via PrevGeneration.
type Trailer struct {
	Generation     uint32
	Time           int64
	PrevGeneration Addr
	IndexRecords   [IndexSlots]Addr
}

// encode serialises the trailer and computes its CRC last, over every
// preceding field.
func (t *Trailer) encode() []byte {
	buf := make([]byte, TrailerSize)
	binary.LittleEndian.PutUint32(buf[offGeneration:], t.Generation)
	binary.LittleEndian.PutUint64(buf[offTime:], uint64(t.Time))
	binary.LittleEndian.PutUint64(buf[offPrevGeneration:], uint64(t.PrevGeneration))
	for i, a := range t.IndexRecords {
		binary.LittleEndian.PutUint64(buf[offIndexRecords+i*8:], uint64(a))
	}
	crc := crc32.ChecksumIEEE(buf[:offTrailerCRC])
	binary.LittleEndian.PutUint32(buf[offTrailerCRC:], crc)
	return buf
}

// decodeTrailer parses TrailerSize bytes and verifies the CRC.
// Returns ErrFooterCorrupt if the buffer is short or the CRC mismatches.
func decodeTrailer(buf []byte) (*Trailer, error) {
	if len(buf) < TrailerSize {
		return nil, ErrFooterCorrupt
	}
	wantCRC := binary.LittleEndian.Uint32(buf[offTrailerCRC:])
	gotCRC := crc32.ChecksumIEEE(buf[:offTrailerCRC])
	if wantCRC != gotCRC {
		return nil, ErrFooterCorrupt
	}

	t := &Trailer{
		Generation:     binary.LittleEndian.Uint32(buf[offGeneration:]),
		Time:           int64(binary.LittleEndian.Uint64(buf[offTime:])),
		PrevGeneration: Addr(binary.LittleEndian.Uint64(buf[offPrevGeneration:])),
	}
	for i := range t.IndexRecords {
		t.IndexRecords[i] = Addr(binary.LittleEndian.Uint64(buf[offIndexRecords+i*8:]))
	}
	return t, nil
}

// validateLink checks the linked-list invariant between a trailer at
// pos and its immediate predecessor: prev_generation < pos, the
// predecessor's generation is strictly smaller, and its time does not
// exceed this trailer's time.
func validateLink(t *Trailer, pos Addr, prev *Trailer) error {
	if t.PrevGeneration.IsNull() {
		if t.Generation != 0 {
			return ErrFooterCorrupt
		}
		return nil
	}
	if t.PrevGeneration >= pos {
		return ErrFooterCorrupt
	}
	if prev == nil {
		return ErrFooterCorrupt
	}
	if prev.Generation >= t.Generation {
		return ErrFooterCorrupt
	}
	if prev.Time > t.Time {
		return ErrFooterCorrupt
	}
	return nil
}
