package chunktable

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dcforensics/goewf/internal/codec"
	"github.com/dcforensics/goewf/internal/section"
)

// v1HeaderSize is base_offset(8) + number_of_entries(4) + padding(4) +
// checksum(4), matching spec.md §4.3's "header: { base_offset: u64,
// number_of_entries: u32, padding, checksum: u32 }" (padding width is not
// given verbatim; 4 bytes is the smallest value that aligns the checksum
// to a 4-byte boundary, recorded as a judgment call in the design ledger).
const v1HeaderSize = 20

// V1Header is the fixed preamble of a `table`/`table2` section body.
type V1Header struct {
	BaseOffset      uint64
	NumberOfEntries uint32
}

// ParseV1Header reads the fixed preamble and reports whether its checksum
// is intact. A failed checksum does not abort parsing: spec.md §4.3 says a
// table checksum mismatch taints every entry rather than rejecting them.
func ParseV1Header(body []byte) (hdr V1Header, headerOK bool, err error) {
	if len(body) < v1HeaderSize {
		return V1Header{}, false, fmt.Errorf("chunktable: v1 header needs %d bytes, got %d", v1HeaderSize, len(body))
	}
	hdr.BaseOffset = binary.LittleEndian.Uint64(body[0:8])
	hdr.NumberOfEntries = binary.LittleEndian.Uint32(body[8:12])
	stored := binary.LittleEndian.Uint32(body[16:20])
	headerOK = section.Checksum(body[0:16]) == stored
	return hdr, headerOK, nil
}

// ParseV1Entries reads NumberOfEntries raw u32 offsets following the
// header, plus the trailing footer checksum unless hasFooter is false
// (EWF-S01 omits it per spec.md §4.3).
func ParseV1Entries(body []byte, numEntries uint32, hasFooter bool) (raw []uint32, entriesOK bool, err error) {
	start := v1HeaderSize
	need := int(numEntries) * 4
	if len(body) < start+need {
		return nil, false, fmt.Errorf("chunktable: v1 entries need %d bytes, got %d", need, len(body)-start)
	}
	raw = make([]uint32, numEntries)
	for i := range raw {
		off := start + i*4
		raw[i] = binary.LittleEndian.Uint32(body[off : off+4])
	}
	entriesOK = true
	if hasFooter {
		footerOff := start + need
		if len(body) < footerOff+4 {
			return raw, false, nil
		}
		stored := binary.LittleEndian.Uint32(body[footerOff : footerOff+4])
		entriesOK = section.Checksum(body[start:footerOff]) == stored
	}
	return raw, entriesOK, nil
}

// ResolveV1 turns raw per-entry u32 offsets into physical Entry values,
// deriving each entry's size from its successor (or, for the last entry,
// from lastEntryEnd). The chunk data always precedes its table/table2
// pair in this engine's write layout, so lastEntryEnd is the start offset
// of the pair's `table` section (for a `table2`, the `table` before it) —
// mirroring libewf_chunk_table.c's
// `table_section->start_offset - last_chunk_offset` — never the table
// section's end offset. v1 entries carry only the compressed bit, so every
// uncompressed entry is resolved as raw with HAS_CHECKSUM. It also applies the EnCase 6.7 2 GiB-overflow
// quirk: once an entry's offset+size would cross INT32_MAX, the top bit
// of every subsequent raw value in this table is treated as plain offset
// bits rather than an IS_COMPRESSED marker, for the remainder of the
// table (spec.md §4.3, §9).
func ResolveV1(raw []uint32, baseOffset uint64, segmentIndex int, lastEntryEnd uint64) []Entry {
	n := len(raw)
	out := make([]Entry, n)
	overflow := false

	offsetOf := func(v uint32) (off uint32, compressed bool) {
		if overflow {
			return v, false
		}
		return v &^ 0x80000000, v&0x80000000 != 0
	}

	for i := 0; i < n; i++ {
		off, compressed := offsetOf(raw[i])
		physOffset := baseOffset + uint64(off)

		var (
			size      uint32
			corrupted bool
		)
		if i+1 < n {
			nextOff, _ := offsetOf(raw[i+1])
			nextPhys := baseOffset + uint64(nextOff)
			if nextPhys <= physOffset {
				corrupted = true
			} else {
				sz := nextPhys - physOffset
				if sz > math.MaxInt32 {
					corrupted = true
				} else {
					size = uint32(sz)
				}
			}
		} else {
			if lastEntryEnd <= physOffset {
				corrupted = true
			} else {
				sz := lastEntryEnd - physOffset
				if sz > math.MaxInt32 {
					corrupted = true
				} else {
					size = uint32(sz)
				}
			}
		}

		if !overflow && uint64(off)+uint64(size) > math.MaxInt32 {
			overflow = true
		}

		var flags codec.Flags
		if compressed {
			flags |= codec.IsCompressed
		} else {
			flags |= codec.HasChecksum
		}
		if corrupted {
			flags |= codec.IsCorrupted
		}
		out[i] = Entry{SegmentIndex: segmentIndex, Offset: physOffset, Size: size, Flags: flags}
	}
	return out
}

// TaintAll marks every entry IS_TAINTED, used when a table's header or
// footer checksum failed to verify (spec.md §4.3: "the table checksum
// mismatch flags all entries of the table IS_TAINTED").
func TaintAll(entries []Entry) []Entry {
	for i := range entries {
		entries[i] = tainted(entries[i])
	}
	return entries
}

// BuildV1 serializes a table/table2 section body for a contiguous run of
// bindings sharing baseOffset (spec.md §4.3 "Emit").
func BuildV1(baseOffset uint64, entries []Entry, includeFooter bool) []byte {
	n := len(entries)
	raw := make([]uint32, n)
	for i, e := range entries {
		off := uint32(e.Offset - baseOffset)
		if e.Flags.Has(codec.IsCompressed) {
			off |= 0x80000000
		}
		raw[i] = off
	}

	body := make([]byte, v1HeaderSize+n*4)
	binary.LittleEndian.PutUint64(body[0:8], baseOffset)
	binary.LittleEndian.PutUint32(body[8:12], uint32(n))
	binary.LittleEndian.PutUint32(body[16:20], section.Checksum(body[0:16]))
	for i, v := range raw {
		off := v1HeaderSize + i*4
		binary.LittleEndian.PutUint32(body[off:off+4], v)
	}

	if !includeFooter {
		return body
	}
	footer := section.Checksum(body[v1HeaderSize:])
	var footerBuf [4]byte
	binary.LittleEndian.PutUint32(footerBuf[:], footer)
	return append(body, footerBuf[:]...)
}
