// Package chunktable implements the logical-chunk-index → physical-range
// index described in spec.md §4.3: v1 and v2 on-disk encodings, the
// fill/correct fill-then-reconcile write-once semantics, and emission of
// fresh table/table2/sectors triples on write.
package chunktable

import "github.com/dcforensics/goewf/internal/codec"

// Entry is one logical chunk's binding: which segment holds its packed
// bytes, where, how large, and under what codec flags.
type Entry struct {
	SegmentIndex int
	Offset       uint64
	Size         uint32
	Flags        codec.Flags
}

func (e Entry) clean() bool {
	return !e.Flags.Has(codec.IsCorrupted) && !e.Flags.Has(codec.IsTainted)
}

func tainted(e Entry) Entry {
	e.Flags |= codec.IsTainted
	return e
}
