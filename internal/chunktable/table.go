package chunktable

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dcforensics/goewf/internal/codec"
)

// DuplicateBindingError is returned by Fill when a non-empty, non-delta
// slot already holds a binding (spec.md §4.3 "otherwise fail with
// DuplicateBinding").
type DuplicateBindingError struct{ ChunkIndex uint32 }

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("chunktable: duplicate binding at chunk %d", e.ChunkIndex)
}

// Table is the handle-owned index from logical chunk index to physical
// range. It never owns chunk bytes (spec.md §3 "Lifecycle").
type Table struct {
	mu      sync.RWMutex
	entries map[uint32]Entry
	// rangeTainted remembers, per Fill-call start index, whether that
	// batch's source table was itself checksum-tainted — consulted by
	// Correct to reproduce the source's correct_v1 tie-break (spec.md §9
	// open question).
	rangeTainted map[uint32]bool
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		entries:      make(map[uint32]Entry),
		rangeTainted: make(map[uint32]bool),
	}
}

// Fill installs entries[i] at chunk index startIndex+i. An empty slot is
// installed directly; a slot already holding an IS_DELTA binding keeps the
// delta and ignores the incoming entry (a later write always wins over an
// original acquisition binding); any other occupied slot is a
// DuplicateBindingError (spec.md §4.3 "Fill vs. Correct").
func (t *Table) Fill(startIndex uint32, entries []Entry, sourceTainted bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range entries {
		idx := startIndex + uint32(i)
		cur, exists := t.entries[idx]
		switch {
		case !exists:
			t.entries[idx] = e
		case cur.Flags.Has(codec.IsDelta):
			// keep the delta binding, ignore the acquisition-time entry.
		default:
			return &DuplicateBindingError{ChunkIndex: idx}
		}
	}
	t.rangeTainted[startIndex] = sourceTainted
	return nil
}

// Correct reconciles a table2 batch against the entries a prior Fill
// installed for the same startIndex. It never overwrites a delta binding.
// An installed entry that is corrupted or tainted is replaced by a clean
// candidate. When both are clean but disagree, the source's correct_v1
// quirk is reproduced: table2 wins only if the originating table range was
// itself tainted; otherwise table's entry is kept. Either resolution marks
// the surviving entry IS_TAINTED so callers can detect the disagreement
// (spec.md §4.3, §9 open question).
func (t *Table) Correct(startIndex uint32, candidates []Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	priorTainted := t.rangeTainted[startIndex]

	for i, cand := range candidates {
		idx := startIndex + uint32(i)
		cur, exists := t.entries[idx]
		if !exists {
			t.entries[idx] = cand
			continue
		}
		if cur.Flags.Has(codec.IsDelta) {
			continue
		}

		switch {
		case !cur.clean() && cand.clean():
			t.entries[idx] = cand
		case cur.clean() && !cand.clean():
			// keep cur as-is
		case cur.Offset != cand.Offset || cur.Size != cand.Size ||
			cur.Flags.Has(codec.IsCompressed) != cand.Flags.Has(codec.IsCompressed):
			if priorTainted {
				t.entries[idx] = tainted(cand)
			} else {
				t.entries[idx] = tainted(cur)
			}
		}
	}
	return nil
}

// Get returns the binding for chunk index idx, if any.
func (t *Table) Get(idx uint32) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[idx]
	return e, ok
}

// Set installs or replaces the binding for idx unconditionally, used on the
// write path for fresh acquisition and delta bindings alike.
func (t *Table) Set(idx uint32, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[idx] = e
}

// Len reports how many chunk indices currently have a binding.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Indices returns every bound chunk index in ascending order, used by
// Property P2's monotonicity check and by the write path when grouping a
// contiguous run for Emit.
func (t *Table) Indices() []uint32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]uint32, 0, len(t.entries))
	for idx := range t.entries {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
