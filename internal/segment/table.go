package segment

import (
	"fmt"

	"github.com/dcforensics/goewf/internal/section"
)

// File represents one segment file's identity and parsed section stream
// (spec.md §3 "Segment"). Index is 1-based, matching the on-disk
// SegmentNumber field.
type File struct {
	Index    int
	Path     string
	Sections []section.Located
}

// Table is the ordered set of segments making up an image, grounded on
// ongniud-wal's WAL.segments map + sorted-id rotation (wal.go), adapted
// from a write-ahead log's segments to EWF's read-then-append sequence.
type Table struct {
	Family Family
	files  map[int]*File
	order  []int
}

// NewTable creates an empty segment table for the given naming family.
func NewTable(f Family) *Table {
	return &Table{Family: f, files: make(map[int]*File)}
}

// Add registers a segment file at the next index in sequence.
func (t *Table) Add(path string) *File {
	idx := len(t.order) + 1
	f := &File{Index: idx, Path: path}
	t.files[idx] = f
	t.order = append(t.order, idx)
	return f
}

// Get returns the segment file at the given 1-based index.
func (t *Table) Get(index int) (*File, error) {
	f, ok := t.files[index]
	if !ok {
		return nil, fmt.Errorf("segment: no file at index %d", index)
	}
	return f, nil
}

// Last returns the most recently added segment file, or nil if the table
// is empty.
func (t *Table) Last() *File {
	if len(t.order) == 0 {
		return nil
	}
	return t.files[t.order[len(t.order)-1]]
}

// Len returns the number of segment files in the table.
func (t *Table) Len() int { return len(t.order) }

// Indices returns the segment indices in order.
func (t *Table) Indices() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}
