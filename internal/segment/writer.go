package segment

import (
	"fmt"
	"sync"

	"github.com/dcforensics/goewf/internal/iopool"
)

// Budget bounds how many chunks a segment (and, within it, a single
// table/table2/sectors group) may hold before the writer must rotate
// (spec.md §5 "the current segment … when either the configured chunk
// budget or … is reached").
type Budget struct {
	ChunksPerSegment int
	ChunksPerSection int
}

// Writer tracks the active segment and section during acquisition,
// grounded on ongniud-wal's WAL.rotate() (wal.go) — adapted from a single
// flat size threshold per segment to EWF's two-level budget (segment and,
// within it, section) and from raw os.Create to registering each new file
// with the shared IO Pool.
type Writer struct {
	mu sync.Mutex

	table    *Table
	pool     *iopool.Pool
	basename string
	family   Family

	budget                 Budget
	chunksInCurrentSegment int
	chunksInCurrentSection int
}

// NewWriter creates a Writer with no segment open yet; call RotateSegment
// before the first chunk is written.
func NewWriter(table *Table, pool *iopool.Pool, basename string, family Family, budget Budget) *Writer {
	return &Writer{table: table, pool: pool, basename: basename, family: family, budget: budget}
}

// NeedsSegmentRotation reports whether the current segment has reached its
// chunk budget.
func (w *Writer) NeedsSegmentRotation() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.table.Len() == 0 || w.chunksInCurrentSegment >= w.budget.ChunksPerSegment
}

// NeedsSectionRotation reports whether the current table/table2/sectors
// group has reached its chunk budget and must be flushed before more
// chunks are appended.
func (w *Writer) NeedsSectionRotation() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chunksInCurrentSection >= w.budget.ChunksPerSection
}

// RotateSegment closes accounting for the current segment (the caller is
// responsible for flushing its trailing sections first) and opens a fresh
// one, registering it with the IO Pool for writing.
func (w *Writer) RotateSegment() (*File, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.table.Len() + 1
	path, err := Path(w.basename, w.family, idx)
	if err != nil {
		return nil, fmt.Errorf("segment: rotate: %w", err)
	}
	f := w.table.Add(path)
	w.pool.Register(f.Index, path, iopool.Create)
	w.chunksInCurrentSegment = 0
	w.chunksInCurrentSection = 0
	return f, nil
}

// RotateSection resets the section-level chunk counter after the caller
// has flushed the current table/table2/sectors group.
func (w *Writer) RotateSection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunksInCurrentSection = 0
}

// RecordChunkWritten advances both budgets after a chunk has been appended
// to the current segment's sectors section.
func (w *Writer) RecordChunkWritten() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunksInCurrentSegment++
	w.chunksInCurrentSection++
}

// CurrentSegment returns the segment file currently being written, or nil
// if RotateSegment hasn't been called yet.
func (w *Writer) CurrentSegment() *File {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.table.Last()
}
