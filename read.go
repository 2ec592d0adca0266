package ewf

import (
	"fmt"

	"github.com/dcforensics/goewf/internal/codec"
)

// ReadAt maps the requested window through the Chunk Table, Chunk Cache
// and Chunk Codec (spec.md §4.5 "read_at(offset,len)"). offset ≥
// media_size returns 0 with no error; the result is clamped to
// min(len(buf), media_size-offset).
func (h *Handle) ReadAt(offset uint64, buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateReading {
		return 0, &InvalidArgumentError{What: fmt.Sprintf("read_at called in state %s", h.state)}
	}

	mediaSize := h.media.MediaSize()
	if offset >= mediaSize {
		return 0, nil
	}
	want := len(buf)
	if remaining := mediaSize - offset; uint64(want) > remaining {
		want = int(remaining)
	}
	chunkSize := h.media.ChunkSize()

	n := 0
	for n < want {
		abs := offset + uint64(n)
		idx := uint32(abs / chunkSize)
		within := int(abs % chunkSize)

		chunk, err := h.readChunk(idx)
		if err != nil {
			return n, err
		}
		avail := len(chunk) - within
		if avail <= 0 {
			return n, nil
		}
		take := want - n
		if take > avail {
			take = avail
		}
		copy(buf[n:n+take], chunk[within:within+take])
		n += take
	}
	return n, nil
}

// Seek validates offset and records the chunk/within-chunk cursor it
// implies, without performing I/O (spec.md §4.5 "seek(offset)").
func (h *Handle) Seek(offset uint64) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offset > h.media.MediaSize() {
		return 0, &OutOfRangeError{Field: "offset", Value: int64(offset), Limit: int64(h.media.MediaSize())}
	}
	chunkSize := h.media.ChunkSize()
	h.currentChunk = offset / chunkSize
	h.currentChunkOffset = offset % chunkSize
	return offset, nil
}

// readChunk returns chunk idx's decoded plaintext, consulting the Chunk
// Cache first and decoding via the Chunk Codec on a miss. A table entry
// already marked IS_CORRUPTED short-circuits straight to the wipe_on_error
// policy without attempting to read its (likely meaningless) range.
func (h *Handle) readChunk(idx uint32) ([]byte, error) {
	if data, ok := h.cache.lookup(idx); ok {
		return data, nil
	}

	entry, ok := h.chunks.Get(idx)
	if !ok {
		return nil, &OutOfRangeError{Field: "chunk_index", Value: int64(idx), Limit: int64(h.media.NumberOfChunks) - 1}
	}

	declared := h.declaredChunkSize(idx)

	if entry.Flags.Has(codec.IsCorrupted) {
		h.recordChecksumError(idx)
		if h.wipeOnError {
			data := make([]byte, declared)
			h.cache.store(idx, data)
			return data, nil
		}
		return nil, &ChecksumOrDecompressError{ChunkIndex: idx, Source: fmt.Errorf("chunk table entry marked corrupted")}
	}

	if entry.Flags.Has(codec.IsSparse) {
		data := make([]byte, declared)
		h.cache.store(idx, data)
		return data, nil
	}

	raw := make([]byte, entry.Size)
	if _, err := h.pool.ReadAt(entry.SegmentIndex, int64(entry.Offset), raw); err != nil {
		return nil, &IoError{Op: "read", Path: fmt.Sprintf("segment[%d]", entry.SegmentIndex), Kind: IoShortRead, Err: err}
	}

	plaintext, corrupted, err := codec.Decode(raw, entry.Flags, declared)
	if err != nil {
		h.recordChecksumError(idx)
		if h.wipeOnError {
			data := make([]byte, declared)
			h.cache.store(idx, data)
			return data, nil
		}
		return nil, &ChecksumOrDecompressError{ChunkIndex: idx, Source: err}
	}
	if corrupted {
		h.recordChecksumError(idx)
		if h.wipeOnError {
			data := make([]byte, declared)
			h.cache.store(idx, data)
			return data, nil
		}
	}

	h.cache.store(idx, plaintext)
	return plaintext, nil
}

// declaredChunkSize returns the full chunk size, or the media's remaining
// tail length for the last chunk, which may legitimately be shorter.
func (h *Handle) declaredChunkSize(idx uint32) int {
	full := h.media.ChunkSize()
	if h.media.NumberOfChunks == 0 || idx < h.media.NumberOfChunks-1 {
		return int(full)
	}
	rem := h.media.MediaSize() - uint64(idx)*full
	if rem < full {
		return int(rem)
	}
	return int(full)
}

// recordChecksumError inserts the sector range covered by chunk idx into
// the checksum-error register (spec.md §4.5, §8 S6), clamped to
// number_of_sectors for a short last chunk.
func (h *Handle) recordChecksumError(idx uint32) {
	spc := uint64(h.media.SectorsPerChunk)
	first := uint64(idx) * spc
	count := spc
	if first+count > h.media.NumberOfSectors {
		count = h.media.NumberOfSectors - first
	}
	h.checksumErrors.Add(first, count, true)
}
