package ewf

import (
	"fmt"
	"time"

	"github.com/dcforensics/goewf/internal/chunktable"
	"github.com/dcforensics/goewf/internal/codec"
	"github.com/dcforensics/goewf/internal/headervalue"
	"github.com/dcforensics/goewf/internal/iopool"
	"github.com/dcforensics/goewf/internal/section"
	"github.com/dcforensics/goewf/internal/segment"
)

// Create opens a fresh segment sequence for writing (spec.md §4.5
// "open(filenames[]) in WRITE → Writing"): allocates writer state and
// refuses further mutation of media values and format once the first
// chunk is written.
func (h *Handle) Create(basename string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateFresh || h.flags&FlagWrite == 0 {
		return &InvalidArgumentError{What: fmt.Sprintf("create called in state %s", h.state)}
	}
	if basename == "" {
		return &InvalidArgumentError{What: "create: empty basename"}
	}

	family := segment.FamilyE01
	if h.v2 {
		family = segment.FamilyEx01
	}

	h.basename = basename
	h.segments = segment.NewTable(family)
	h.writer = segment.NewWriter(h.segments, h.pool, basename, family, segment.Budget{
		ChunksPerSegment: h.chunksPerSegment,
		ChunksPerSection: h.chunksPerSection,
	})
	h.acquisitionTime = time.Now()
	if h.media.GUID == ([16]byte{}) {
		h.media.NewGUID()
	}
	h.state = StateWriting
	return nil
}

// WriteAt appends bytes at the handle's current write cursor. Only the
// current append point is a legal offset for a plain write; any other
// offset is a delta write that must exactly replace one full chunk
// (spec.md §4.5 "random-access writes are only legal as delta writes").
func (h *Handle) WriteAt(offset uint64, buf []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateWriting {
		return 0, &InvalidArgumentError{What: fmt.Sprintf("write_at called in state %s", h.state)}
	}
	if h.writeFailed {
		return 0, &InvalidArgumentError{What: "write_at: handle already failed a write"}
	}
	if !h.media.Frozen() {
		if err := h.media.Validate(); err != nil {
			h.writeFailed = true
			return 0, &InconsistentVolumeError{Field: err.Error()}
		}
		h.media.Freeze()
	}

	if offset == h.writeCursorLogical {
		n, err := h.appendAt(buf)
		if err != nil {
			h.writeFailed = true
		}
		return n, err
	}
	n, err := h.deltaWriteAt(offset, buf)
	if err != nil {
		h.writeFailed = true
	}
	return n, err
}

func (h *Handle) appendAt(buf []byte) (int, error) {
	chunkSize := int(h.media.ChunkSize())
	n := 0
	data := buf
	for len(data) > 0 {
		need := chunkSize - len(h.pendingPartial)
		take := need
		if take > len(data) {
			take = len(data)
		}
		h.pendingPartial = append(h.pendingPartial, data[:take]...)
		data = data[take:]
		n += take
		h.writeCursorLogical += uint64(take)

		if len(h.pendingPartial) == chunkSize {
			if err := h.ensureSegmentOpen(); err != nil {
				return n, err
			}
			if err := h.flushChunk(h.pendingPartial); err != nil {
				return n, err
			}
			h.pendingPartial = h.pendingPartial[:0]
		}
	}
	return n, nil
}

// deltaWriteAt layers a replacement binding for exactly one already-written
// chunk into a parallel .dxx delta segment (spec.md §4.5, §8 S4); it does
// not touch the original segment's bytes. All delta writes for a handle
// share the same .d01 file and append one delta_chunk/sectors section per
// call, rather than each chunk index getting its own file.
func (h *Handle) deltaWriteAt(offset uint64, buf []byte) (int, error) {
	chunkSize := uint64(h.media.ChunkSize())
	if offset%chunkSize != 0 || uint64(len(buf)) != chunkSize {
		return 0, &InvalidArgumentError{What: "delta write must replace exactly one full chunk"}
	}
	idx := uint32(offset / chunkSize)
	if _, ok := h.chunks.Get(idx); !ok {
		return 0, &OutOfRangeError{Field: "chunk_index", Value: int64(idx), Limit: int64(h.media.NumberOfChunks) - 1}
	}

	if err := h.ensureDeltaSegmentOpen(); err != nil {
		return 0, err
	}

	payload, flags, err := codec.Encode(buf, codec.EncodeOptions{Level: codec.LevelNone})
	if err != nil {
		return 0, fmt.Errorf("ewf: delta encode: %w", err)
	}
	flags |= codec.IsDelta

	path, err := segment.Path(h.basename, segment.FamilyDelta, 1)
	if err != nil {
		return 0, err
	}
	bodyOffset := h.deltaCursor
	next := bodyOffset + section.DescriptorSize + uint64(len(payload))
	out := section.Build(section.KindSectors, payload, bodyOffset, next)
	if _, err := h.pool.WriteAt(deltaPoolIndex, int64(bodyOffset), out); err != nil {
		return 0, &IoError{Op: "write", Path: path, Kind: IoShortWrite, Err: err}
	}
	h.deltaCursor = next

	h.chunks.Set(idx, chunktable.Entry{
		SegmentIndex: deltaPoolIndex,
		Offset:       bodyOffset + section.DescriptorSize,
		Size:         uint32(len(payload)),
		Flags:        flags,
	})
	h.cache.invalidate()
	return len(buf), nil
}

// ensureDeltaSegmentOpen registers and writes the file header for the
// handle's single shared delta segment on first use.
func (h *Handle) ensureDeltaSegmentOpen() error {
	if h.deltaOpen {
		return nil
	}
	path, err := segment.Path(h.basename, segment.FamilyDelta, 1)
	if err != nil {
		return err
	}
	h.pool.Register(deltaPoolIndex, path, iopool.Create)
	var hdrBuf [segment.FileHeaderSize]byte
	hdr := segment.NewFileHeader(h.v2, 1).Marshal()
	copy(hdrBuf[:], hdr[:])
	if _, err := h.pool.WriteAt(deltaPoolIndex, 0, hdrBuf[:]); err != nil {
		return &IoError{Op: "write", Path: path, Kind: IoShortWrite, Err: err}
	}
	h.deltaCursor = segment.FileHeaderSize
	h.deltaOpen = true
	return nil
}

// flushChunk encodes one full-sized chunk and appends it to the
// in-progress sectors buffer for the current table/table2 group,
// rotating the section or segment once the configured budget is reached
// (spec.md §4.3 "Emit").
func (h *Handle) flushChunk(plaintext []byte) error {
	payload, flags, err := codec.Encode(plaintext, codec.EncodeOptions{
		Level:              h.compressionLevel,
		PatternFillEnabled: h.patternFillEnabled,
		CompressEmptyBlock: h.compressEmptyBlock,
	})
	if err != nil {
		return fmt.Errorf("ewf: encode chunk: %w", err)
	}

	relOffset := uint64(len(h.pendingSectorBytes))
	h.pendingSectorBytes = append(h.pendingSectorBytes, payload...)
	h.pendingEntries = append(h.pendingEntries, chunktable.Entry{
		Offset: relOffset,
		Size:   uint32(len(payload)),
		Flags:  flags,
	})
	h.writer.RecordChunkWritten()

	if h.writer.NeedsSectionRotation() {
		if err := h.flushSection(); err != nil {
			return err
		}
	}
	return nil
}

// ensureSegmentOpen opens the first segment, or rotates to a fresh one
// once the current segment's chunk budget is exhausted, finalizing the
// outgoing segment's pending section and `next` trailer first.
func (h *Handle) ensureSegmentOpen() error {
	if h.writer.CurrentSegment() != nil && !h.writer.NeedsSegmentRotation() {
		return nil
	}
	if h.writer.CurrentSegment() != nil {
		if err := h.flushSection(); err != nil {
			return err
		}
		if err := h.writeTrailer(section.KindNext); err != nil {
			return err
		}
	}
	seg, err := h.writer.RotateSegment()
	if err != nil {
		return err
	}
	return h.writeFileHeaderAndVolume(seg)
}

func (h *Handle) writeFileHeaderAndVolume(seg *segment.File) error {
	fh := segment.NewFileHeader(h.v2, uint16(seg.Index))
	hdrBytes := fh.Marshal()
	if _, err := h.pool.WriteAt(seg.Index, 0, hdrBytes[:]); err != nil {
		return &IoError{Op: "write", Path: seg.Path, Kind: IoShortWrite, Err: err}
	}
	h.segCursor = segment.FileHeaderSize

	headerText, err := headervalue.Generate(headervalue.Type1, h.headerValues, h.acquisitionTime)
	if err != nil {
		return fmt.Errorf("ewf: generate header: %w", err)
	}
	headerBytes, err := headervalue.EncodeBytes(headervalue.SectionHeader, headerText)
	if err != nil {
		return fmt.Errorf("ewf: encode header: %w", err)
	}
	volumeBuf := h.media.MarshalVolume()

	headerOffset := h.segCursor
	volumeOffset := headerOffset + section.DescriptorSize + uint64(len(headerBytes))
	volumeNext := volumeOffset + section.DescriptorSize + uint64(len(volumeBuf))

	var out []byte
	out = append(out, section.Build(section.KindHeader, headerBytes, headerOffset, volumeOffset)...)
	out = append(out, section.Build(section.KindVolume, volumeBuf[:], volumeOffset, volumeNext)...)

	if _, err := h.pool.WriteAt(seg.Index, int64(h.segCursor), out); err != nil {
		return &IoError{Op: "write", Path: seg.Path, Kind: IoShortWrite, Err: err}
	}
	h.segCursor += uint64(len(out))
	return nil
}

// flushSection writes the current table/table2 group's sectors, table and
// table2 sections in one contiguous append, chaining their next_offset
// fields to the position immediately following the group — which is
// always where the writer appends next, whether that is another group, a
// `next` trailer, or a `done` trailer (spec.md §4.3 "Emit").
func (h *Handle) flushSection() error {
	if len(h.pendingEntries) == 0 {
		return nil
	}
	seg := h.writer.CurrentSegment()
	groupStart := h.segCursor
	sectorsBodyStart := groupStart + section.DescriptorSize

	for i := range h.pendingEntries {
		h.pendingEntries[i].Offset += sectorsBodyStart
		h.pendingEntries[i].SegmentIndex = seg.Index
	}
	tableBody := chunktable.BuildV1(sectorsBodyStart, h.pendingEntries, true)

	sectorsLen := uint64(section.DescriptorSize + len(h.pendingSectorBytes))
	tableLen := uint64(section.DescriptorSize + len(tableBody))

	sectorsNext := groupStart + sectorsLen
	tableNext := sectorsNext + tableLen
	table2Next := tableNext + tableLen

	var out []byte
	out = append(out, section.Build(section.KindSectors, h.pendingSectorBytes, groupStart, sectorsNext)...)
	out = append(out, section.Build(section.KindTable, tableBody, sectorsNext, tableNext)...)
	out = append(out, section.Build(section.KindTable2, tableBody, tableNext, table2Next)...)

	if _, err := h.pool.WriteAt(seg.Index, int64(groupStart), out); err != nil {
		return &IoError{Op: "write", Path: seg.Path, Kind: IoShortWrite, Err: err}
	}
	h.segCursor = groupStart + uint64(len(out))

	for i, e := range h.pendingEntries {
		h.chunks.Set(h.pendingStartIndex+uint32(i), e)
	}
	h.pendingStartIndex += uint32(len(h.pendingEntries))
	h.writer.RotateSection()
	h.pendingEntries = nil
	h.pendingSectorBytes = nil
	return nil
}

func (h *Handle) writeTrailer(kind section.Kind) error {
	seg := h.writer.CurrentSegment()
	trailer := section.BuildTrailer(kind, h.segCursor, 0)
	if _, err := h.pool.WriteAt(seg.Index, int64(h.segCursor), trailer); err != nil {
		return &IoError{Op: "write", Path: seg.Path, Kind: IoShortWrite, Err: err}
	}
	h.segCursor += uint64(len(trailer))
	return nil
}
