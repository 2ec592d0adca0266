package ewf

import (
	"fmt"

	"github.com/dcforensics/goewf/internal/errorset"
	"github.com/dcforensics/goewf/internal/headervalue"
	"github.com/dcforensics/goewf/internal/section"
)

// Close finalizes a Writing handle (flushing any pending table/table2/
// sectors group, then hash/digest and error2/session sections, then a
// terminal `done` section; no xhash section is written)
// and releases the IO Pool either way (spec.md §4.5 "close() in Writing
// finalises … before closing"). A handle that failed a prior write
// refuses to finalize, matching spec.md §7's "write-path errors are
// always fatal".
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case StateClosed:
		return nil
	case StateWriting:
		if h.writeFailed {
			h.state = StateClosed
			if h.pool != nil {
				h.pool.CloseAll()
			}
			return &InvalidArgumentError{What: "close: refusing to finalize after a failed write"}
		}
		if err := h.finalizeWrite(); err != nil {
			h.writeFailed = true
			if h.pool != nil {
				h.pool.CloseAll()
			}
			return err
		}
	}

	h.state = StateClosed
	if h.pool != nil {
		return h.pool.CloseAll()
	}
	return nil
}

func (h *Handle) finalizeWrite() error {
	if len(h.pendingPartial) > 0 {
		if err := h.ensureSegmentOpen(); err != nil {
			return err
		}
		if err := h.flushChunk(h.pendingPartial); err != nil {
			return err
		}
		h.pendingPartial = h.pendingPartial[:0]
	}
	if h.writer.CurrentSegment() == nil {
		if err := h.ensureSegmentOpen(); err != nil {
			return err
		}
	}
	if err := h.flushSection(); err != nil {
		return err
	}

	seg := h.writer.CurrentSegment()

	var out []byte
	next := h.segCursor
	appendSec := func(k section.Kind, body []byte) {
		start := next
		next = start + section.DescriptorSize + uint64(len(body))
		out = append(out, section.Build(k, body, start, next)...)
	}

	if h.digest.HasMD5 {
		hashBuf := headervalue.MarshalHash(h.digest)
		appendSec(section.KindHash, hashBuf[:])
	}
	if h.digest.HasMD5 || h.digest.HasSHA1 {
		digestBuf := headervalue.MarshalDigest(h.digest)
		appendSec(section.KindDigest, digestBuf[:])
	}
	if h.acquiryErrors.Len() > 0 {
		appendSec(section.KindError2, errorset.Marshal(h.acquiryErrors))
	}
	if h.sessions.Len() > 0 {
		appendSec(section.KindSession, errorset.Marshal(h.sessions))
	}

	doneStart := next
	doneDesc := section.BuildTrailer(section.KindDone, doneStart, 0)
	out = append(out, doneDesc...)

	if _, err := h.pool.WriteAt(seg.Index, int64(h.segCursor), out); err != nil {
		return &IoError{Op: "write", Path: seg.Path, Kind: IoShortWrite, Err: fmt.Errorf("finalize: %w", err)}
	}
	h.segCursor += uint64(len(out))
	return nil
}
