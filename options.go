package ewf

import (
	"github.com/charmbracelet/log"

	"github.com/dcforensics/goewf/internal/codec"
	"github.com/dcforensics/goewf/internal/section"
)

// Option configures a Handle at construction time, grounded on the
// functional-options idiom the teacher and pack both use for struct
// configuration rather than a config-file layer (spec.md has no such
// layer; §9 "configuration enum, not a numeric field" motivates Tolerance
// specifically).
type Option func(*Handle)

// WithTolerance selects how the Handle reacts to a bad section-descriptor
// checksum: Strict aborts, Compensate logs and continues via the stored
// next-offset (spec.md §7).
func WithTolerance(t section.Tolerance) Option {
	return func(h *Handle) { h.tolerance = t }
}

// WithMaxOpenFiles bounds the IO Pool's simultaneously open descriptors.
// 0 (the default) means unbounded.
func WithMaxOpenFiles(n int) Option {
	return func(h *Handle) { h.maxOpen = n }
}

// WithWipeOnError controls what a corrupted chunk reads back as. With true,
// it reads as zero-fill. With false, a checksum mismatch returns the raw,
// unverified bytes, while a decompress failure or a table entry marked
// corrupted returns a ChecksumOrDecompressError (spec.md §4.5, §7).
func WithWipeOnError(wipe bool) Option {
	return func(h *Handle) { h.wipeOnError = wipe }
}

// WithCompressionLevel sets the write-path DEFLATE effort.
func WithCompressionLevel(l codec.Level) Option {
	return func(h *Handle) { h.compressionLevel = l }
}

// WithPatternFillEnabled toggles the 8-byte periodic-pattern fast path on
// the write path (spec.md §4.4 encode step 1).
func WithPatternFillEnabled(enabled bool) Option {
	return func(h *Handle) { h.patternFillEnabled = enabled }
}

// WithCompressEmptyBlock forces DEFLATE even at LevelNone when a buffer is
// all-zero, so an all-zero chunk still shrinks (spec.md §4.4 encode step 2).
func WithCompressEmptyBlock(enabled bool) Option {
	return func(h *Handle) { h.compressEmptyBlock = enabled }
}

// WithSegmentChunkBudget overrides the default chunks-per-segment and
// chunks-per-section thresholds used on the write path (spec.md §5
// "the configured chunk budget").
func WithSegmentChunkBudget(chunksPerSegment, chunksPerSection int) Option {
	return func(h *Handle) {
		h.chunksPerSegment = chunksPerSegment
		h.chunksPerSection = chunksPerSection
	}
}

// WithLogger overrides the default charmbracelet/log logger used for
// Compensate-tolerance diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(h *Handle) { h.logger = l }
}

// WithV2 selects the Ex01/LVF v2 on-disk layout for a fresh write session.
func WithV2(v2 bool) Option {
	return func(h *Handle) { h.v2 = v2 }
}
