package section

import (
	"fmt"
	"io"
)

// Located pairs a parsed Descriptor with the file offset it was read from
// and the computed extent of its body, so callers can dispatch on Kind
// without re-deriving offsets (spec.md §4.2).
type Located struct {
	Descriptor
	StartOffset uint64 // offset of the descriptor itself
	BodyOffset  uint64 // StartOffset + DescriptorSize
	BodySize    uint64 // Size - DescriptorSize
	EndOffset   uint64 // BodyOffset + BodySize
}

// Logger is the minimal surface section needs from a logging backend,
// satisfied by *charmlog.Logger without importing it here.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// NopLogger is a Logger that discards everything.
var NopLogger Logger = nopLogger{}

// WalkChain reads the singly linked list of section descriptors starting at
// firstOffset, following NextOffset until a `next` or `done` descriptor
// terminates the stream (spec.md §3, §4.2). fileSize bounds validity checks.
func WalkChain(r io.ReaderAt, firstOffset uint64, fileSize int64, tol Tolerance, log Logger) ([]Located, error) {
	if log == nil {
		log = NopLogger
	}
	var out []Located
	seen := make(map[uint64]bool)
	offset := firstOffset

	for {
		if seen[offset] {
			return out, fmt.Errorf("section: offset loop detected at %d", offset)
		}
		seen[offset] = true

		if offset >= uint64(fileSize) {
			return out, fmt.Errorf("section: offset %d beyond file size %d", offset, fileSize)
		}

		var raw [DescriptorSize]byte
		if _, err := r.ReadAt(raw[:], int64(offset)); err != nil {
			return out, fmt.Errorf("section: read descriptor at %d: %w", offset, err)
		}

		desc, checksumOK := Unmarshal(raw)
		if !checksumOK {
			if tol == Strict {
				return out, fmt.Errorf("section: checksum mismatch at offset %d (%s)", offset, desc.Kind())
			}
			log.Warnf("section: checksum mismatch at offset %d (%s); compensating", offset, desc.Kind())
		}

		if desc.Size < DescriptorSize {
			return out, fmt.Errorf("section: declared size %d smaller than descriptor at %d", desc.Size, offset)
		}
		if offset+desc.Size > uint64(fileSize) {
			return out, fmt.Errorf("section: declared size %d at offset %d exceeds file size %d", desc.Size, offset, fileSize)
		}

		loc := Located{
			Descriptor:  desc,
			StartOffset: offset,
			BodyOffset:  offset + DescriptorSize,
			BodySize:    desc.Size - DescriptorSize,
			EndOffset:   offset + desc.Size,
		}
		out = append(out, loc)

		kind := desc.Kind()
		if kind == KindDone {
			return out, nil
		}
		if desc.NextOffset == 0 {
			return out, nil
		}
		if kind == KindNext {
			// `next` terminates this segment; the caller moves to the next
			// segment file rather than continuing the chain here.
			return out, nil
		}
		offset = desc.NextOffset
	}
}
