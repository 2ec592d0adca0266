package errorset

import (
	"encoding/binary"
	"fmt"

	"github.com/dcforensics/goewf/internal/section"
)

// recordSize is one interval's wire form: first_sector(8) + count(8).
const recordSize = 16

// wireHeaderSize is number_of_entries(4) + padding(4), mirroring the chunk
// table header's shape before its own trailing checksum.
const wireHeaderSize = 8

// Marshal serializes a Set into a session/error2 section body: a
// number-of-entries header, the interval records, and a trailing EWF
// checksum, the same header+records+checksum shape the chunk table uses
// (spec.md §6 names the sections but not their exact body layout; this
// mirrors the chunk table's documented shape for consistency).
func Marshal(s *Set) []byte {
	entries := s.All()
	body := make([]byte, wireHeaderSize+len(entries)*recordSize+4)
	binary.LittleEndian.PutUint32(body[0:4], uint32(len(entries)))
	for i, iv := range entries {
		off := wireHeaderSize + i*recordSize
		binary.LittleEndian.PutUint64(body[off:off+8], iv.FirstSector)
		binary.LittleEndian.PutUint64(body[off+8:off+16], iv.Count)
	}
	end := wireHeaderSize + len(entries)*recordSize
	binary.LittleEndian.PutUint32(body[end:end+4], section.Checksum(body[:end]))
	return body
}

// Unmarshal decodes a session/error2 section body into a fresh Set,
// coalescing adjacent/overlapping intervals as they're added.
func Unmarshal(body []byte) (*Set, bool, error) {
	if len(body) < wireHeaderSize+4 {
		return nil, false, fmt.Errorf("errorset: body too short: %d bytes", len(body))
	}
	n := binary.LittleEndian.Uint32(body[0:4])
	need := wireHeaderSize + int(n)*recordSize + 4
	if len(body) < need {
		return nil, false, fmt.Errorf("errorset: body declares %d entries but is %d bytes", n, len(body))
	}
	end := wireHeaderSize + int(n)*recordSize
	stored := binary.LittleEndian.Uint32(body[end : end+4])
	ok := section.Checksum(body[:end]) == stored

	s := &Set{}
	for i := 0; i < int(n); i++ {
		off := wireHeaderSize + i*recordSize
		first := binary.LittleEndian.Uint64(body[off : off+8])
		count := binary.LittleEndian.Uint64(body[off+8 : off+16])
		s.Add(first, count, true)
	}
	return s, ok, nil
}
