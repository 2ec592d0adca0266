package chunktable

import (
	"encoding/binary"
	"fmt"

	"github.com/dcforensics/goewf/internal/codec"
)

// v2RecordSize is chunk_data_offset(8) + chunk_data_size(4) +
// chunk_data_flags(4), spec.md §4.3 "Encoding v2".
const v2RecordSize = 16

// ParseV2 decodes a `sector_table` body (Ex01) into Entry values. v2 carries
// no base-offset indirection or overflow quirk: offsets are absolute and
// flags are explicit.
func ParseV2(body []byte, segmentIndex int) ([]Entry, error) {
	if len(body)%v2RecordSize != 0 {
		return nil, fmt.Errorf("chunktable: v2 body length %d not a multiple of %d", len(body), v2RecordSize)
	}
	n := len(body) / v2RecordSize
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		rec := body[i*v2RecordSize : (i+1)*v2RecordSize]
		out[i] = Entry{
			SegmentIndex: segmentIndex,
			Offset:       binary.LittleEndian.Uint64(rec[0:8]),
			Size:         binary.LittleEndian.Uint32(rec[8:12]),
			Flags:        codec.Flags(binary.LittleEndian.Uint32(rec[12:16])),
		}
	}
	return out, nil
}

// BuildV2 serializes entries into a v2 sector_table body.
func BuildV2(entries []Entry) []byte {
	out := make([]byte, len(entries)*v2RecordSize)
	for i, e := range entries {
		rec := out[i*v2RecordSize : (i+1)*v2RecordSize]
		binary.LittleEndian.PutUint64(rec[0:8], e.Offset)
		binary.LittleEndian.PutUint32(rec[8:12], e.Size)
		binary.LittleEndian.PutUint32(rec[12:16], uint32(e.Flags))
	}
	return out
}
