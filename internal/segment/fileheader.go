package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FileHeaderSize is the on-disk size of the segment file header (spec.md
// §6: signature(8) + fields(5) + segment_number(2) + terminator(1)).
const FileHeaderSize = 16

var (
	// SignatureEWF is the v1 EWF/EnCase/FTK/SMART file signature.
	SignatureEWF = [8]byte{'E', 'V', 'F', 0x09, 0x0d, 0x0a, 0xff, 0x00}
	// SignatureEx01 is the v2 Ex01/LVF signature.
	SignatureEx01 = [8]byte{'E', 'V', 'F', '2', 0x0d, 0x0a, 0x81, 0x00}
)

// FileHeader is the first 16 bytes of every segment file.
type FileHeader struct {
	Signature     [8]byte
	Fields        [5]byte
	SegmentNumber uint16
	Terminator    uint8
}

// Version reports which signature FileHeader carries; it returns
// (false, false) if neither v1 nor v2 matches, which the caller rejects
// (spec.md §4.2 "Reject otherwise with InvalidFormat").
func (h *FileHeader) Version() (v1 bool, v2 bool) {
	if bytes.Equal(h.Signature[:], SignatureEWF[:]) {
		return true, false
	}
	if bytes.Equal(h.Signature[:], SignatureEx01[:]) {
		return false, true
	}
	return false, false
}

// Marshal serializes h to its 16-byte wire form.
func (h *FileHeader) Marshal() [FileHeaderSize]byte {
	var buf [FileHeaderSize]byte
	copy(buf[0:8], h.Signature[:])
	copy(buf[8:13], h.Fields[:])
	binary.LittleEndian.PutUint16(buf[13:15], h.SegmentNumber)
	buf[15] = h.Terminator
	return buf
}

// UnmarshalFileHeader decodes and validates a 16-byte segment file header.
func UnmarshalFileHeader(buf [FileHeaderSize]byte) (*FileHeader, error) {
	h := &FileHeader{}
	copy(h.Signature[:], buf[0:8])
	copy(h.Fields[:], buf[8:13])
	h.SegmentNumber = binary.LittleEndian.Uint16(buf[13:15])
	h.Terminator = buf[15]
	if v1, v2 := h.Version(); !v1 && !v2 {
		return nil, fmt.Errorf("segment: invalid file signature %x", h.Signature)
	}
	return h, nil
}

// NewFileHeader builds a fresh v1 or v2 file header for segmentNumber
// (1-based).
func NewFileHeader(v2 bool, segmentNumber uint16) *FileHeader {
	h := &FileHeader{SegmentNumber: segmentNumber}
	if v2 {
		h.Signature = SignatureEx01
	} else {
		h.Signature = SignatureEWF
	}
	return h
}
