// Package section implements the EWF section descriptor: the 76-byte,
// checksummed, length-prefixed record that chains a segment file's sections
// together (spec.md §3, §4.2, §6).
package section

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
)

// DescriptorSize is the on-disk size of a v1 section descriptor.
const DescriptorSize = 76

// Kind is the discriminated section type, replacing the teacher's
// string-compare-and-cast dispatch with a sum type per spec.md §9.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindHeader
	KindHeader2
	KindXHeader
	KindVolume
	KindDisk
	KindData
	KindTable
	KindTable2
	KindSectors
	KindLtree
	KindSession
	KindError2
	KindHash
	KindDigest
	KindXHash
	KindNext
	KindDone
	KindLtype
	KindMap
)

var kindNames = map[Kind]string{
	KindHeader:  "header",
	KindHeader2: "header2",
	KindXHeader: "xheader",
	KindVolume:  "volume",
	KindDisk:    "disk",
	KindData:    "data",
	KindTable:   "table",
	KindTable2:  "table2",
	KindSectors: "sectors",
	KindLtree:   "ltree",
	KindSession: "session",
	KindError2:  "error2",
	KindHash:    "hash",
	KindDigest:  "digest",
	KindXHash:   "xhash",
	KindNext:    "next",
	KindDone:    "done",
	KindLtype:   "ltype",
	KindMap:     "map",
}

var namesToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps the 16-byte, NUL-padded type string to a Kind. Unknown
// strings yield KindUnknown rather than an error: the caller decides
// whether an unrecognized section is fatal (see Tolerance).
func ParseKind(raw [16]byte) Kind {
	s := string(bytes.TrimRight(raw[:], "\x00"))
	if k, ok := namesToKind[s]; ok {
		return k
	}
	return KindUnknown
}

// Encode returns the 16-byte type field for k.
func (k Kind) Encode() [16]byte {
	var out [16]byte
	copy(out[:], kindNames[k])
	return out
}

// Descriptor is the wire layout of a v1 section header (spec.md §6).
type Descriptor struct {
	TypeDefinition [16]byte
	NextOffset     uint64
	Size           uint64
	Padding        [40]byte
	Checksum       uint32
}

// Kind decodes the type field.
func (d *Descriptor) Kind() Kind { return ParseKind(d.TypeDefinition) }

// ewfChecksum is the rolling Adler-32 sum used throughout the format
// (spec.md §4.4, §8 P3): adler32 with initial value 1, exactly
// ewf_checksum_calculate(bytes, len, 1) in the original.
func ewfChecksum(data []byte) uint32 {
	return adler32.Checksum(data)
}

// computeChecksum returns the checksum over the first 72 bytes of a
// marshaled descriptor (everything but the checksum field itself).
func computeChecksum(buf [DescriptorSize]byte) uint32 {
	return ewfChecksum(buf[:DescriptorSize-4])
}

// Marshal serializes d to its 76-byte wire form, stamping the checksum.
func (d *Descriptor) Marshal() [DescriptorSize]byte {
	var buf [DescriptorSize]byte
	copy(buf[0:16], d.TypeDefinition[:])
	binary.LittleEndian.PutUint64(buf[16:24], d.NextOffset)
	binary.LittleEndian.PutUint64(buf[24:32], d.Size)
	// bytes 32:72 are padding, already zero
	cs := computeChecksum(buf)
	binary.LittleEndian.PutUint32(buf[72:76], cs)
	d.Checksum = cs
	return buf
}

// Unmarshal decodes a 76-byte descriptor and verifies its checksum.
// Under Compensate tolerance a checksum mismatch is non-fatal: the caller
// gets the descriptor back along with a reported mismatch so it can log and
// continue via the stored NextOffset, matching spec.md §4.2/§7.
func Unmarshal(buf [DescriptorSize]byte) (d Descriptor, checksumOK bool) {
	copy(d.TypeDefinition[:], buf[0:16])
	d.NextOffset = binary.LittleEndian.Uint64(buf[16:24])
	d.Size = binary.LittleEndian.Uint64(buf[24:32])
	copy(d.Padding[:], buf[32:72])
	d.Checksum = binary.LittleEndian.Uint32(buf[72:76])
	checksumOK = d.Checksum == computeChecksum(buf)
	return d, checksumOK
}

// NewDescriptor builds a descriptor for a section of kind k, body size
// bodySize (excluding the 76-byte header), whose next section begins at
// nextOffset.
func NewDescriptor(k Kind, bodySize uint64, nextOffset uint64) *Descriptor {
	return &Descriptor{
		TypeDefinition: k.Encode(),
		NextOffset:     nextOffset,
		Size:           DescriptorSize + bodySize,
	}
}

// Checksum exposes the EWF rolling checksum for use by other packages
// (table footers, volume sections, hash/digest sections) that embed their
// own trailing checksum field using the same algorithm.
func Checksum(data []byte) uint32 { return ewfChecksum(data) }

// VerifyChecksum reports whether data's trailing 4-byte little-endian
// checksum (not included in the covered range) matches the EWF checksum of
// the rest of data. It is the shape used by hash/digest/volume sections.
func VerifyChecksum(coveredAndChecksum []byte) bool {
	if len(coveredAndChecksum) < 4 {
		return false
	}
	n := len(coveredAndChecksum) - 4
	want := binary.LittleEndian.Uint32(coveredAndChecksum[n:])
	return ewfChecksum(coveredAndChecksum[:n]) == want
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("section %s size=%d next=%d", d.Kind(), d.Size, d.NextOffset)
}
