package headervalue

import (
	"encoding/binary"
	"fmt"

	"github.com/dcforensics/goewf/internal/section"
)

// HashSectionSize is the `hash` section body: 16-byte MD5 + 16 reserved
// bytes + u32 checksum (spec.md §6).
const HashSectionSize = 16 + 16 + 4

// DigestSectionSize is the `digest` section body: 16-byte MD5 + 20-byte
// SHA-1 + padding + u32 checksum. The padding width isn't given verbatim;
// 4 bytes keeps the checksum 4-byte aligned, matching the same judgment
// call made for the v1 chunk table header.
const DigestSectionSize = 16 + 20 + 4 + 4

// Digest holds the media hashes an acquisition computed over the full
// logical device.
type Digest struct {
	MD5    [16]byte
	SHA1   [20]byte
	HasMD5 bool
	HasSHA1 bool
}

// MarshalHash serializes just the MD5 into a `hash` section body.
func MarshalHash(d Digest) [HashSectionSize]byte {
	var buf [HashSectionSize]byte
	copy(buf[0:16], d.MD5[:])
	binary.LittleEndian.PutUint32(buf[32:36], section.Checksum(buf[0:32]))
	return buf
}

// UnmarshalHash parses a `hash` section body.
func UnmarshalHash(buf [HashSectionSize]byte) (Digest, bool, error) {
	var d Digest
	copy(d.MD5[:], buf[0:16])
	d.HasMD5 = true
	stored := binary.LittleEndian.Uint32(buf[32:36])
	ok := section.Checksum(buf[0:32]) == stored
	return d, ok, nil
}

// MarshalDigest serializes MD5+SHA-1 into a `digest` section body.
func MarshalDigest(d Digest) [DigestSectionSize]byte {
	var buf [DigestSectionSize]byte
	copy(buf[0:16], d.MD5[:])
	copy(buf[16:36], d.SHA1[:])
	binary.LittleEndian.PutUint32(buf[DigestSectionSize-4:], section.Checksum(buf[0:DigestSectionSize-4]))
	return buf
}

// UnmarshalDigest parses a `digest` section body.
func UnmarshalDigest(buf [DigestSectionSize]byte) (Digest, bool, error) {
	var d Digest
	copy(d.MD5[:], buf[0:16])
	copy(d.SHA1[:], buf[16:36])
	d.HasMD5, d.HasSHA1 = true, true
	stored := binary.LittleEndian.Uint32(buf[DigestSectionSize-4:])
	ok := section.Checksum(buf[0:DigestSectionSize-4]) == stored
	return d, ok, nil
}

// String implements fmt.Stringer for diagnostic logging.
func (d Digest) String() string {
	return fmt.Sprintf("md5=%x sha1=%x", d.MD5, d.SHA1)
}
