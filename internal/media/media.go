// Package media models the EWF volume/media invariants: chunk size, sector
// size, chunk and sector counts, and the media-size bound they imply.
package media

import (
	"fmt"

	"github.com/google/uuid"
)

// Type identifies the kind of storage media an image was acquired from.
type Type uint8

const (
	TypeRemovable Type = 0x00
	TypeFixed     Type = 0x01
	TypeOptical   Type = 0x03
	TypeLogical   Type = 0x0e
	TypeRAM       Type = 0x10
)

// Flags is the bit-set of media flags; bit 1 (FlagPhysical) distinguishes
// physical from logical acquisition.
type Flags uint8

const (
	FlagImage    Flags = 0x01
	FlagPhysical Flags = 0x02
	FlagFastbloc Flags = 0x04
	FlagTableau  Flags = 0x08
)

// IsPhysical reports whether the image was acquired from a physical device
// rather than a logical evidence file.
func (f Flags) IsPhysical() bool { return f&FlagPhysical != 0 }

// CompressionLevel mirrors the on-disk compression_level byte of the volume
// section. It is independent of the per-chunk codec's own level selection,
// which is plumbed through Handle options instead.
type CompressionLevel uint8

const (
	CompressionNone CompressionLevel = 0x00
	CompressionFast CompressionLevel = 0x01
	CompressionBest CompressionLevel = 0x02
)

// Model holds the invariants that make random access into the logical
// device well-defined. It is immutable once frozen: the Handle freezes it
// after the first volume section is observed on read, or after the first
// chunk is written.
type Model struct {
	BytesPerSector       uint32
	SectorsPerChunk      uint32
	NumberOfChunks       uint32
	NumberOfSectors      uint64
	MediaType            Type
	MediaFlags           Flags
	ErrorGranularity     uint32
	GUID                 [16]byte
	CompressionLevel     CompressionLevel
	PALMVolumeStartSector uint32
	SMARTLogsStartSector  uint32

	frozen bool
}

// ChunkSize returns bytes_per_sector * sectors_per_chunk, the unit of
// compression and addressing.
func (m *Model) ChunkSize() uint64 {
	return uint64(m.BytesPerSector) * uint64(m.SectorsPerChunk)
}

// MediaSize returns number_of_sectors * bytes_per_sector.
func (m *Model) MediaSize() uint64 {
	return m.NumberOfSectors * uint64(m.BytesPerSector)
}

// NewGUID populates m.GUID with a fresh random identifier, used when
// initializing a fresh write session.
func (m *Model) NewGUID() {
	id := uuid.New()
	copy(m.GUID[:], id[:])
}

// GUIDString formats the media GUID the way acquisition tools print it.
func (m *Model) GUIDString() string {
	id, err := uuid.FromBytes(m.GUID[:])
	if err != nil {
		return fmt.Sprintf("%x", m.GUID)
	}
	return id.String()
}

// Validate checks the invariants from spec.md §3.
func (m *Model) Validate() error {
	if m.BytesPerSector == 0 || m.BytesPerSector > 1<<31-1 {
		return fmt.Errorf("media: bytes_per_sector out of range: %d", m.BytesPerSector)
	}
	if m.SectorsPerChunk == 0 || m.SectorsPerChunk > 1<<31-1 {
		return fmt.Errorf("media: sectors_per_chunk out of range: %d", m.SectorsPerChunk)
	}
	chunkSize := m.ChunkSize()
	if chunkSize > 1<<31-1 {
		return fmt.Errorf("media: chunk_size exceeds 2^31-1: %d", chunkSize)
	}
	if m.MediaSize() > chunkSize*(1<<32) {
		return fmt.Errorf("media: media_size %d exceeds chunk_size*2^32 bound", m.MediaSize())
	}
	return nil
}

// Freeze locks the model against further field mutation. Subsequent callers
// should treat the Model as read-only; Freeze itself only flips a flag that
// SetXxx-style wrappers in the owning Handle are expected to consult.
func (m *Model) Freeze() { m.frozen = true }

// Frozen reports whether Freeze has been called.
func (m *Model) Frozen() bool { return m.frozen }

// ConsistentWith reports whether two volume-section observations of the
// same image agree, per spec.md §4.2's "duplicate definition must match"
// rule. It compares only the fields a second volume/disk section can carry.
func (m *Model) ConsistentWith(other *Model) (field string, ok bool) {
	switch {
	case m.BytesPerSector != other.BytesPerSector:
		return "bytes_per_sector", false
	case m.SectorsPerChunk != other.SectorsPerChunk:
		return "sectors_per_chunk", false
	case m.NumberOfSectors != other.NumberOfSectors:
		return "number_of_sectors", false
	case m.MediaType != other.MediaType:
		return "media_type", false
	}
	return "", true
}
