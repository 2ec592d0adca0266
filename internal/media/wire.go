package media

import (
	"encoding/binary"
	"fmt"

	"github.com/dcforensics/goewf/internal/section"
)

// VolumeSectionSize is the on-disk size of the volume/disk section body
// (spec.md §6): media_type(1) + unknown(3) + number_of_chunks(4) +
// sectors_per_chunk(4) + bytes_per_sector(4) + number_of_sectors(8) +
// chs(12) + media_flags(1) + unknown(3) + palm_volume_start_sector(4) +
// unknown(4) + smart_logs_start_sector(4) + compression_level(1) +
// unknown(3) + sector_error_granularity(4) + unknown(4) + guid(16) +
// unknown(963) + signature(5) + checksum(4).
const VolumeSectionSize = 1052

// MarshalVolume serializes m into a volume/disk section body.
func (m *Model) MarshalVolume() [VolumeSectionSize]byte {
	var buf [VolumeSectionSize]byte
	buf[0] = byte(m.MediaType)
	binary.LittleEndian.PutUint32(buf[4:8], m.NumberOfChunks)
	binary.LittleEndian.PutUint32(buf[8:12], m.SectorsPerChunk)
	binary.LittleEndian.PutUint32(buf[12:16], m.BytesPerSector)
	binary.LittleEndian.PutUint64(buf[16:24], m.NumberOfSectors)
	buf[36] = byte(m.MediaFlags)
	binary.LittleEndian.PutUint32(buf[40:44], m.PALMVolumeStartSector)
	binary.LittleEndian.PutUint32(buf[48:52], m.SMARTLogsStartSector)
	buf[52] = byte(m.CompressionLevel)
	binary.LittleEndian.PutUint32(buf[56:60], m.ErrorGranularity)
	copy(buf[64:80], m.GUID[:])

	cs := section.Checksum(buf[:VolumeSectionSize-4])
	binary.LittleEndian.PutUint32(buf[VolumeSectionSize-4:], cs)
	return buf
}

// UnmarshalVolume decodes a volume/disk section body and reports whether
// its trailing checksum verifies.
func UnmarshalVolume(buf [VolumeSectionSize]byte) (*Model, bool, error) {
	m := &Model{
		MediaType:             Type(buf[0]),
		NumberOfChunks:        binary.LittleEndian.Uint32(buf[4:8]),
		SectorsPerChunk:       binary.LittleEndian.Uint32(buf[8:12]),
		BytesPerSector:        binary.LittleEndian.Uint32(buf[12:16]),
		NumberOfSectors:       binary.LittleEndian.Uint64(buf[16:24]),
		MediaFlags:            Flags(buf[36]),
		PALMVolumeStartSector: binary.LittleEndian.Uint32(buf[40:44]),
		SMARTLogsStartSector:  binary.LittleEndian.Uint32(buf[48:52]),
		CompressionLevel:      CompressionLevel(buf[52]),
		ErrorGranularity:      binary.LittleEndian.Uint32(buf[56:60]),
	}
	copy(m.GUID[:], buf[64:80])

	stored := binary.LittleEndian.Uint32(buf[VolumeSectionSize-4:])
	ok := section.Checksum(buf[:VolumeSectionSize-4]) == stored
	if err := m.Validate(); err != nil {
		return m, ok, fmt.Errorf("media: %w", err)
	}
	return m, ok, nil
}
