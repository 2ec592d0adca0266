package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newValidModel() *Model {
	return &Model{
		BytesPerSector:  512,
		SectorsPerChunk: 64,
		NumberOfSectors: 1000,
		NumberOfChunks:  16,
		MediaType:       TypeFixed,
		MediaFlags:      FlagImage | FlagPhysical,
	}
}

func TestChunkSizeAndMediaSize(t *testing.T) {
	m := newValidModel()
	require.Equal(t, uint64(512*64), m.ChunkSize())
	require.Equal(t, uint64(1000*512), m.MediaSize())
}

func TestValidateRejectsZeroBytesPerSector(t *testing.T) {
	m := newValidModel()
	m.BytesPerSector = 0
	require.Error(t, m.Validate())
}

func TestValidateRejectsZeroSectorsPerChunk(t *testing.T) {
	m := newValidModel()
	m.SectorsPerChunk = 0
	require.Error(t, m.Validate())
}

func TestFreezeIsIdempotentAndObservable(t *testing.T) {
	m := newValidModel()
	require.False(t, m.Frozen())
	m.Freeze()
	require.True(t, m.Frozen())
	m.Freeze()
	require.True(t, m.Frozen())
}

func TestNewGUIDPopulatesNonZero(t *testing.T) {
	m := &Model{}
	m.NewGUID()
	require.NotEqual(t, [16]byte{}, m.GUID)
}

func TestConsistentWithDetectsMismatch(t *testing.T) {
	a := newValidModel()
	b := newValidModel()
	field, ok := a.ConsistentWith(b)
	require.True(t, ok)
	require.Empty(t, field)

	b.SectorsPerChunk = 128
	field, ok = a.ConsistentWith(b)
	require.False(t, ok)
	require.Equal(t, "sectors_per_chunk", field)
}

func TestMarshalUnmarshalVolumeRoundTrip(t *testing.T) {
	m := newValidModel()
	m.NewGUID()
	buf := m.MarshalVolume()

	got, checksumOK, err := UnmarshalVolume(buf)
	require.NoError(t, err)
	require.True(t, checksumOK)
	require.Equal(t, m.BytesPerSector, got.BytesPerSector)
	require.Equal(t, m.SectorsPerChunk, got.SectorsPerChunk)
	require.Equal(t, m.NumberOfSectors, got.NumberOfSectors)
	require.Equal(t, m.NumberOfChunks, got.NumberOfChunks)
	require.Equal(t, m.MediaType, got.MediaType)
	require.Equal(t, m.GUID, got.GUID)
}

func TestUnmarshalVolumeDetectsChecksumMismatch(t *testing.T) {
	m := newValidModel()
	buf := m.MarshalVolume()
	buf[0] ^= 0xFF

	_, checksumOK, err := UnmarshalVolume(buf)
	require.NoError(t, err)
	require.False(t, checksumOK)
}
