package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileHeaderMarshalUnmarshalRoundTripV1(t *testing.T) {
	h := NewFileHeader(false, 3)
	buf := h.Marshal()

	got, err := UnmarshalFileHeader(buf)
	require.NoError(t, err)
	v1, v2 := got.Version()
	require.True(t, v1)
	require.False(t, v2)
	require.Equal(t, uint16(3), got.SegmentNumber)
}

func TestFileHeaderMarshalUnmarshalRoundTripV2(t *testing.T) {
	h := NewFileHeader(true, 1)
	buf := h.Marshal()

	got, err := UnmarshalFileHeader(buf)
	require.NoError(t, err)
	v1, v2 := got.Version()
	require.False(t, v1)
	require.True(t, v2)
}

func TestUnmarshalFileHeaderRejectsBadSignature(t *testing.T) {
	var buf [FileHeaderSize]byte
	copy(buf[:], "garbage!")
	_, err := UnmarshalFileHeader(buf)
	require.Error(t, err)
}
