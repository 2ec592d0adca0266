package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorMarshalUnmarshalRoundTrip(t *testing.T) {
	d := NewDescriptor(KindVolume, 1052, 2000)
	buf := d.Marshal()

	got, checksumOK := Unmarshal(buf)
	require.True(t, checksumOK)
	require.Equal(t, KindVolume, got.Kind())
	require.Equal(t, uint64(2000), got.NextOffset)
	require.Equal(t, uint64(DescriptorSize+1052), got.Size)
}

func TestUnmarshalDetectsChecksumMismatch(t *testing.T) {
	d := NewDescriptor(KindHeader, 10, 100)
	buf := d.Marshal()
	buf[0] ^= 0xFF

	_, checksumOK := Unmarshal(buf)
	require.False(t, checksumOK)
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindHeader, KindVolume, KindTable, KindTable2, KindSectors, KindNext, KindDone} {
		require.Equal(t, k, ParseKind(k.Encode()))
	}
}

func TestParseKindUnknownString(t *testing.T) {
	var raw [16]byte
	copy(raw[:], "notarealsection")
	require.Equal(t, KindUnknown, ParseKind(raw))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("some data that gets checksummed")
	cs := Checksum(data)
	buf := append(append([]byte(nil), data...), byte(cs), byte(cs>>8), byte(cs>>16), byte(cs>>24))
	require.True(t, VerifyChecksum(buf))

	buf[0] ^= 1
	require.False(t, VerifyChecksum(buf))
}

func TestVerifyChecksumRejectsTooShort(t *testing.T) {
	require.False(t, VerifyChecksum([]byte{1, 2, 3}))
}
