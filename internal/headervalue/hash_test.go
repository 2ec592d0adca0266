package headervalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalHashRoundTrip(t *testing.T) {
	d := Digest{MD5: [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}
	buf := MarshalHash(d)

	got, checksumOK, err := UnmarshalHash(buf)
	require.NoError(t, err)
	require.True(t, checksumOK)
	require.Equal(t, d.MD5, got.MD5)
	require.True(t, got.HasMD5)
}

func TestUnmarshalHashDetectsChecksumMismatch(t *testing.T) {
	d := Digest{MD5: [16]byte{1, 2, 3}}
	buf := MarshalHash(d)
	buf[0] ^= 0xFF

	_, checksumOK, err := UnmarshalHash(buf)
	require.NoError(t, err)
	require.False(t, checksumOK)
}

func TestMarshalUnmarshalDigestRoundTrip(t *testing.T) {
	d := Digest{
		MD5:  [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SHA1: [20]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
	}
	buf := MarshalDigest(d)

	got, checksumOK, err := UnmarshalDigest(buf)
	require.NoError(t, err)
	require.True(t, checksumOK)
	require.Equal(t, d.MD5, got.MD5)
	require.Equal(t, d.SHA1, got.SHA1)
	require.True(t, got.HasMD5)
	require.True(t, got.HasSHA1)
}
