package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumMatchesAdler32Seed1(t *testing.T) {
	// adler32.Checksum of an empty slice with the stdlib's own seed is 1;
	// our Checksum must agree since it's exactly that function.
	require.Equal(t, uint32(1), Checksum(nil))
}

func TestEncodeDecodeRoundTripRaw(t *testing.T) {
	plaintext := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 256)
	payload, flags, err := Encode(plaintext, EncodeOptions{Level: LevelNone})
	require.NoError(t, err)
	require.True(t, flags.Has(HasChecksum))
	require.False(t, flags.Has(IsCompressed))

	out, corrupted, err := Decode(payload, flags, len(plaintext))
	require.NoError(t, err)
	require.False(t, corrupted)
	require.Equal(t, plaintext, out)
}

func TestEncodeDecodeRoundTripCompressed(t *testing.T) {
	plaintext := bytes.Repeat([]byte("hello world, this compresses nicely "), 64)
	payload, flags, err := Encode(plaintext, EncodeOptions{Level: LevelBest})
	require.NoError(t, err)
	require.True(t, flags.Has(IsCompressed))

	out, corrupted, err := Decode(payload, flags, len(plaintext))
	require.NoError(t, err)
	require.False(t, corrupted)
	require.Equal(t, plaintext, out)
}

func TestEncodeDecodeRoundTripPatternFill(t *testing.T) {
	pattern := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}
	plaintext := bytes.Repeat(pattern, 512)
	payload, flags, err := Encode(plaintext, EncodeOptions{PatternFillEnabled: true})
	require.NoError(t, err)
	require.True(t, flags.Has(UsesPatternFill))
	require.Len(t, payload, 16)

	out, corrupted, err := Decode(payload, flags, len(plaintext))
	require.NoError(t, err)
	require.False(t, corrupted)
	require.Equal(t, plaintext, out)
}

func TestDecodeDetectsChecksumMismatch(t *testing.T) {
	plaintext := bytes.Repeat([]byte{0x42}, 64)
	payload, flags, err := Encode(plaintext, EncodeOptions{Level: LevelNone})
	require.NoError(t, err)

	corrupt := append([]byte(nil), payload...)
	corrupt[0] ^= 0xFF

	out, corrupted, err := Decode(corrupt, flags, len(plaintext))
	require.NoError(t, err)
	require.True(t, corrupted)
	require.NotEqual(t, plaintext, out)
}

func TestEncodeAllZeroWithoutCompressEmptyStaysRaw(t *testing.T) {
	plaintext := make([]byte, 128)
	payload, flags, err := Encode(plaintext, EncodeOptions{Level: LevelNone, CompressEmptyBlock: false})
	require.NoError(t, err)
	require.True(t, flags.Has(HasChecksum))
	require.False(t, flags.Has(IsCompressed))
	require.Len(t, payload, len(plaintext)+4)
}

func TestEncodeAllZeroWithCompressEmptyCompresses(t *testing.T) {
	plaintext := make([]byte, 4096)
	payload, flags, err := Encode(plaintext, EncodeOptions{Level: LevelBest, CompressEmptyBlock: true})
	require.NoError(t, err)
	require.True(t, flags.Has(IsCompressed))
	require.Less(t, len(payload), len(plaintext))
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "none", Flags(0).String())
	require.Equal(t, "compressed|checksum", (IsCompressed | HasChecksum).String())
}

func TestPoolAllocFree(t *testing.T) {
	p := NewPool(4096)
	buf := p.Alloc(100)
	require.GreaterOrEqual(t, cap(buf), 100)
	p.Free(buf)
}
