package headervalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeBytesWindows1252RoundTrip(t *testing.T) {
	text := "café report"
	raw, err := EncodeBytes(SectionHeader, text)
	require.NoError(t, err)

	got, err := DecodeBytes(SectionHeader, raw)
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestEncodeDecodeBytesUTF16LERoundTrip(t *testing.T) {
	text := "header2 payload"
	raw, err := EncodeBytes(SectionHeader2, text)
	require.NoError(t, err)
	require.Equal(t, len(text)*2, len(raw))

	got, err := DecodeBytes(SectionHeader2, raw)
	require.NoError(t, err)
	require.Equal(t, text, got)
}

func TestEncodeDecodeBytesXHeaderIsUTF8Passthrough(t *testing.T) {
	text := "<xheader>plain utf-8</xheader>"
	raw, err := EncodeBytes(SectionXHeader, text)
	require.NoError(t, err)
	require.Equal(t, []byte(text), raw)

	got, err := DecodeBytes(SectionXHeader, raw)
	require.NoError(t, err)
	require.Equal(t, text, got)
}
