package headervalue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeParseFieldsRoundTrip(t *testing.T) {
	tm := time.Date(2024, time.March, 5, 13, 45, 9, 0, time.Local)
	s := EncodeFields(tm)
	got, err := ParseFields(s)
	require.NoError(t, err)
	require.True(t, tm.Equal(got))
}

func TestParseFieldsRejectsWrongFieldCount(t *testing.T) {
	_, err := ParseFields("2024 3 5")
	require.Error(t, err)
}

func TestEncodeParseEpochRoundTrip(t *testing.T) {
	tm := time.Unix(1_700_000_000, 0)
	s := EncodeEpoch(tm)
	got, err := ParseEpoch(s)
	require.NoError(t, err)
	require.True(t, tm.Equal(got))
}

func TestParseEpochRejectsNonNumeric(t *testing.T) {
	_, err := ParseEpoch("not-a-number")
	require.Error(t, err)
}

func TestEncodeParseXHeaderRoundTrip(t *testing.T) {
	tm := time.Date(2024, time.March, 5, 13, 45, 9, 0, time.UTC)
	s := EncodeXHeader(tm)
	got, err := ParseXHeader(s)
	require.NoError(t, err)
	require.Equal(t, tm.Unix(), got.Unix())
}
