package errorset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddWithoutMergeKeepsDistinctIntervals(t *testing.T) {
	var s Set
	s.Add(100, 10, false)
	s.Add(50, 5, false)
	require.Equal(t, 2, s.Len())
	first, _ := s.Get(0)
	require.Equal(t, uint64(50), first.FirstSector)
}

func TestAddWithMergeCoalescesOverlapping(t *testing.T) {
	var s Set
	s.Add(100, 10, true) // [100,110)
	s.Add(105, 10, true) // overlaps -> [100,115)
	require.Equal(t, 1, s.Len())
	iv, _ := s.Get(0)
	require.Equal(t, uint64(100), iv.FirstSector)
	require.Equal(t, uint64(15), iv.Count)
}

func TestAddWithMergeCoalescesAdjacent(t *testing.T) {
	var s Set
	s.Add(0, 10, true)  // [0,10)
	s.Add(10, 5, true)  // adjoins -> [0,15)
	require.Equal(t, 1, s.Len())
	iv, _ := s.Get(0)
	require.Equal(t, uint64(15), iv.Count)
}

func TestAddZeroCountIsNoOp(t *testing.T) {
	var s Set
	s.Add(0, 0, true)
	require.Equal(t, 0, s.Len())
}

func TestFindReturnsContainingInterval(t *testing.T) {
	var s Set
	s.Add(100, 10, true)
	iv, ok := s.Find(105)
	require.True(t, ok)
	require.Equal(t, uint64(100), iv.FirstSector)

	_, ok = s.Find(200)
	require.False(t, ok)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	var s Set
	s.Add(0, 10, true)
	s.Add(100, 50, true)

	body := Marshal(&s)
	got, checksumOK, err := Unmarshal(body)
	require.NoError(t, err)
	require.True(t, checksumOK)
	require.Equal(t, s.All(), got.All())
}

func TestUnmarshalDetectsChecksumMismatch(t *testing.T) {
	var s Set
	s.Add(0, 10, true)
	body := Marshal(&s)
	body[wireHeaderSize] ^= 0xFF // corrupt the first record, invalidating the stored checksum

	_, checksumOK, err := Unmarshal(body)
	require.NoError(t, err)
	require.False(t, checksumOK)
}

func TestUnmarshalRejectsTruncatedBody(t *testing.T) {
	_, _, err := Unmarshal([]byte{1, 2, 3})
	require.Error(t, err)
}
