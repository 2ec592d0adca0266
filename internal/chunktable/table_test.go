package chunktable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcforensics/goewf/internal/codec"
)

func TestFillInstallsEmptySlots(t *testing.T) {
	tbl := New()
	entries := []Entry{
		{SegmentIndex: 1, Offset: 100, Size: 10},
		{SegmentIndex: 1, Offset: 110, Size: 10},
	}
	require.NoError(t, tbl.Fill(0, entries, false))

	got, ok := tbl.Get(0)
	require.True(t, ok)
	require.Equal(t, entries[0], got)
	got, ok = tbl.Get(1)
	require.True(t, ok)
	require.Equal(t, entries[1], got)
}

func TestFillRejectsDuplicateBinding(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Fill(0, []Entry{{SegmentIndex: 1, Offset: 0, Size: 5}}, false))
	err := tbl.Fill(0, []Entry{{SegmentIndex: 1, Offset: 99, Size: 5}}, false)
	require.Error(t, err)
	var dupErr *DuplicateBindingError
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, uint32(0), dupErr.ChunkIndex)
}

func TestFillKeepsDeltaBindingOverAcquisitionEntry(t *testing.T) {
	tbl := New()
	delta := Entry{SegmentIndex: -1, Offset: 16, Size: 20, Flags: codec.IsDelta}
	tbl.Set(0, delta)

	require.NoError(t, tbl.Fill(0, []Entry{{SegmentIndex: 1, Offset: 500, Size: 5}}, false))
	got, ok := tbl.Get(0)
	require.True(t, ok)
	require.Equal(t, delta, got)
}

func TestCorrectFillsMissingEntry(t *testing.T) {
	tbl := New()
	cand := Entry{SegmentIndex: 1, Offset: 200, Size: 8}
	require.NoError(t, tbl.Correct(0, []Entry{cand}))
	got, ok := tbl.Get(0)
	require.True(t, ok)
	require.Equal(t, cand, got)
}

func TestCorrectPrefersCleanOverTainted(t *testing.T) {
	tbl := New()
	tainted := Entry{SegmentIndex: 1, Offset: 100, Size: 10, Flags: codec.IsTainted}
	tbl.Set(0, tainted)

	clean := Entry{SegmentIndex: 1, Offset: 300, Size: 10}
	require.NoError(t, tbl.Correct(0, []Entry{clean}))
	got, _ := tbl.Get(0)
	require.Equal(t, clean, got)
}

func TestCorrectKeepsCleanCurrentOverTaintedCandidate(t *testing.T) {
	tbl := New()
	clean := Entry{SegmentIndex: 1, Offset: 100, Size: 10}
	tbl.Set(0, clean)

	taintedCand := Entry{SegmentIndex: 1, Offset: 300, Size: 10, Flags: codec.IsTainted}
	require.NoError(t, tbl.Correct(0, []Entry{taintedCand}))
	got, _ := tbl.Get(0)
	require.Equal(t, clean, got)
}

func TestCorrectDisagreementKeepsTableWhenSourceNotTainted(t *testing.T) {
	tbl := New()
	fromTable := Entry{SegmentIndex: 1, Offset: 100, Size: 10}
	require.NoError(t, tbl.Fill(0, []Entry{fromTable}, false))

	fromTable2 := Entry{SegmentIndex: 1, Offset: 900, Size: 10}
	require.NoError(t, tbl.Correct(0, []Entry{fromTable2}))

	got, _ := tbl.Get(0)
	require.Equal(t, fromTable.Offset, got.Offset)
	require.True(t, got.Flags.Has(codec.IsTainted))
}

func TestCorrectDisagreementPrefersTable2WhenSourceTainted(t *testing.T) {
	tbl := New()
	fromTable := Entry{SegmentIndex: 1, Offset: 100, Size: 10}
	require.NoError(t, tbl.Fill(0, []Entry{fromTable}, true))

	fromTable2 := Entry{SegmentIndex: 1, Offset: 900, Size: 10}
	require.NoError(t, tbl.Correct(0, []Entry{fromTable2}))

	got, _ := tbl.Get(0)
	require.Equal(t, fromTable2.Offset, got.Offset)
	require.True(t, got.Flags.Has(codec.IsTainted))
}

func TestCorrectNeverOverwritesDeltaBinding(t *testing.T) {
	tbl := New()
	delta := Entry{SegmentIndex: -1, Offset: 16, Size: 20, Flags: codec.IsDelta}
	tbl.Set(0, delta)

	require.NoError(t, tbl.Correct(0, []Entry{{SegmentIndex: 1, Offset: 900, Size: 10}}))
	got, _ := tbl.Get(0)
	require.Equal(t, delta, got)
}

func TestIndicesAreSortedAscending(t *testing.T) {
	tbl := New()
	tbl.Set(5, Entry{})
	tbl.Set(1, Entry{})
	tbl.Set(3, Entry{})

	require.Equal(t, []uint32{1, 3, 5}, tbl.Indices())
}

func TestLenReflectsBoundChunks(t *testing.T) {
	tbl := New()
	require.Equal(t, 0, tbl.Len())
	tbl.Set(0, Entry{})
	tbl.Set(1, Entry{})
	require.Equal(t, 2, tbl.Len())
}
