package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableAddAssignsSequentialIndices(t *testing.T) {
	tbl := NewTable(FamilyE01)
	a := tbl.Add("image.E01")
	b := tbl.Add("image.E02")

	require.Equal(t, 1, a.Index)
	require.Equal(t, 2, b.Index)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, []int{1, 2}, tbl.Indices())
}

func TestTableGetAndLast(t *testing.T) {
	tbl := NewTable(FamilyE01)
	require.Nil(t, tbl.Last())

	tbl.Add("image.E01")
	second := tbl.Add("image.E02")

	require.Equal(t, second, tbl.Last())

	f, err := tbl.Get(1)
	require.NoError(t, err)
	require.Equal(t, "image.E01", f.Path)

	_, err = tbl.Get(99)
	require.Error(t, err)
}
