package headervalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetStandardValue(t *testing.T) {
	v := New()
	_, ok := v.Get(CaseNumber)
	require.False(t, ok)

	v.Set(CaseNumber, "2024-001")
	got, ok := v.Get(CaseNumber)
	require.True(t, ok)
	require.Equal(t, "2024-001", got)
}

func TestSetExtraPreservesInsertionOrder(t *testing.T) {
	v := New()
	v.SetExtra("zeta", "1")
	v.SetExtra("alpha", "2")
	v.SetExtra("zeta", "updated")

	require.Equal(t, []string{"zeta", "alpha"}, v.ExtraKeys())
	got, ok := v.GetExtra("zeta")
	require.True(t, ok)
	require.Equal(t, "updated", got)
}

func TestCopyDeepCopiesStandardAndExtraValues(t *testing.T) {
	src := New()
	src.Set(Description, "disk image")
	src.SetExtra("custom", "value")

	dst := New()
	Copy(dst, src)

	got, ok := dst.Get(Description)
	require.True(t, ok)
	require.Equal(t, "disk image", got)

	extra, ok := dst.GetExtra("custom")
	require.True(t, ok)
	require.Equal(t, "value", extra)

	// Mutating src after the copy must not affect dst.
	src.SetExtra("custom", "mutated")
	extra, _ = dst.GetExtra("custom")
	require.Equal(t, "value", extra)
}

func TestIDKeyAndParseKeyRoundTrip(t *testing.T) {
	for id := ID(0); id < idCount; id++ {
		key := id.Key()
		require.NotEmpty(t, key)
		got, ok := ParseKey(key)
		require.True(t, ok)
		require.Equal(t, id, got)
	}
}

func TestParseKeyRejectsUnknown(t *testing.T) {
	_, ok := ParseKey("not_a_real_key")
	require.False(t, ok)
}
