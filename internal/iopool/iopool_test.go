package iopool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seg1")

	p := New(0)
	p.Register(1, path, Create)

	data := []byte("hello segment")
	n, err := p.WriteAt(1, 0, data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	got := make([]byte, len(data))
	n, err = p.ReadAt(1, 0, got)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, got)
}

func TestReadAtUnregisteredSegmentErrors(t *testing.T) {
	p := New(0)
	_, err := p.ReadAt(42, 0, make([]byte, 4))
	require.Error(t, err)
}

func TestIsRegistered(t *testing.T) {
	p := New(0)
	require.False(t, p.IsRegistered(1))
	p.Register(1, "/tmp/whatever", ReadOnly)
	require.True(t, p.IsRegistered(1))
}

func TestEvictionClosesLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	p := New(1)
	p.Register(1, filepath.Join(dir, "a"), Create)
	p.Register(2, filepath.Join(dir, "b"), Create)

	_, err := p.WriteAt(1, 0, []byte("a"))
	require.NoError(t, err)
	_, err = p.WriteAt(2, 0, []byte("b"))
	require.NoError(t, err)

	// Segment 1 was evicted to respect maxOpen=1; re-reading it must
	// transparently reopen the file rather than error.
	got := make([]byte, 1)
	_, err = p.ReadAt(1, 0, got)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got)
}

func TestCloseAllKeepsRegistrationForReopen(t *testing.T) {
	dir := t.TempDir()
	p := New(0)
	p.Register(1, filepath.Join(dir, "seg"), Create)
	_, err := p.WriteAt(1, 0, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, p.CloseAll())
	require.True(t, p.IsRegistered(1))

	got := make([]byte, 1)
	_, err = p.ReadAt(1, 0, got)
	require.NoError(t, err)
}

func TestSizeReportsFileSize(t *testing.T) {
	dir := t.TempDir()
	p := New(0)
	p.Register(1, filepath.Join(dir, "seg"), Create)
	_, err := p.WriteAt(1, 0, []byte("12345"))
	require.NoError(t, err)

	sz, err := p.Size(1)
	require.NoError(t, err)
	require.Equal(t, int64(5), sz)
}
