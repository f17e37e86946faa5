package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreSaveAndRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("timetable.csv", []byte("Day,Start,End\n")))
	data, err := store.Read("timetable.csv")
	require.NoError(t, err)
	require.Equal(t, "Day,Start,End\n", string(data))
}

func TestFileStoreRejectsEscapingNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.Error(t, store.Save("../outside.csv", []byte("x")))
	require.Error(t, store.Save("/etc/passwd", []byte("x")))
	_, err = store.Read("nested/timetable.csv")
	require.Error(t, err)
}

func TestFileStoreSweepRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("old.csv", []byte("x")))
	require.NoError(t, store.Save("fresh.csv", []byte("y")))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), stale, stale))

	removed, err := store.Sweep(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = store.Read("old.csv")
	require.Error(t, err)
	_, err = store.Read("fresh.csv")
	require.NoError(t, err)
}
