package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStore_WriteCreatesUniqueFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, time.Hour)

	first, err := store.Write([]byte("audio-1"), "neural", "mp3")
	require.NoError(t, err)
	second, err := store.Write([]byte("audio-2"), "neural", "mp3")
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename)
	assert.Equal(t, "neural", first.Provider)

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-1"), data)
}

func TestArtifactStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, time.Hour)

	_, err := store.Write([]byte("audio"), "espeak", "wav")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), partSuffix)
	assert.Contains(t, entries[0].Name(), ".wav")
}

func TestArtifactStore_WriteDefaultsExtension(t *testing.T) {
	store := NewArtifactStore(t.TempDir(), time.Hour)

	artifact, err := store.Write([]byte("audio"), "translate", "")
	require.NoError(t, err)

	assert.Contains(t, artifact.Filename, ".mp3")
}

func TestArtifactStore_ResolveRejectsPathTraversal(t *testing.T) {
	store := NewArtifactStore(t.TempDir(), time.Hour)

	_, err := store.Resolve("../etc/passwd")
	assert.Error(t, err)

	_, err = store.Resolve("")
	assert.Error(t, err)
}

func TestArtifactStore_ResolveFindsWrittenArtifact(t *testing.T) {
	store := NewArtifactStore(t.TempDir(), time.Hour)

	artifact, err := store.Write([]byte("audio"), "neural", "mp3")
	require.NoError(t, err)

	path, err := store.Resolve(artifact.Filename)
	require.NoError(t, err)
	assert.Equal(t, artifact.Path, path)

	_, err = store.Resolve("missing.mp3")
	assert.Error(t, err)
}

func TestArtifactStore_SweepRemovesExpiredOnly(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, time.Hour)

	oldPath := filepath.Join(dir, "old.mp3")
	require.NoError(t, os.WriteFile(oldPath, []byte("stale"), 0644))
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	fresh, err := store.Write([]byte("fresh"), "neural", "mp3")
	require.NoError(t, err)

	removed, err := store.Sweep(time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, fresh.Path)
}

func TestArtifactStore_SweepSkipsInProgressWrites(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, time.Hour)

	partPath := filepath.Join(dir, "inflight.mp3"+partSuffix)
	require.NoError(t, os.WriteFile(partPath, []byte("partial"), 0644))
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(partPath, stale, stale))

	removed, err := store.Sweep(time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, removed)
	assert.FileExists(t, partPath)
}

func TestArtifactStore_SweepMissingDir(t *testing.T) {
	store := NewArtifactStore(filepath.Join(t.TempDir(), "nonexistent"), time.Hour)

	removed, err := store.Sweep(time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
