package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vocaresume/api/internal/models"
)

// ArtifactStore owns the synthesized audio directory. Writes are atomic
// (temp file + rename) so a concurrent reader or sweep never observes a
// partially written artifact, and filenames are unique per call.
type ArtifactStore interface {
	EnsureDir() error
	Write(data []byte, provider, ext string) (*models.SpeechArtifact, error)
	Resolve(filename string) (string, error)
	Sweep(now time.Time) (int, error)
}

const partSuffix = ".part"

// Rough speaking rate used for the artifact duration estimate.
const wordsPerSecond = 2.5

type artifactStore struct {
	dir       string
	retention time.Duration
}

func NewArtifactStore(dir string, retention time.Duration) ArtifactStore {
	return &artifactStore{
		dir:       dir,
		retention: retention,
	}
}

// EnsureDir implements ArtifactStore.
func (a *artifactStore) EnsureDir() error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	return nil
}

// Write implements ArtifactStore.
func (a *artifactStore) Write(data []byte, provider, ext string) (*models.SpeechArtifact, error) {
	if ext == "" {
		ext = "mp3"
	}
	filename := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	finalPath := filepath.Join(a.dir, filename)
	partPath := finalPath + partSuffix

	if err := os.WriteFile(partPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write audio temp file: %w", err)
	}

	if err := os.Rename(partPath, finalPath); err != nil {
		os.Remove(partPath)
		return nil, fmt.Errorf("failed to move audio file into place: %w", err)
	}

	return &models.SpeechArtifact{
		Filename:  filename,
		Path:      finalPath,
		Provider:  provider,
		CreatedAt: time.Now(),
	}, nil
}

// Resolve implements ArtifactStore. Rejects anything that is not a bare
// filename inside the store.
func (a *artifactStore) Resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid artifact name: %q", filename)
	}

	path := filepath.Join(a.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("artifact not found: %w", err)
	}

	return path, nil
}

// Sweep implements ArtifactStore. Removes artifacts older than the retention
// window and reports how many were deleted. In-progress .part files are left
// alone; together with the atomic rename this makes the sweep safe to run
// alongside concurrent writers.
func (a *artifactStore) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read audio directory: %w", err)
	}

	cutoff := now.Add(-a.retention)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), partSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}
