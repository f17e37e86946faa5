package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps rendered timetable documents on local disk so signed
// download links can serve them later without re-rendering.
type FileStore struct {
	baseDir string
}

// NewFileStore ensures the archive directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./timetables"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create timetable archive directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Save writes a rendered document under the archive directory.
func (s *FileStore) Save(name string, data []byte) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write timetable file: %w", err)
	}
	return nil
}

// Read loads an archived document by name.
func (s *FileStore) Read(name string) ([]byte, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable file: %w", err)
	}
	return data, nil
}

// Sweep removes archived documents older than ttl and reports how many
// were deleted. Download links outlive their files only when ttl is set
// shorter than the link TTL; keep the two aligned in config.
func (s *FileStore) Sweep(ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	removed := 0
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("scan timetable archive: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, fmt.Errorf("stat timetable file: %w", err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove stale timetable: %w", err)
		}
		removed++
	}
	return removed, nil
}

// resolve joins the name onto the archive directory. Names are flat file
// names minted by the export service; anything trying to walk out of the
// archive is rejected.
func (s *FileStore) resolve(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "" || cleaned == "." || strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) || strings.ContainsRune(cleaned, os.PathSeparator) {
		return "", fmt.Errorf("invalid timetable file name %q", name)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
