package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// snapshotVersion is bumped whenever the on-disk schema changes. Files
// written with a different version are treated as corrupted and refetched.
const snapshotVersion = 1

type snapshotFile struct {
	Version   int             `json:"version"`
	Watermark time.Time       `json:"watermark"`
	CachedAt  time.Time       `json:"cached_at"`
	Records   []models.Record `json:"records"`
}

// FileStore persists one JSON snapshot file per horizon under a base
// directory. Writes go through a temp file and rename so a crashed write
// never leaves a partially written snapshot behind.
type FileStore struct {
	dir    string
	logger *logrus.Logger
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, logger *logrus.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(horizon string) string {
	return filepath.Join(s.dir, horizon+".json")
}

// Load reads the snapshot for a horizon. A missing file is not an error;
// a malformed or wrong-version file is reported as models.ErrCacheCorrupted.
func (s *FileStore) Load(_ context.Context, horizon string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(horizon))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCacheCorrupted, err)
	}
	if file.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", models.ErrCacheCorrupted, file.Version)
	}
	for _, rec := range file.Records {
		if !rec.Valid() {
			return nil, fmt.Errorf("%w: invalid record %q", models.ErrCacheCorrupted, rec.Number)
		}
	}

	return &Snapshot{
		Records:   file.Records,
		Watermark: file.Watermark,
		CachedAt:  file.CachedAt,
	}, nil
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(_ context.Context, horizon string, snap *Snapshot) error {
	file := snapshotFile{
		Version:   snapshotVersion,
		Watermark: snap.Watermark,
		CachedAt:  snap.CachedAt,
		Records:   snap.Records,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, horizon+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(horizon)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"horizon": horizon,
		"records": len(snap.Records),
	}).Debug("Cache snapshot persisted")

	return nil
}
