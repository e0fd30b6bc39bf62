// Package store persists Towerscope documents: player profiles and upgrade
// catalogs. Backends share one Client contract so the daemon can run against
// the local filesystem, S3, or GCS.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Client abstracts document storage for profiles and catalogs.
type Client interface {
	PutProfile(ctx context.Context, profileID string, data []byte) error
	GetProfile(ctx context.Context, profileID string) ([]byte, error)
	DeleteProfile(ctx context.Context, profileID string) error
	ListProfiles(ctx context.Context) ([]string, error)
	PutBackup(ctx context.Context, backupID string, data []byte) error
	PutCatalog(ctx context.Context, name string, data []byte) error
	GetCatalog(ctx context.Context, name string) ([]byte, error)
}

// LocalStorage implements Client using the local filesystem.
// Profile writes are atomic: temp file plus rename, so a concurrent reader
// never observes a partial document.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(kind, id string) string {
	return filepath.Join(s.BaseDir, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *LocalStorage) get(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// PutProfile stores a profile document.
func (s *LocalStorage) PutProfile(ctx context.Context, profileID string, data []byte) error {
	return s.put(s.path("profiles", profileID), data)
}

// GetProfile retrieves a profile document.
func (s *LocalStorage) GetProfile(ctx context.Context, profileID string) ([]byte, error) {
	return s.get(s.path("profiles", profileID))
}

// DeleteProfile removes a profile document.
func (s *LocalStorage) DeleteProfile(ctx context.Context, profileID string) error {
	err := os.Remove(s.path("profiles", profileID))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// ListProfiles returns the ids of all stored profiles.
func (s *LocalStorage) ListProfiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.BaseDir, "profiles"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// PutBackup stores a timestamped profile backup.
func (s *LocalStorage) PutBackup(ctx context.Context, backupID string, data []byte) error {
	return s.put(s.path(filepath.Join("profiles", "backups"), backupID), data)
}

// PutCatalog stores a catalog document.
func (s *LocalStorage) PutCatalog(ctx context.Context, name string, data []byte) error {
	return s.put(s.path("catalogs", name), data)
}

// GetCatalog retrieves a catalog document.
func (s *LocalStorage) GetCatalog(ctx context.Context, name string) ([]byte, error) {
	return s.get(s.path("catalogs", name))
}
