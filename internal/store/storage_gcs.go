package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSStorage implements Client using Google Cloud Storage.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

// NewGCSStorage creates a GCS-backed Client.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) key(kind, id string) string {
	return kind + "/" + id + ".json"
}

func (s *GCSStorage) put(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *GCSStorage) PutProfile(ctx context.Context, profileID string, data []byte) error {
	return s.put(ctx, s.key("profiles", profileID), data)
}

func (s *GCSStorage) GetProfile(ctx context.Context, profileID string) ([]byte, error) {
	return s.get(ctx, s.key("profiles", profileID))
}

func (s *GCSStorage) DeleteProfile(ctx context.Context, profileID string) error {
	err := s.client.Bucket(s.bucket).Object(s.key("profiles", profileID)).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("gcs delete %s: %w", profileID, err)
	}
	return nil
}

func (s *GCSStorage) ListProfiles(ctx context.Context) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: "profiles/"})
	var ids []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list profiles: %w", err)
		}
		rest := strings.TrimPrefix(attrs.Name, "profiles/")
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(rest, ".json"))
	}
	return ids, nil
}

func (s *GCSStorage) PutBackup(ctx context.Context, backupID string, data []byte) error {
	return s.put(ctx, s.key("profiles/backups", backupID), data)
}

func (s *GCSStorage) PutCatalog(ctx context.Context, name string, data []byte) error {
	return s.put(ctx, s.key("catalogs", name), data)
}

func (s *GCSStorage) GetCatalog(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, s.key("catalogs", name))
}
