package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/towerscope/towerscope/internal/store"
)

func TestLocalStoragePutGetProfile(t *testing.T) {
	s := store.NewLocalStorage(t.TempDir())
	ctx := context.Background()

	want := []byte(`{"id":"p1","name":"Test"}`)
	if err := s.PutProfile(ctx, "p1", want); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("round trip: got %s, want %s", got, want)
	}
}

func TestLocalStorageGetMissingProfile(t *testing.T) {
	s := store.NewLocalStorage(t.TempDir())
	_, err := s.GetProfile(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStorageDeleteProfile(t *testing.T) {
	s := store.NewLocalStorage(t.TempDir())
	ctx := context.Background()

	if err := s.PutProfile(ctx, "p1", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProfile(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := s.GetProfile(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteProfile(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestLocalStorageListProfiles(t *testing.T) {
	s := store.NewLocalStorage(t.TempDir())
	ctx := context.Background()

	ids, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles on empty store: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no profiles, got %v", ids)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := s.PutProfile(ctx, id, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}
	// Backups must not show up in the profile listing.
	if err := s.PutBackup(ctx, "a_20260801_120000", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	ids, err = s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 profiles, got %v", ids)
	}
}

func TestLocalStorageIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	s := store.NewLocalStorage(dir)
	ctx := context.Background()

	if err := s.PutProfile(ctx, "real", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{".hidden.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, "profiles", name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "real" {
		t.Errorf("stray files leaked into the listing: %v", ids)
	}
}

func TestLocalStorageCatalogRoundTrip(t *testing.T) {
	s := store.NewLocalStorage(t.TempDir())
	ctx := context.Background()

	want := []byte(`{"upgrades":[]}`)
	if err := s.PutCatalog(ctx, "main", want); err != nil {
		t.Fatalf("PutCatalog: %v", err)
	}
	got, err := s.GetCatalog(ctx, "main")
	if err != nil {
		t.Fatalf("GetCatalog: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("round trip: got %s", got)
	}
}

func TestLocalStorageOverwriteIsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	s := store.NewLocalStorage(dir)
	ctx := context.Background()

	if err := s.PutProfile(ctx, "p1", []byte(`first`)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutProfile(ctx, "p1", []byte(`second`)); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProfile(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("expected last write to win, got %s", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "profiles"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single file after overwrite, found %d", len(entries))
	}
}
