package database

import (
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/sirupsen/logrus"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), 2, logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase(t *testing.T) {
	db := newTestDatabase(t)

	t.Run("MissingKey", func(t *testing.T) {
		value, found, err := db.Get("theme")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found || value != "" {
			t.Errorf("Expected missing key, got %q (found=%v)", value, found)
		}
	})

	t.Run("SetAndGet", func(t *testing.T) {
		if err := db.Set("c1/playlist-1", "[1,2,3]"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, found, err := db.Get("c1/playlist-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found || value != "[1,2,3]" {
			t.Errorf("Expected [1,2,3], got %q (found=%v)", value, found)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		if err := db.Set("c1/playlist-1", "[2]"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		value, _, _ := db.Get("c1/playlist-1")
		if value != "[2]" {
			t.Errorf("Expected overwritten value [2], got %q", value)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		db.Set("c1/theme", "light")
		db.Set("c2/theme", "dark")

		keys, err := db.Keys("c1/")
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if diff := deep.Equal(keys, []string{"c1/playlist-1", "c1/theme"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := db.Delete("c2/theme"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, found, _ := db.Get("c2/theme"); found {
			t.Error("Expected key to be deleted")
		}
		if err := db.Delete("c2/theme"); err != nil {
			t.Errorf("Deleting a missing key should not fail: %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := db.Ping(); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func TestDatabaseReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := NewDatabase(path, 1, nil)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := db.Set("theme", "light"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	db.Close()

	// Migrations must be safe to run against an existing schema.
	reopened, err := NewDatabase(path, 1, nil)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.Get("theme")
	if err != nil || !found || value != "light" {
		t.Errorf("Expected persisted light theme, got %q (found=%v, err=%v)", value, found, err)
	}
}
