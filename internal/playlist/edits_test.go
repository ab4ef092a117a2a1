package playlist

import (
	"errors"
	"testing"

	"cadence/internal/cache"
	"cadence/pkg/models"

	"github.com/go-test/deep"
	"github.com/sirupsen/logrus"
)

type fakeCatalog map[int]models.Playlist

func (f fakeCatalog) Playlist(id int) (models.Playlist, bool) {
	p, ok := f[id]
	return p, ok
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }

func newTestEditStore(t *testing.T) (*EditStore, *cache.KVStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	kv := cache.NewKVStore()
	t.Cleanup(func() { kv.Close() })

	catalog := fakeCatalog{
		1: {ID: 1, Title: "Road Trip", SongIDs: []int{3, 1, 2}},
		2: {ID: 2, Title: "Empty"},
	}
	return NewEditStore(NewKVRepository(kv), catalog, logger), kv
}

func TestEffectiveMembership(t *testing.T) {
	s, kv := newTestEditStore(t)

	t.Run("CatalogDefault", func(t *testing.T) {
		if diff := deep.Equal(s.EffectiveMembership(1), []int{3, 1, 2}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("UnknownPlaylistIsEmpty", func(t *testing.T) {
		got := s.EffectiveMembership(404)
		if got == nil || len(got) != 0 {
			t.Errorf("Expected empty non-nil membership, got %#v", got)
		}
	})

	t.Run("OverrideWins", func(t *testing.T) {
		kv.Set("playlist-1", "[2]")
		if diff := deep.Equal(s.EffectiveMembership(1), []int{2}); diff != nil {
			t.Error(diff)
		}
		if !s.HasOverride(1) {
			t.Error("Expected override to be reported")
		}
	})

	t.Run("EmptyOverrideWins", func(t *testing.T) {
		kv.Set("playlist-1", "[]")
		if got := s.EffectiveMembership(1); len(got) != 0 {
			t.Errorf("Expected empty override to hide defaults, got %v", got)
		}
	})

	t.Run("NullOverrideFallsBack", func(t *testing.T) {
		kv.Set("playlist-1", "null")
		if diff := deep.Equal(s.EffectiveMembership(1), []int{3, 1, 2}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("MalformedOverrideFallsBack", func(t *testing.T) {
		kv.Set("playlist-1", "{oops")
		if diff := deep.Equal(s.EffectiveMembership(1), []int{3, 1, 2}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("ResultIsACopy", func(t *testing.T) {
		kv.Set("playlist-1", "null")
		got := s.EffectiveMembership(1)
		got[0] = 99
		if s.EffectiveMembership(1)[0] != 3 {
			t.Error("Mutating the result must not affect the catalog default")
		}
	})
}

func TestRemove(t *testing.T) {
	s, kv := newTestEditStore(t)

	if err := s.Remove(1, 1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if diff := deep.Equal(s.EffectiveMembership(1), []int{3, 2}); diff != nil {
		t.Error(diff)
	}
	if raw, _, _ := kv.Get("playlist-1"); raw != "[3,2]" {
		t.Errorf("Expected persisted override [3,2], got %s", raw)
	}

	// Removing the same id again is a no-op on membership.
	if err := s.Remove(1, 1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if diff := deep.Equal(s.EffectiveMembership(1), []int{3, 2}); diff != nil {
		t.Error(diff)
	}
}

func TestRemoveAbsentPersistsUnconditionally(t *testing.T) {
	s, kv := newTestEditStore(t)

	if err := s.Remove(1, 42); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	raw, found, _ := kv.Get("playlist-1")
	if !found || raw != "[3,1,2]" {
		t.Errorf("Expected unchanged membership to be persisted, got %q (found=%v)", raw, found)
	}

	// Unknown playlists get an empty override.
	if err := s.Remove(404, 1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if raw, _, _ := kv.Get("playlist-404"); raw != "[]" {
		t.Errorf("Expected empty override, got %q", raw)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	for _, songID := range []int{1, 2, 3, 7} {
		once, _ := newTestEditStore(t)
		twice, _ := newTestEditStore(t)

		once.Remove(1, songID)
		twice.Remove(1, songID)
		twice.Remove(1, songID)

		if diff := deep.Equal(once.EffectiveMembership(1), twice.EffectiveMembership(1)); diff != nil {
			t.Errorf("song %d: %v", songID, diff)
		}
	}
}

func TestStorageFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s := NewEditStore(NewKVRepository(failingStore{}), fakeCatalog{1: {ID: 1, SongIDs: []int{1, 2}}}, logger)

	if diff := deep.Equal(s.EffectiveMembership(1), []int{1, 2}); diff != nil {
		t.Error(diff)
	}
	if err := s.Remove(1, 1); err == nil {
		t.Error("Expected write failure to be reported")
	}
}

func TestKey(t *testing.T) {
	if Key(7) != "playlist-7" {
		t.Errorf("Expected playlist-7, got %s", Key(7))
	}
}
