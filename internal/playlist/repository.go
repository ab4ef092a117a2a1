package playlist

import (
	"encoding/json"
	"fmt"

	"cadence/internal/storage"
)

// Repository persists per-playlist membership overrides.
type Repository interface {
	// Get returns the override for a playlist; found is false when the
	// playlist has never been edited.
	Get(playlistID int) (songIDs []int, found bool, err error)
	Set(playlistID int, songIDs []int) error
}

// Key returns the storage key of a playlist override.
func Key(playlistID int) string {
	return fmt.Sprintf("playlist-%d", playlistID)
}

// KVRepository stores overrides as JSON arrays in a key/value store.
type KVRepository struct {
	store storage.Store
}

// NewKVRepository creates a repository over store.
func NewKVRepository(store storage.Store) *KVRepository {
	return &KVRepository{store: store}
}

// Get decodes the stored override. A stored JSON null counts as absent.
func (r *KVRepository) Get(playlistID int) ([]int, bool, error) {
	raw, found, err := r.store.Get(Key(playlistID))
	if err != nil || !found {
		return nil, false, err
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false, fmt.Errorf("malformed override for playlist %d: %w", playlistID, err)
	}
	if ids == nil {
		return nil, false, nil
	}
	return ids, true, nil
}

// Set encodes songIDs and stores it. A nil slice is stored as an empty
// array so the override stays in effect.
func (r *KVRepository) Set(playlistID int, songIDs []int) error {
	if songIDs == nil {
		songIDs = []int{}
	}
	encoded, err := json.Marshal(songIDs)
	if err != nil {
		return err
	}
	return r.store.Set(Key(playlistID), string(encoded))
}
