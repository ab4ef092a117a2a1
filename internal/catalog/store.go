package catalog

import (
	"sync/atomic"

	"cadence/pkg/models"
)

// Store publishes the current Catalog. Readers always see a complete
// catalog; Replace swaps it atomically.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding c. A nil catalog is replaced by an empty
// one.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.Replace(c)
	return s
}

// Current returns the published catalog.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace publishes c.
func (s *Store) Replace(c *Catalog) {
	if c == nil {
		c = New(Dataset{})
	}
	s.current.Store(c)
}

// Len returns the song count of the current catalog.
func (s *Store) Len() int {
	return s.Current().Len()
}

// SongAt returns the song at position i of the current catalog.
func (s *Store) SongAt(i int) (models.Song, bool) {
	return s.Current().SongAt(i)
}

// ArtistName resolves an artist in the current catalog.
func (s *Store) ArtistName(id int) (string, bool) {
	return s.Current().ArtistName(id)
}

// Playlist resolves a playlist in the current catalog.
func (s *Store) Playlist(id int) (models.Playlist, bool) {
	return s.Current().Playlist(id)
}

// MapSongs returns a new catalog whose songs are fn applied to each song of
// c. Artists, albums and playlists are shared.
func (c *Catalog) MapSongs(fn func(models.Song) models.Song) *Catalog {
	songs := make([]models.Song, len(c.songs))
	for i, s := range c.songs {
		songs[i] = fn(s)
	}
	return New(Dataset{
		Songs:     songs,
		Artists:   c.artists,
		Albums:    c.albums,
		Playlists: c.playlists,
	})
}
