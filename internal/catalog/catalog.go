// Package catalog holds the read-only music dataset: songs, artists, albums
// and playlists, plus the lookups every view is rendered from.
package catalog

import (
	"strings"

	"cadence/pkg/models"
)

// UnknownArtist is displayed when a song's artist id does not resolve.
const UnknownArtist = "Unknown"

// Dataset is the on-disk shape of the catalog document.
type Dataset struct {
	Songs     []models.Song     `json:"songs"`
	Artists   []models.Artist   `json:"artists"`
	Albums    []models.Album    `json:"albums"`
	Playlists []models.Playlist `json:"playlists"`
}

// Catalog is an immutable view over a Dataset. Collections keep the dataset
// order; lookups resolve to the first record with a given id.
type Catalog struct {
	songs     []models.Song
	artists   []models.Artist
	albums    []models.Album
	playlists []models.Playlist

	artistNames   map[int]string
	songIndex     map[int]int
	playlistIndex map[int]int
}

// New indexes a dataset. The dataset slices are owned by the catalog
// afterwards.
func New(data Dataset) *Catalog {
	c := &Catalog{
		songs:         data.Songs,
		artists:       data.Artists,
		albums:        data.Albums,
		playlists:     data.Playlists,
		artistNames:   make(map[int]string, len(data.Artists)),
		songIndex:     make(map[int]int, len(data.Songs)),
		playlistIndex: make(map[int]int, len(data.Playlists)),
	}

	for _, a := range data.Artists {
		if _, dup := c.artistNames[a.ID]; !dup {
			c.artistNames[a.ID] = a.Name
		}
	}
	for i, s := range data.Songs {
		if _, dup := c.songIndex[s.ID]; !dup {
			c.songIndex[s.ID] = i
		}
	}
	for i, p := range data.Playlists {
		if _, dup := c.playlistIndex[p.ID]; !dup {
			c.playlistIndex[p.ID] = i
		}
	}

	return c
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.songs)
}

// Songs returns the songs in catalog order. The slice must not be modified.
func (c *Catalog) Songs() []models.Song {
	return c.songs
}

// Artists returns the artists in catalog order.
func (c *Catalog) Artists() []models.Artist {
	return c.artists
}

// Albums returns the albums in catalog order.
func (c *Catalog) Albums() []models.Album {
	return c.albums
}

// Playlists returns the playlists in catalog order.
func (c *Catalog) Playlists() []models.Playlist {
	return c.playlists
}

// SongAt returns the song at position i in catalog order.
func (c *Catalog) SongAt(i int) (models.Song, bool) {
	if i < 0 || i >= len(c.songs) {
		return models.Song{}, false
	}
	return c.songs[i], true
}

// Song looks up a song by id.
func (c *Catalog) Song(id int) (models.Song, bool) {
	i, ok := c.songIndex[id]
	if !ok {
		return models.Song{}, false
	}
	return c.songs[i], true
}

// SongIndex returns the catalog position of the song with the given id.
func (c *Catalog) SongIndex(id int) (int, bool) {
	i, ok := c.songIndex[id]
	return i, ok
}

// Playlist looks up a playlist by id.
func (c *Catalog) Playlist(id int) (models.Playlist, bool) {
	i, ok := c.playlistIndex[id]
	if !ok {
		return models.Playlist{}, false
	}
	return c.playlists[i], true
}

// ArtistName looks up an artist name by id.
func (c *Catalog) ArtistName(id int) (string, bool) {
	name, ok := c.artistNames[id]
	return name, ok
}

// ArtistNameOr returns the artist name or fallback when the id does not
// resolve or the name is empty.
func (c *Catalog) ArtistNameOr(id int, fallback string) string {
	if name, ok := c.artistNames[id]; ok && name != "" {
		return name
	}
	return fallback
}

// Featured returns up to n songs from the start of the catalog.
func (c *Catalog) Featured(n int) []models.Song {
	if n > len(c.songs) {
		n = len(c.songs)
	}
	if n < 0 {
		n = 0
	}
	return c.songs[:n]
}

// Search returns up to limit songs whose title or artist name contains the
// trimmed query, case-insensitively, in catalog order. An empty query
// matches nothing.
func (c *Catalog) Search(query string, limit int) []models.Song {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	// Every song is scanned; the limit only caps what is returned.
	var matches []models.Song
	for _, song := range c.songs {
		if matchesQuery(q, song.Title, c.artistNames[song.ArtistID]) {
			matches = append(matches, song)
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func matchesQuery(q, title, artist string) bool {
	return strings.Contains(strings.ToLower(title), q) ||
		strings.Contains(strings.ToLower(artist), q)
}
