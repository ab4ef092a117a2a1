package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cadence/pkg/models"

	"github.com/go-test/deep"
	"github.com/sirupsen/logrus"
)

func testDataset() Dataset {
	return Dataset{
		Songs: []models.Song{
			{ID: 1, Title: "Night Drive", ArtistID: 10, Audio: "media/night.mp3"},
			{ID: 2, Title: "Morning Light", ArtistID: 11, Audio: "media/morning.mp3"},
			{ID: 3, Title: "Orphan", ArtistID: 99, Audio: "media/orphan.mp3"},
		},
		Artists: []models.Artist{
			{ID: 10, Name: "Aria"},
			{ID: 11, Name: "Boreal"},
			{ID: 10, Name: "Shadowed Duplicate"},
		},
		Playlists: []models.Playlist{
			{ID: 1, Title: "Drive", SongIDs: []int{1, 2}},
		},
	}
}

func titles(songs []models.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestArtistLookup(t *testing.T) {
	c := New(testDataset())

	if name, ok := c.ArtistName(10); !ok || name != "Aria" {
		t.Errorf("Expected first artist record Aria, got %q (ok=%v)", name, ok)
	}
	if _, ok := c.ArtistName(99); ok {
		t.Error("Expected missing artist lookup to fail")
	}
	if got := c.ArtistNameOr(99, UnknownArtist); got != "Unknown" {
		t.Errorf("Expected Unknown fallback, got %q", got)
	}
}

func TestSearch(t *testing.T) {
	c := New(testDataset())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title substring", "driv", []string{"Night Drive"}},
		{"artist substring", "ari", []string{"Night Drive"}},
		{"case insensitive", "NIGHT", []string{"Night Drive"}},
		{"trimmed", "  light ", []string{"Morning Light"}},
		{"no match", "xyz", []string{}},
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"unknown artist is not matched by fallback text", "unknown", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(c.Search(tt.query, 20))
			if diff := deep.Equal(got, tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestSearchLimit(t *testing.T) {
	var data Dataset
	data.Artists = []models.Artist{{ID: 1, Name: "Echo"}}
	for i := 0; i < 30; i++ {
		data.Songs = append(data.Songs, models.Song{ID: i + 1, Title: fmt.Sprintf("Track %02d", i), ArtistID: 1})
	}
	c := New(data)

	got := c.Search("echo", 20)
	if len(got) != 20 {
		t.Fatalf("Expected 20 results, got %d", len(got))
	}
	if got[0].Title != "Track 00" || got[19].Title != "Track 19" {
		t.Errorf("Expected catalog order, got first=%s last=%s", got[0].Title, got[19].Title)
	}
}

func TestFeatured(t *testing.T) {
	var data Dataset
	for i := 0; i < 15; i++ {
		data.Songs = append(data.Songs, models.Song{ID: i + 1})
	}
	c := New(data)

	if got := len(c.Featured(12)); got != 12 {
		t.Errorf("Expected 12 featured songs, got %d", got)
	}
	if got := len(New(testDataset()).Featured(12)); got != 3 {
		t.Errorf("Expected featured to be capped at catalog size, got %d", got)
	}
}

func TestSongAndPlaylistLookup(t *testing.T) {
	c := New(testDataset())

	if s, ok := c.Song(2); !ok || s.Title != "Morning Light" {
		t.Errorf("Expected song 2, got %+v (ok=%v)", s, ok)
	}
	if i, ok := c.SongIndex(3); !ok || i != 2 {
		t.Errorf("Expected index 2, got %d (ok=%v)", i, ok)
	}
	if _, ok := c.SongAt(3); ok {
		t.Error("Expected out of range SongAt to fail")
	}
	if p, ok := c.Playlist(1); !ok || p.Title != "Drive" {
		t.Errorf("Expected playlist Drive, got %+v (ok=%v)", p, ok)
	}
	if _, ok := c.Playlist(42); ok {
		t.Error("Expected missing playlist lookup to fail")
	}
}

func TestParse(t *testing.T) {
	doc := `{
		"songs": [{"id": 1, "title": "A", "artistId": 1, "audio": "a.mp3"}],
		"artists": [{"id": 1, "name": "Solo"}],
		"albums": [{"id": 5, "title": "Debut", "artistId": 1}]
	}`

	c, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Len() != 1 || len(c.Albums()) != 1 {
		t.Errorf("Expected one song and one album, got %d and %d", c.Len(), len(c.Albums()))
	}
	if len(c.Playlists()) != 0 {
		t.Errorf("Expected missing playlists to be empty, got %d", len(c.Playlists()))
	}

	if _, err := Parse(strings.NewReader("{not json")); err == nil {
		t.Error("Expected malformed document to fail")
	}
}

func TestMapSongs(t *testing.T) {
	c := New(testDataset())
	mapped := c.MapSongs(func(s models.Song) models.Song {
		s.Duration = 180
		return s
	})

	if c.Songs()[0].Duration != 0 {
		t.Error("MapSongs must not modify the original catalog")
	}
	if s, _ := mapped.Song(1); s.Duration != 180 {
		t.Errorf("Expected mapped duration, got %d", s.Duration)
	}
	if p, ok := mapped.Playlist(1); !ok || len(p.SongIDs) != 2 {
		t.Error("Expected playlists to carry over")
	}
}

func TestStoreReplace(t *testing.T) {
	s := NewStore(nil)
	if s.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d songs", s.Len())
	}

	s.Replace(New(testDataset()))
	if s.Len() != 3 {
		t.Errorf("Expected 3 songs after replace, got %d", s.Len())
	}
	if name, _ := s.ArtistName(11); name != "Boreal" {
		t.Errorf("Expected Boreal, got %q", name)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.json")
	write := func(doc string) {
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatalf("Failed to write dataset: %v", err)
		}
	}
	write(`{"songs": [{"id": 1, "title": "First"}]}`)

	initial, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store := NewStore(initial)
	w := NewWatcher(path, store, nil, logger)

	t.Run("MalformedKeepsPrevious", func(t *testing.T) {
		write(`{"songs": [`)
		if w.reload() {
			t.Error("Expected reload of malformed dataset to fail")
		}
		if store.Len() != 1 {
			t.Errorf("Expected previous catalog to remain, got %d songs", store.Len())
		}
	})

	t.Run("FileChange", func(t *testing.T) {
		w.debounce = 10 * time.Millisecond
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		defer w.Stop()

		write(`{"songs": [{"id": 1, "title": "First"}, {"id": 2, "title": "Second"}]}`)

		deadline := time.Now().Add(3 * time.Second)
		for store.Len() != 2 && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}
		if store.Len() != 2 {
			t.Errorf("Expected reloaded catalog with 2 songs, got %d", store.Len())
		}
	})
}
