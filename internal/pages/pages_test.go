package pages

import (
	"fmt"
	"strings"
	"testing"

	"cadence/internal/cache"
	"cadence/internal/catalog"
	"cadence/internal/player"
	"cadence/internal/playlist"
	"cadence/internal/router"
	"cadence/internal/theme"
	"cadence/internal/view"
	"cadence/pkg/models"

	"github.com/go-test/deep"
	"github.com/sirupsen/logrus"
)

func testCatalog() *catalog.Catalog {
	data := catalog.Dataset{
		Artists: []models.Artist{{ID: 10, Name: "Aria"}, {ID: 11, Name: "Boreal"}},
		Playlists: []models.Playlist{
			{ID: 1, Title: "Drive", SongIDs: []int{1, 2, 404}},
			{ID: 2, Title: "", SongIDs: []int{3}},
			{ID: 3, Title: "Empty"},
		},
	}
	data.Songs = append(data.Songs,
		models.Song{ID: 1, Title: "Night Drive", ArtistID: 10, Cover: "/c/1.jpg", Duration: 100},
		models.Song{ID: 2, Title: "Morning Light", ArtistID: 11, Duration: 80},
		models.Song{ID: 3, Title: "Orphan", ArtistID: 99},
	)
	for i := 4; i <= 15; i++ {
		data.Songs = append(data.Songs, models.Song{ID: i, Title: fmt.Sprintf("Filler %d", i), ArtistID: 11})
	}
	return catalog.New(data)
}

func newTestPages(t *testing.T) (*Pages, *playlist.EditStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	kv := cache.NewKVStore()
	t.Cleanup(func() { kv.Close() })

	store := catalog.NewStore(testCatalog())
	edits := playlist.NewEditStore(playlist.NewKVRepository(kv), store, logger)
	return New(store, edits, DefaultOptions), edits
}

func cardsOf(n *view.Node) []*view.Node {
	var cards []*view.Node
	n.Walk(func(c *view.Node) bool {
		if c.Kind == view.KindCard {
			cards = append(cards, c)
			return false
		}
		return true
	})
	return cards
}

func cardTitles(n *view.Node) []string {
	var titles []string
	for _, card := range cardsOf(n) {
		info := card.Children[1]
		titles = append(titles, info.Children[0].Text+"/"+info.Children[1].Text)
	}
	return titles
}

func TestDashboard(t *testing.T) {
	p, _ := newTestPages(t)
	tree := p.Dashboard()

	if tree.Children[0].Kind != view.KindHeading || tree.Children[0].Text != "Featured Songs" {
		t.Errorf("Unexpected heading %+v", tree.Children[0])
	}

	titles := cardTitles(tree)
	if len(titles) != 12 {
		t.Fatalf("Expected 12 cards, got %d", len(titles))
	}
	if diff := deep.Equal(titles[:3], []string{"Night Drive/Aria", "Morning Light/Boreal", "Orphan/Unknown"}); diff != nil {
		t.Error(diff)
	}
}

func TestSongCard(t *testing.T) {
	c := testCatalog()

	s, _ := c.Song(2)
	card := SongCard(c, s)

	img := card.Children[0]
	if img.DataSrc != models.PlaceholderCover || !img.Lazy {
		t.Errorf("Expected lazy placeholder cover, got %+v", img)
	}
	if card.Action == nil || card.Action.URL != "/api/player/load/1" || card.Action.Method != "POST" {
		t.Errorf("Expected card to load song index 1, got %+v", card.Action)
	}
}

func TestSearch(t *testing.T) {
	p, _ := newTestPages(t)

	t.Run("Shell", func(t *testing.T) {
		tree := p.Search()
		input := tree.Find("search-input")
		if input == nil || input.Action == nil || input.Action.Trigger != view.TriggerInput {
			t.Fatalf("Expected input bound to input events, got %+v", input)
		}
		results := tree.Find(SearchResultsID)
		if results == nil || len(results.Children) != 0 {
			t.Errorf("Expected empty results container, got %+v", results)
		}
	})

	tests := []struct {
		query string
		want  []string
	}{
		{"night drive", []string{"Night Drive/Aria"}},
		{"ARIA", []string{"Night Drive/Aria"}},
		{"", nil},
		{"   ", nil},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := deep.Equal(cardTitles(p.SearchResults(tt.query)), tt.want); diff != nil {
				t.Error(diff)
			}
		})
	}

	t.Run("Capped", func(t *testing.T) {
		p.opts.SearchLimit = 5
		defer func() { p.opts.SearchLimit = 20 }()
		if got := len(cardsOf(p.SearchResults("boreal"))); got != 5 {
			t.Errorf("Expected 5 results, got %d", got)
		}
	})
}

func TestPlaylists(t *testing.T) {
	p, edits := newTestPages(t)

	if diff := deep.Equal(cardTitles(p.Playlists()), []string{
		"Drive/3 songs",
		"Untitled Playlist/1 song",
		"Empty/0 songs",
	}); diff != nil {
		t.Error(diff)
	}

	edits.Remove(1, 2)
	if got := cardTitles(p.Playlists())[0]; got != "Drive/2 songs" {
		t.Errorf("Expected effective count, got %s", got)
	}

	card := cardsOf(p.Playlists())[0]
	if card.Action.URL != "/view/playlists/1" || card.Action.Target != MainContent {
		t.Errorf("Unexpected playlist card action %+v", card.Action)
	}
}

func TestPlaylistDetail(t *testing.T) {
	p, edits := newTestPages(t)

	t.Run("SkipsMissingSongs", func(t *testing.T) {
		tree := p.PlaylistDetail(1)
		if diff := deep.Equal(cardTitles(tree), []string{"Night Drive/Aria", "Morning Light/Boreal"}); diff != nil {
			t.Error(diff)
		}
		if tree.Children[1].Text != "2 songs · 03:00" {
			t.Errorf("Unexpected summary %q", tree.Children[1].Text)
		}
	})

	t.Run("RemoveButton", func(t *testing.T) {
		var btn *view.Node
		p.PlaylistDetail(1).Walk(func(n *view.Node) bool {
			if n.Kind == view.KindButton && btn == nil {
				btn = n
			}
			return true
		})
		if btn == nil || btn.Action == nil {
			t.Fatal("Expected a remove button")
		}
		want := view.Action{
			Method:          "POST",
			URL:             "/api/playlists/1/songs/1/remove",
			Target:          MainContent,
			Trigger:         view.TriggerClick,
			StopPropagation: true,
		}
		if diff := deep.Equal(*btn.Action, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("AfterRemove", func(t *testing.T) {
		edits.Remove(1, 1)
		if diff := deep.Equal(cardTitles(p.PlaylistDetail(1)), []string{"Morning Light/Boreal"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("UntitledWithoutDuration", func(t *testing.T) {
		tree := p.PlaylistDetail(2)
		if tree.Children[0].Text != "Untitled Playlist" {
			t.Errorf("Expected fallback title, got %q", tree.Children[0].Text)
		}
		if len(tree.Children) != 2 {
			t.Errorf("Expected no summary when durations are unknown, got %d children", len(tree.Children))
		}
	})

	t.Run("AbsentPlaylist", func(t *testing.T) {
		tree := p.PlaylistDetail(404)
		if tree.Kind != view.KindFragment || len(tree.Children) != 0 {
			t.Errorf("Expected empty fragment, got %+v", tree)
		}
	})
}

func TestCountLabel(t *testing.T) {
	for n, want := range map[int]string{0: "0 songs", 1: "1 song", 2: "2 songs"} {
		if got := CountLabel(n); got != want {
			t.Errorf("CountLabel(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestShell(t *testing.T) {
	r := router.New(router.DefaultNav)
	r.Select("home")

	tree := Shell(ShellData{
		Nav:     r.Items(),
		Content: Library(),
		Player:  player.Surface{Cover: models.PlaceholderCover, Title: "Night Drive", Artist: "Aria", Icon: player.IconPlaying, Volume: 100},
		Theme:   theme.Light,
		Style:   ":root{--bg-color:#f5f5f5;}",
	})

	out, err := view.RenderString(tree)
	if err != nil {
		t.Fatalf("RenderString() error = %v", err)
	}
	for _, want := range []string{
		`<main id="main-content"><h1 class="page-title">Your Library</h1></main>`,
		`<li class="nav-item active" data-page="home"`,
		`<div id="player-title">Night Drive</div>`,
		`id="theme-btn"`,
		"☀️",
		"⏸️",
		`<style id="theme-vars">:root{--bg-color:#f5f5f5;}</style>`,
		`src="/static/js/app.js"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %s in page", want)
		}
	}
}
