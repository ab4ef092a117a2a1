package app

import (
	"sync"
	"testing"

	"cadence/internal/cache"
	"cadence/internal/catalog"
	"cadence/internal/pages"
	"cadence/internal/player"
	"cadence/internal/theme"
	"cadence/internal/view"
	"cadence/pkg/models"

	"github.com/go-test/deep"
	"github.com/sirupsen/logrus"
)

func testStore() *catalog.Store {
	return catalog.NewStore(catalog.New(catalog.Dataset{
		Songs: []models.Song{
			{ID: 1, Title: "Night Drive", ArtistID: 10, Audio: "/media/night.mp3"},
			{ID: 2, Title: "Morning Light", ArtistID: 11, Audio: "/media/morning.mp3"},
		},
		Artists:   []models.Artist{{ID: 10, Name: "Aria"}, {ID: 11, Name: "Boreal"}},
		Playlists: []models.Playlist{{ID: 1, Title: "Drive", SongIDs: []int{1, 2}}},
	}))
}

func newTestApp(t *testing.T, kv *cache.KVStore, id string) *App {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return New(id, kv, testStore(), Options{Pages: pages.DefaultOptions, EagerImages: 1}, logger)
}

func newKV(t *testing.T) *cache.KVStore {
	kv := cache.NewKVStore()
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestStartup(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")

	if a.ActivePage() != DefaultPage {
		t.Errorf("Expected %s to be active, got %q", DefaultPage, a.ActivePage())
	}

	state := a.PlayerState()
	if state.Surface.Title != "Night Drive" || state.Surface.Artist != "Aria" || state.Surface.Icon != player.IconPlaying {
		t.Errorf("Expected first song loaded, got %+v", state.Surface)
	}
	if diff := deep.Equal(state.Commands, []player.Command{
		{Op: player.OpSource, Src: "/media/night.mp3"},
		{Op: player.OpPlay},
	}); diff != nil {
		t.Error(diff)
	}

	if again := a.PlayerState(); len(again.Commands) != 0 {
		t.Errorf("Expected commands to be delivered once, got %v", again.Commands)
	}

	if a.Theme().Theme != theme.Dark {
		t.Errorf("Expected default dark theme, got %q", a.Theme().Theme)
	}
}

func TestNavigate(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")

	tree := a.Navigate("playlists")
	if tree.Children[0].Text != "Your Playlists" {
		t.Errorf("Unexpected playlists view %+v", tree.Children[0])
	}

	if got := a.Navigate("library"); got.Text != "Your Library" {
		t.Errorf("Expected library placeholder, got %+v", got)
	}
	if got := a.Navigate("radio"); got.Kind != view.KindTitle || got.Text != "Radio" {
		t.Errorf("Expected title-cased placeholder, got %+v", got)
	}

	for _, item := range a.Nav() {
		if item.Active {
			t.Errorf("Expected no active nav item for an unknown page, %s is", item.Key)
		}
	}
}

func TestEagerImages(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")
	tree := a.Navigate("home")

	var lazy, eager int
	tree.Walk(func(n *view.Node) bool {
		if n.Kind == view.KindImage {
			if n.Lazy {
				lazy++
			} else {
				eager++
			}
		}
		return true
	})
	if eager != 1 || lazy != 1 {
		t.Errorf("Expected 1 eager and 1 lazy image, got %d and %d", eager, lazy)
	}
}

func TestRemoveFromPlaylist(t *testing.T) {
	kv := newKV(t)
	a := newTestApp(t, kv, "client-a")

	tree, err := a.RemoveFromPlaylist(1, 1)
	if err != nil {
		t.Fatalf("RemoveFromPlaylist() error = %v", err)
	}
	if tree.Children[0].Text != "Drive" {
		t.Errorf("Expected re-rendered detail, got %+v", tree.Children[0])
	}
	if diff := deep.Equal(a.Membership(1), []int{2}); diff != nil {
		t.Error(diff)
	}

	raw, found, _ := kv.Get("client-a/playlist-1")
	if !found || raw != "[2]" {
		t.Errorf("Expected namespaced override, got %q (found=%v)", raw, found)
	}

	t.Run("OtherClientsUnaffected", func(t *testing.T) {
		b := newTestApp(t, kv, "client-b")
		if diff := deep.Equal(b.Membership(1), []int{1, 2}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("RestoredForSameClient", func(t *testing.T) {
		again := newTestApp(t, kv, "client-a")
		if diff := deep.Equal(again.Membership(1), []int{2}); diff != nil {
			t.Error(diff)
		}
	})
}

func TestPlaylistSongs(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")

	pl, songs, ok := a.PlaylistSongs(1)
	if !ok || pl.Title != "Drive" || len(songs) != 2 {
		t.Errorf("Unexpected playlist songs %+v %v (ok=%v)", pl, songs, ok)
	}
	if _, _, ok := a.PlaylistSongs(404); ok {
		t.Error("Expected unknown playlist to be reported")
	}
}

func TestPlayerEvents(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")
	a.PlayerState()

	if got := a.Next().State.CurrentIndex; got != 1 {
		t.Errorf("Expected index 1, got %d", got)
	}
	if got := a.Next().State.CurrentIndex; got != 0 {
		t.Errorf("Expected wrap to 0, got %d", got)
	}
	if got := a.Previous().State.CurrentIndex; got != 1 {
		t.Errorf("Expected wrap to 1, got %d", got)
	}

	if resp := a.TogglePlay(); resp.State.IsPlaying || resp.Surface.Icon != player.IconPaused {
		t.Errorf("Expected paused, got %+v", resp.Snapshot)
	}

	if resp := a.Progress(50); len(resp.Commands) != 0 {
		t.Errorf("Expected no seek before duration is known, got %v", resp.Commands)
	}
	a.TimeUpdate(10, 200)
	resp := a.Progress(50)
	if diff := deep.Equal(resp.Commands, []player.Command{{Op: player.OpSeek, Value: 100}}); diff != nil {
		t.Error(diff)
	}

	resp = a.Volume(40)
	if resp.State.VolumeRatio != 0.4 || resp.Surface.Volume != 40 {
		t.Errorf("Unexpected volume state %+v", resp.Snapshot)
	}

	before := a.PlayerState()
	after := a.Load(99)
	if diff := deep.Equal(before.Snapshot, after.Snapshot); diff != nil {
		t.Error(diff)
	}
}

func TestThemeToggle(t *testing.T) {
	kv := newKV(t)
	a := newTestApp(t, kv, "client-a")

	resp, err := a.ToggleTheme()
	if err != nil || resp.Theme != theme.Light || resp.Glyph != "☀️" {
		t.Errorf("Unexpected toggle response %+v (err=%v)", resp, err)
	}
	if raw, _, _ := kv.Get("client-a/theme"); raw != "light" {
		t.Errorf("Expected persisted light, got %q", raw)
	}

	restored := newTestApp(t, kv, "client-a")
	if restored.Theme().Theme != theme.Light {
		t.Errorf("Expected restored light theme, got %q", restored.Theme().Theme)
	}
}

func TestConcurrentEvents(t *testing.T) {
	a := newTestApp(t, newKV(t), "client-a")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				a.Next()
			case 1:
				a.Navigate("playlists")
			case 2:
				a.SearchResults("night")
			case 3:
				a.ToggleTheme()
			}
		}(i)
	}
	wg.Wait()

	if idx := a.PlayerState().State.CurrentIndex; idx < 0 || idx > 1 {
		t.Errorf("Index out of range after concurrent events: %d", idx)
	}
}
