// Package app is the state of one connected client: its router position,
// player, theme and playlist edits. Every event a client sends is handled
// under the client's lock, one at a time.
package app

import (
	"sync"

	"cadence/internal/catalog"
	"cadence/internal/pages"
	"cadence/internal/player"
	"cadence/internal/playlist"
	"cadence/internal/router"
	"cadence/internal/storage"
	"cadence/internal/theme"
	"cadence/internal/view"
	"cadence/pkg/models"

	"github.com/sirupsen/logrus"
)

// DefaultPage is selected when a client starts.
const DefaultPage = "home"

// Options configures new clients.
type Options struct {
	Pages       pages.Options
	EagerImages int
}

// PlayerResponse is returned by every player event.
type PlayerResponse struct {
	player.Snapshot
	Commands []player.Command `json:"commands"`
}

// ThemeResponse describes the applied theme.
type ThemeResponse struct {
	Theme     theme.Theme      `json:"theme"`
	Glyph     string           `json:"glyph"`
	Variables []theme.Variable `json:"variables"`
}

// App holds one client's state.
type App struct {
	id      string
	catalog *catalog.Store
	opts    Options
	logger  *logrus.Logger

	mutex  sync.Mutex
	router *router.Router
	engine *player.RemoteEngine
	player *player.Controller
	theme  *theme.Controller
	edits  *playlist.EditStore
	pages  *pages.Pages
}

// New creates the state for client id. Persisted data lives in store under
// the client's namespace. The theme is restored, the first song is loaded
// and the default page is selected.
func New(id string, store storage.Store, cat *catalog.Store, opts Options, logger *logrus.Logger) *App {
	ns := storage.WithPrefix(store, id)

	a := &App{
		id:      id,
		catalog: cat,
		opts:    opts,
		logger:  logger,
		router:  router.New(router.DefaultNav),
		engine:  player.NewRemoteEngine(),
	}
	a.theme = theme.NewController(ns, logger)
	a.edits = playlist.NewEditStore(playlist.NewKVRepository(ns), cat, logger)
	a.pages = pages.New(cat, a.edits, opts.Pages)
	a.player = player.NewController(cat, a.engine, logger)

	a.router.Register("home", a.pages.Dashboard)
	a.router.Register("search", a.pages.Search)
	a.router.Register("library", pages.Library)
	a.router.Register("playlists", a.pages.Playlists)

	a.player.Load(0)
	a.router.Select(DefaultPage)

	logger.WithFields(logrus.Fields{
		"client_id": id,
		"theme":     a.theme.Current(),
	}).Debug("Client state initialized")
	return a
}

// ID returns the client id.
func (a *App) ID() string {
	return a.id
}

// Page renders the full document for the current state.
func (a *App) Page() *view.Node {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	active := a.router.Active()
	if active == "" {
		active = DefaultPage
	}

	return pages.Shell(pages.ShellData{
		Nav:     a.router.Items(),
		Content: a.prepare(a.router.Select(active)),
		Player:  a.player.Snapshot().Surface,
		Theme:   a.theme.Current(),
		Style:   a.theme.Style(),
	})
}

// Navigate selects page and returns its main content.
func (a *App) Navigate(page string) *view.Node {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.prepare(a.router.Select(page))
}

// ActivePage returns the selected navigation key.
func (a *App) ActivePage() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.router.Active()
}

// Nav returns the navigation entries with their active flags.
func (a *App) Nav() []router.NavItem {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.router.Items()
}

// SearchResults renders the results for one keystroke.
func (a *App) SearchResults(query string) *view.Node {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.prepare(a.pages.SearchResults(query))
}

// PlaylistDetail renders a playlist's detail view.
func (a *App) PlaylistDetail(playlistID int) *view.Node {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.prepare(a.pages.PlaylistDetail(playlistID))
}

// RemoveFromPlaylist removes a song and re-renders the detail view.
func (a *App) RemoveFromPlaylist(playlistID, songID int) (*view.Node, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.edits.Remove(playlistID, songID); err != nil {
		return nil, err
	}
	return a.prepare(a.pages.PlaylistDetail(playlistID)), nil
}

// Membership returns a playlist's effective song ids.
func (a *App) Membership(playlistID int) []int {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.edits.EffectiveMembership(playlistID)
}

// PlaylistSongs resolves a playlist's effective membership to songs,
// skipping ids missing from the catalog.
func (a *App) PlaylistSongs(playlistID int) (models.Playlist, []models.Song, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	c := a.catalog.Current()
	pl, ok := c.Playlist(playlistID)
	if !ok {
		return models.Playlist{}, nil, false
	}

	var songs []models.Song
	for _, id := range a.edits.EffectiveMembership(playlistID) {
		if s, ok := c.Song(id); ok {
			songs = append(songs, s)
		}
	}
	return pl, songs, true
}

// PlayerState returns the player snapshot and any queued engine commands.
func (a *App) PlayerState() PlayerResponse {
	return a.playerEvent(func() {})
}

// Load starts playback of the song at index.
func (a *App) Load(index int) PlayerResponse {
	return a.playerEvent(func() { a.player.Load(index) })
}

// TogglePlay flips between playing and paused.
func (a *App) TogglePlay() PlayerResponse {
	return a.playerEvent(a.player.TogglePlay)
}

// Next skips to the following song.
func (a *App) Next() PlayerResponse {
	return a.playerEvent(a.player.Next)
}

// Previous goes back to the preceding song.
func (a *App) Previous() PlayerResponse {
	return a.playerEvent(a.player.Previous)
}

// Progress seeks to percent (0 to 100) of the track.
func (a *App) Progress(percent float64) PlayerResponse {
	return a.playerEvent(func() { a.player.OnProgress(percent / 100) })
}

// Volume sets the volume to percent (0 to 100).
func (a *App) Volume(percent float64) PlayerResponse {
	return a.playerEvent(func() { a.player.OnVolumeChange(percent / 100) })
}

// TimeUpdate records the playback time the browser reported.
func (a *App) TimeUpdate(current, duration float64) PlayerResponse {
	return a.playerEvent(func() { a.player.OnTimeUpdate(current, duration) })
}

func (a *App) playerEvent(fn func()) PlayerResponse {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	fn()
	return PlayerResponse{
		Snapshot: a.player.Snapshot(),
		Commands: a.engine.Drain(),
	}
}

// Theme returns the applied theme.
func (a *App) Theme() ThemeResponse {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return themeResponse(a.theme.Current())
}

// ToggleTheme flips and persists the theme.
func (a *App) ToggleTheme() (ThemeResponse, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	t, err := a.theme.Toggle()
	return themeResponse(t), err
}

func themeResponse(t theme.Theme) ThemeResponse {
	return ThemeResponse{
		Theme:     t,
		Glyph:     t.Glyph(),
		Variables: t.Variables(),
	}
}

// prepare reveals the first eager images of a rendered view; the rest stay
// lazy for the page script.
func (a *App) prepare(tree *view.Node) *view.Node {
	loader := view.NewLoader()
	loader.Observe(tree)
	loader.RevealFirst(a.opts.EagerImages)
	return tree
}
