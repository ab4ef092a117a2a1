// Package pages holds the render functions for every main view. Each is a
// pure function of the catalog and the playlist edits, producing a view
// tree.
package pages

import (
	"fmt"
	"strconv"

	"cadence/internal/catalog"
	"cadence/internal/durafmt"
	"cadence/internal/playlist"
	"cadence/internal/view"
	"cadence/pkg/models"
)

// MainContent is the selector view fragments are swapped into.
const MainContent = "#main-content"

// SearchResultsID is the id of the search results container.
const SearchResultsID = "search-results"

// Options sizes the rendered views.
type Options struct {
	FeaturedCount int
	SearchLimit   int
}

// DefaultOptions matches the stock layout.
var DefaultOptions = Options{FeaturedCount: 12, SearchLimit: 20}

// Pages renders views for one client.
type Pages struct {
	catalog *catalog.Store
	edits   *playlist.EditStore
	opts    Options
}

// New creates the render functions over a catalog and a client's edits.
func New(store *catalog.Store, edits *playlist.EditStore, opts Options) *Pages {
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = DefaultOptions.FeaturedCount
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultOptions.SearchLimit
	}
	return &Pages{catalog: store, edits: edits, opts: opts}
}

// Dashboard shows the first featured songs in catalog order.
func (p *Pages) Dashboard() *view.Node {
	c := p.catalog.Current()

	cards := make([]*view.Node, 0, p.opts.FeaturedCount)
	for _, song := range c.Featured(p.opts.FeaturedCount) {
		cards = append(cards, SongCard(c, song))
	}
	return view.Fragment(
		view.Heading("Featured Songs"),
		view.Grid(cards...),
	)
}

// Search renders the query input and an empty results container. Each
// keystroke requests SearchResults.
func (p *Pages) Search() *view.Node {
	input := view.Input("search-input", "Search songs, artists...").
		WithClass("search-input").
		On(view.Action{
			URL:     "/view/search/results",
			Target:  "#" + SearchResultsID,
			Trigger: view.TriggerInput,
		})

	results := view.Container("").WithID(SearchResultsID).WithClass("search-results")

	return view.Container("", input, results).WithClass("search-container")
}

// SearchResults renders the cards matching query. An empty query renders
// nothing.
func (p *Pages) SearchResults(query string) *view.Node {
	c := p.catalog.Current()

	matches := c.Search(query, p.opts.SearchLimit)
	cards := make([]*view.Node, 0, len(matches))
	for _, song := range matches {
		cards = append(cards, SongCard(c, song))
	}
	return view.Fragment(cards...)
}

// Playlists lists every catalog playlist with its effective song count.
func (p *Pages) Playlists() *view.Node {
	c := p.catalog.Current()

	cards := make([]*view.Node, 0, len(c.Playlists()))
	for _, pl := range c.Playlists() {
		count := len(p.edits.EffectiveMembership(pl.ID))
		cards = append(cards, PlaylistCard(pl, count))
	}
	return view.Fragment(
		view.Heading("Your Playlists"),
		view.Grid(cards...),
	)
}

// PlaylistDetail renders the effective membership of a playlist with a
// remove control per song. Unknown song ids are skipped; an unknown
// playlist renders an empty fragment.
func (p *Pages) PlaylistDetail(playlistID int) *view.Node {
	c := p.catalog.Current()

	pl, ok := c.Playlist(playlistID)
	if !ok {
		return view.Fragment()
	}

	var (
		cards []*view.Node
		total int
	)
	for _, songID := range p.edits.EffectiveMembership(playlistID) {
		song, ok := c.Song(songID)
		if !ok {
			continue
		}
		total += song.Duration

		remove := view.Button("Remove").WithClass("remove-btn").On(view.Action{
			Method:          "POST",
			URL:             fmt.Sprintf("/api/playlists/%d/songs/%d/remove", playlistID, songID),
			Target:          MainContent,
			StopPropagation: true,
		})
		cards = append(cards, SongCard(c, song, remove).WithDataInt("playlist-id", playlistID))
	}

	var summary *view.Node
	if total > 0 {
		summary = view.Text(fmt.Sprintf("%s · %s", CountLabel(len(cards)), durafmt.Seconds(total))).
			WithClass("playlist-summary")
	}

	return view.Fragment(
		view.Heading(pl.DisplayTitle()),
		summary,
		view.Grid(cards...),
	)
}

// Library is the placeholder for the library page.
func Library() *view.Node {
	return view.Title("Your Library")
}

// SongCard renders a song tile. Clicking it starts playback of the song.
func SongCard(c *catalog.Catalog, song models.Song, extra ...*view.Node) *view.Node {
	artist := c.ArtistNameOr(song.ArtistID, catalog.UnknownArtist)

	card := view.Card(
		view.Image(song.CoverOrPlaceholder(), song.DisplayTitle()),
		view.CardInfo(song.DisplayTitle(), artist, extra...),
	).WithDataInt("song-id", song.ID)

	if index, ok := c.SongIndex(song.ID); ok {
		card.On(view.Action{
			Method: "POST",
			URL:    "/api/player/load/" + strconv.Itoa(index),
		})
	}
	return card
}

// PlaylistCard renders a playlist tile that opens its detail view.
func PlaylistCard(pl models.Playlist, count int) *view.Node {
	return view.Card(
		view.Image(pl.CoverOrPlaceholder(), pl.DisplayTitle()),
		view.CardInfo(pl.DisplayTitle(), CountLabel(count)),
	).WithDataInt("playlist-id", pl.ID).On(view.Action{
		URL:    "/view/playlists/" + strconv.Itoa(pl.ID),
		Target: MainContent,
	})
}

// CountLabel returns "1 song" or "N songs".
func CountLabel(n int) string {
	if n == 1 {
		return "1 song"
	}
	return strconv.Itoa(n) + " songs"
}
