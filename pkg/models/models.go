package models

// PlaceholderCover is served for songs and playlists without artwork.
const PlaceholderCover = "/static/images/placeholder-album.png"

// Song represents a catalog song
type Song struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ArtistID int    `json:"artistId"`
	AlbumID  int    `json:"albumId,omitempty"`
	Cover    string `json:"cover,omitempty"`
	Audio    string `json:"audio"`
	Duration int    `json:"duration,omitempty"` // in seconds, 0 when unknown
}

// DisplayTitle returns the song title or "Untitled" when it is empty.
func (s Song) DisplayTitle() string {
	if s.Title == "" {
		return "Untitled"
	}
	return s.Title
}

// CoverOrPlaceholder returns the song cover or the placeholder image.
func (s Song) CoverOrPlaceholder() string {
	if s.Cover == "" {
		return PlaceholderCover
	}
	return s.Cover
}

// Artist represents a catalog artist
type Artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Album represents a catalog album. Albums are loaded but not rendered.
type Album struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ArtistID int    `json:"artistId"`
	Cover    string `json:"cover,omitempty"`
}

// Playlist represents a catalog playlist. SongIDs is the default membership;
// per-client overrides replace it once edited.
type Playlist struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Cover   string `json:"cover,omitempty"`
	SongIDs []int  `json:"songIds"`
}

// DisplayTitle returns the playlist title or "Untitled Playlist".
func (p Playlist) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled Playlist"
	}
	return p.Title
}

// CoverOrPlaceholder returns the playlist cover or the placeholder image.
func (p Playlist) CoverOrPlaceholder() string {
	if p.Cover == "" {
		return PlaceholderCover
	}
	return p.Cover
}
