package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"cadence/internal/catalog"
	"cadence/internal/playlist"
	"cadence/pkg/models"

	"github.com/sirupsen/logrus"
)

// PlaylistSongsResponse lists a playlist's effective songs.
type PlaylistSongsResponse struct {
	Playlist models.Playlist `json:"playlist"`
	SongIDs  []int           `json:"songIds"`
	Songs    []models.Song   `json:"songs"`
}

// handlePlaylists routes playlist events:
//
//	GET  /api/playlists/{id}/songs
//	POST /api/playlists/{id}/songs/{songId}/remove
//	GET  /api/playlists/{id}/export.m3u
func (ms *MusicServer) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(r.URL.Path, "/")

	playlistID, verr := ms.validatePlaylistID(pathParts, 4)
	if verr != nil {
		ms.respondWithValidationError(w, r, []ValidationError{*verr})
		return
	}

	switch {
	case len(pathParts) == 5 && pathParts[4] == "songs":
		if ms.requireMethod(w, r, http.MethodGet) {
			ms.handlePlaylistSongs(w, r, playlistID)
		}
	case len(pathParts) == 7 && pathParts[4] == "songs" && pathParts[6] == "remove":
		if !ms.requireMethod(w, r, http.MethodPost) {
			return
		}
		songID, verr := ms.validateSongID(pathParts, 6)
		if verr != nil {
			ms.respondWithValidationError(w, r, []ValidationError{*verr})
			return
		}
		ms.handleRemoveFromPlaylist(w, r, playlistID, songID)
	case len(pathParts) == 5 && pathParts[4] == "export.m3u":
		if ms.requireMethod(w, r, http.MethodGet) {
			ms.handleExportPlaylist(w, r, playlistID)
		}
	default:
		ms.respondWithError(w, r, http.StatusNotFound, "Unknown playlist endpoint", nil)
	}
}

func (ms *MusicServer) handlePlaylistSongs(w http.ResponseWriter, r *http.Request, playlistID int) {
	a := ms.client(w, r)

	pl, songs, ok := a.PlaylistSongs(playlistID)
	if !ok {
		ms.respondWithError(w, r, http.StatusNotFound, "Playlist not found", nil)
		return
	}
	if songs == nil {
		songs = []models.Song{}
	}

	ms.respondJSON(w, PlaylistSongsResponse{
		Playlist: pl,
		SongIDs:  a.Membership(playlistID),
		Songs:    songs,
	})
}

// handleRemoveFromPlaylist removes a song and returns the re-rendered detail
// view.
func (ms *MusicServer) handleRemoveFromPlaylist(w http.ResponseWriter, r *http.Request, playlistID, songID int) {
	a := ms.client(w, r)

	tree, err := a.RemoveFromPlaylist(playlistID, songID)
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, "Failed to update playlist", err)
		return
	}

	ms.logger.WithFields(logrus.Fields{
		"client_id":   a.ID(),
		"playlist_id": playlistID,
		"song_id":     songID,
	}).Info("Song removed from playlist")

	ms.writeHTML(w, r, tree, false)
}

// handleExportPlaylist writes the effective membership as an extended M3U.
func (ms *MusicServer) handleExportPlaylist(w http.ResponseWriter, r *http.Request, playlistID int) {
	a := ms.client(w, r)

	pl, songs, ok := a.PlaylistSongs(playlistID)
	if !ok {
		ms.respondWithError(w, r, http.StatusNotFound, "Playlist not found", nil)
		return
	}

	c := ms.catalog.Current()
	var buf bytes.Buffer
	err := playlist.WriteM3U(&buf, songs, func(s models.Song) string {
		return c.ArtistNameOr(s.ArtistID, catalog.UnknownArtist)
	})
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, "Failed to export playlist", err)
		return
	}

	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="playlist-%d.m3u"`, pl.ID))
	w.Write(buf.Bytes())
}
