package server

import (
	"net/http"
	"strings"

	"cadence/internal/metadata"
)

// handleAlbumArt serves the art embedded in a song's media file
func (ms *MusicServer) handleAlbumArt(w http.ResponseWriter, r *http.Request) {
	if !ms.requireMethod(w, r, http.MethodGet) {
		return
	}

	pathParts := strings.Split(r.URL.Path, "/")
	songID, verr := ms.validateSongID(pathParts, 3)
	if verr != nil {
		ms.respondWithValidationError(w, r, []ValidationError{*verr})
		return
	}

	artData, artID, exists := ms.prober.AlbumArt(songID)
	if !exists {
		ms.respondWithError(w, r, http.StatusNotFound, "Album art not found", nil)
		return
	}

	etag := `"` + artID + `"`
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", etag)
	if checkNotModified(w, r, etag) {
		return
	}

	w.Header().Set("Content-Type", metadata.AlbumArtMimeType(artData))
	w.Write(artData)
}
