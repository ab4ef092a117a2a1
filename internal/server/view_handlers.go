package server

import (
	"bytes"
	"encoding/hex"
	"net/http"
	"strings"

	"cadence/internal/view"

	"golang.org/x/crypto/blake2b"
)

// ActivePageHeader tells the page script which nav item to highlight.
const ActivePageHeader = "X-Active-Page"

// handleHome renders the full document for the client.
func (ms *MusicServer) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		ms.respondWithError(w, r, http.StatusNotFound, "Not found", nil)
		return
	}
	if !ms.requireMethod(w, r, http.MethodGet) {
		return
	}

	a := ms.client(w, r)
	ms.writeHTML(w, r, a.Page(), true)
}

// handleView serves main-content fragments:
//
//	/view/{page}
//	/view/search/results?q=
//	/view/playlists/{id}
func (ms *MusicServer) handleView(w http.ResponseWriter, r *http.Request) {
	if !ms.requireMethod(w, r, http.MethodGet) {
		return
	}

	pathParts := strings.Split(r.URL.Path, "/")
	page := ""
	if len(pathParts) >= 3 {
		page = pathParts[2]
	}
	if verr := ms.validatePageKey(page); verr != nil {
		ms.respondWithValidationError(w, r, []ValidationError{*verr})
		return
	}

	a := ms.client(w, r)

	if len(pathParts) >= 4 && pathParts[3] != "" {
		switch {
		case page == "search" && pathParts[3] == "results" && len(pathParts) == 4:
			query := r.URL.Query().Get("q")
			if verr := ms.validateSearchQuery(query); verr != nil {
				ms.respondWithValidationError(w, r, []ValidationError{*verr})
				return
			}
			ms.writeHTML(w, r, a.SearchResults(sanitizeInput(query)), false)
		case page == "playlists" && len(pathParts) == 4:
			playlistID, verr := ms.validatePlaylistID(pathParts, 4)
			if verr != nil {
				ms.respondWithValidationError(w, r, []ValidationError{*verr})
				return
			}
			ms.writeHTML(w, r, a.PlaylistDetail(playlistID), false)
		default:
			ms.respondWithError(w, r, http.StatusNotFound, "Unknown view", nil)
		}
		return
	}

	tree := a.Navigate(page)
	w.Header().Set(ActivePageHeader, a.ActivePage())
	ms.writeHTML(w, r, tree, false)
}

// writeHTML renders tree and answers conditional requests with 304 when the
// markup has not changed.
func (ms *MusicServer) writeHTML(w http.ResponseWriter, r *http.Request, tree *view.Node, document bool) {
	var buf bytes.Buffer
	render := view.Render
	if document {
		render = view.RenderDocument
	}
	if err := render(&buf, tree); err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, "Failed to render view", err)
		return
	}

	etag := fragmentETag(buf.Bytes())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		ms.logger.WithError(err).Debug("Client went away while writing view")
	}
}

func fragmentETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:12]) + `"`
}
