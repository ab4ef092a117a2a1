package server

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// handleTheme returns the client's applied theme.
func (ms *MusicServer) handleTheme(w http.ResponseWriter, r *http.Request) {
	if !ms.requireMethod(w, r, http.MethodGet) {
		return
	}
	ms.respondJSON(w, ms.client(w, r).Theme())
}

// handleThemeToggle flips the client's theme and returns the new variables.
func (ms *MusicServer) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if !ms.requireMethod(w, r, http.MethodPost) {
		return
	}

	a := ms.client(w, r)
	resp, err := a.ToggleTheme()
	if err != nil {
		ms.respondWithError(w, r, http.StatusInternalServerError, "Failed to save theme", err)
		return
	}

	ms.logger.WithFields(logrus.Fields{
		"client_id": a.ID(),
		"theme":     resp.Theme,
	}).Debug("Theme toggled")
	ms.respondJSON(w, resp)
}
