package server

import (
	"net/http"
	"time"
)

// HealthStatus represents operational status for the /health endpoint.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Storage   string                 `json:"storage"`
	Sessions  int                    `json:"activeSessions"`
	Songs     int                    `json:"songCount"`
	Artists   int                    `json:"artistCount"`
	Albums    int                    `json:"albumCount"`
	Playlists int                    `json:"playlistCount"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// handleHealthCheck returns basic liveness + dependency checks.
func (ms *MusicServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	c := ms.catalog.Current()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Storage:   "ok",
		Sessions:  ms.sessions.Count(),
		Songs:     c.Len(),
		Artists:   len(c.Artists()),
		Albums:    len(c.Albums()),
		Playlists: len(c.Playlists()),
		Details:   make(map[string]interface{}),
	}

	if err := ms.store.Ping(); err != nil {
		health.Status = "unhealthy"
		health.Storage = "error"
		health.Details["storage_error"] = err.Error()
	}

	if url := ms.ngrokService.PublicURL(); url != "" {
		health.Details["public_url"] = url
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	ms.respondJSON(w, health)
}
