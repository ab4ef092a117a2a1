package server

import (
	"math"
	"net/http"
	"strings"

	"cadence/internal/app"
)

// sliderEvent is the body of progress and volume events.
type sliderEvent struct {
	Value *float64 `json:"value"`
}

// timeUpdateEvent is the body of a timeupdate event. An unknown duration is
// sent as null.
type timeUpdateEvent struct {
	CurrentTime float64  `json:"currentTime"`
	Duration    *float64 `json:"duration"`
}

// handlePlayer routes player events:
//
//	GET  /api/player/state
//	POST /api/player/load/{index}
//	POST /api/player/toggle | next | previous
//	POST /api/player/progress | volume      {"value": 0-100}
//	POST /api/player/timeupdate             {"currentTime": s, "duration": s}
func (ms *MusicServer) handlePlayer(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(r.URL.Path, "/")
	if len(pathParts) < 4 || pathParts[3] == "" {
		ms.respondWithError(w, r, http.StatusNotFound, "Unknown player event", nil)
		return
	}
	action := pathParts[3]

	if action == "state" {
		if ms.requireMethod(w, r, http.MethodGet) {
			ms.respondJSON(w, ms.client(w, r).PlayerState())
		}
		return
	}

	if action == "load" {
		if !ms.requireMethod(w, r, http.MethodPost) {
			return
		}
		index, verr := ms.validateSongIndex(pathParts, 5)
		if verr != nil {
			ms.respondWithValidationError(w, r, []ValidationError{*verr})
			return
		}
		ms.respondJSON(w, ms.client(w, r).Load(index))
		return
	}

	if len(pathParts) != 4 {
		ms.respondWithError(w, r, http.StatusNotFound, "Unknown player event", nil)
		return
	}

	var event func(a *app.App) (app.PlayerResponse, *ValidationError)
	switch action {
	case "toggle":
		event = func(a *app.App) (app.PlayerResponse, *ValidationError) { return a.TogglePlay(), nil }
	case "next":
		event = func(a *app.App) (app.PlayerResponse, *ValidationError) { return a.Next(), nil }
	case "previous":
		event = func(a *app.App) (app.PlayerResponse, *ValidationError) { return a.Previous(), nil }
	case "progress", "volume":
		event = func(a *app.App) (app.PlayerResponse, *ValidationError) {
			var body sliderEvent
			if verr := ms.decodeEventBody(w, r, &body); verr != nil {
				return app.PlayerResponse{}, verr
			}
			if body.Value == nil {
				return app.PlayerResponse{}, &ValidationError{Field: "value", Message: "value is required", Code: "MISSING_VALUE"}
			}
			if verr := ms.validatePercent(action, *body.Value); verr != nil {
				return app.PlayerResponse{}, verr
			}
			if action == "progress" {
				return a.Progress(*body.Value), nil
			}
			return a.Volume(*body.Value), nil
		}
	case "timeupdate":
		event = func(a *app.App) (app.PlayerResponse, *ValidationError) {
			var body timeUpdateEvent
			if verr := ms.decodeEventBody(w, r, &body); verr != nil {
				return app.PlayerResponse{}, verr
			}
			if body.CurrentTime < 0 || math.IsNaN(body.CurrentTime) {
				return app.PlayerResponse{}, &ValidationError{Field: "currentTime", Message: "currentTime cannot be negative", Code: "INVALID_CURRENT_TIME"}
			}
			duration := 0.0
			if body.Duration != nil {
				duration = *body.Duration
			}
			return a.TimeUpdate(body.CurrentTime, duration), nil
		}
	default:
		ms.respondWithError(w, r, http.StatusNotFound, "Unknown player event", nil)
		return
	}

	if !ms.requireMethod(w, r, http.MethodPost) {
		return
	}

	resp, verr := event(ms.client(w, r))
	if verr != nil {
		ms.respondWithValidationError(w, r, []ValidationError{*verr})
		return
	}
	ms.respondJSON(w, resp)
}
