package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxEventBody caps the JSON body of a client event.
const maxEventBody = 1 << 10

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationResult contains validation results
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// respondWithValidationError sends a structured validation error response
func (ms *MusicServer) respondWithValidationError(w http.ResponseWriter, r *http.Request, errors []ValidationError) {
	ms.logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"errors": errors,
	}).Warn("Validation failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	ms.respondJSON(w, ValidationResult{
		Valid:  false,
		Errors: errors,
	})
}

// respondWithError sends a structured error response
func (ms *MusicServer) respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	logEntry := ms.logger.WithFields(logrus.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"status_code": statusCode,
		"message":     message,
	})

	if err != nil {
		logEntry = logEntry.WithError(err)
	}

	if statusCode >= 500 {
		logEntry.Error("Server error")
	} else {
		logEntry.Warn("Client error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	ms.respondJSON(w, map[string]interface{}{
		"error":   message,
		"code":    statusCode,
		"success": false,
	})
}

// respondJSON encodes v as the response body.
func (ms *MusicServer) respondJSON(w http.ResponseWriter, v interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ms.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// requireMethod rejects requests not using method.
func (ms *MusicServer) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	ms.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	return false
}

// validatePathInt parses the integer at pathParts[minParts-1]. Ids must be
// positive; indexes may be zero.
func validatePathInt(pathParts []string, minParts int, field, label string, allowZero bool) (int, *ValidationError) {
	code := strings.ToUpper(field)

	if len(pathParts) < minParts {
		return 0, &ValidationError{
			Field:   field,
			Message: label + " is required",
			Code:    "MISSING_" + code,
		}
	}

	raw := pathParts[minParts-1]
	if raw == "" {
		return 0, &ValidationError{
			Field:   field,
			Message: label + " cannot be empty",
			Code:    "EMPTY_" + code,
		}
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{
			Field:   field,
			Message: label + " must be a valid integer",
			Code:    "INVALID_" + code + "_FORMAT",
		}
	}

	if value < 0 || (value == 0 && !allowZero) {
		message := label + " must be positive"
		if allowZero {
			message = label + " cannot be negative"
		}
		return 0, &ValidationError{
			Field:   field,
			Message: message,
			Code:    "INVALID_" + code + "_VALUE",
		}
	}

	return value, nil
}

// validateSongID validates and parses a song ID from the URL path
func (ms *MusicServer) validateSongID(pathParts []string, minParts int) (int, *ValidationError) {
	return validatePathInt(pathParts, minParts, "song_id", "Song ID", false)
}

// validatePlaylistID validates and parses a playlist ID from the URL path
func (ms *MusicServer) validatePlaylistID(pathParts []string, minParts int) (int, *ValidationError) {
	return validatePathInt(pathParts, minParts, "playlist_id", "Playlist ID", false)
}

// validateSongIndex validates and parses a catalog position from the URL path
func (ms *MusicServer) validateSongIndex(pathParts []string, minParts int) (int, *ValidationError) {
	return validatePathInt(pathParts, minParts, "song_index", "Song index", true)
}

// validatePageKey accepts navigation keys made of lowercase letters, digits
// and hyphens.
func (ms *MusicServer) validatePageKey(key string) *ValidationError {
	if key == "" {
		return &ValidationError{
			Field:   "page",
			Message: "Page is required",
			Code:    "MISSING_PAGE",
		}
	}
	if len(key) > 64 {
		return &ValidationError{
			Field:   "page",
			Message: "Page key too long (max 64 characters)",
			Code:    "PAGE_TOO_LONG",
		}
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return &ValidationError{
				Field:   "page",
				Message: "Page key contains invalid characters",
				Code:    "INVALID_PAGE_CHARACTERS",
			}
		}
	}
	return nil
}

// validateSearchQuery validates search query parameters
func (ms *MusicServer) validateSearchQuery(query string) *ValidationError {
	if len(query) > 1000 {
		return &ValidationError{
			Field:   "search",
			Message: "Search query too long (max 1000 characters)",
			Code:    "SEARCH_QUERY_TOO_LONG",
		}
	}

	if strings.Contains(query, "\x00") {
		return &ValidationError{
			Field:   "search",
			Message: "Search query contains invalid characters",
			Code:    "INVALID_SEARCH_CHARACTERS",
		}
	}

	return nil
}

// validatePercent checks a slider value.
func (ms *MusicServer) validatePercent(field string, value float64) *ValidationError {
	if math.IsNaN(value) || value < 0 || value > 100 {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be between 0 and 100", field),
			Code:    "INVALID_" + strings.ToUpper(field) + "_VALUE",
		}
	}
	return nil
}

// decodeEventBody decodes a small JSON event body into v.
func (ms *MusicServer) decodeEventBody(w http.ResponseWriter, r *http.Request, v interface{}) *ValidationError {
	body := http.MaxBytesReader(w, r.Body, maxEventBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if err == io.EOF {
			return &ValidationError{
				Field:   "body",
				Message: "Request body is required",
				Code:    "MISSING_BODY",
			}
		}
		return &ValidationError{
			Field:   "body",
			Message: "Request body must be valid JSON",
			Code:    "INVALID_BODY",
		}
	}
	return nil
}

// sanitizeInput sanitizes user input to prevent injection attacks
func sanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
