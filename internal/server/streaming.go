package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"cadence/internal/metadata"
)

const (
	// Buffer size for streaming (64KB)
	streamBufferSize = 64 * 1024
)

// handleMedia streams a file from the media directory, with single-range
// support so the audio element can seek.
func (ms *MusicServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		ms.requireMethod(w, r, http.MethodGet)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, metadata.MediaPrefix)
	if rel == "" {
		ms.respondWithError(w, r, http.StatusNotFound, "Media not found", nil)
		return
	}

	filePath, err := ms.prober.ValidatePath(rel)
	if err != nil {
		if errors.Is(err, metadata.ErrOutsideMediaDir) {
			ms.respondWithValidationError(w, r, []ValidationError{{
				Field:   "file_path",
				Message: "Access denied: file outside media directory",
				Code:    "PATH_TRAVERSAL_DENIED",
			}})
			return
		}
		ms.respondWithError(w, r, http.StatusInternalServerError, "Invalid media path", err)
		return
	}

	if err := ms.streamFile(w, r, filePath, metadata.ContentType(filePath)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ms.respondWithError(w, r, http.StatusNotFound, "Media not found", nil)
			return
		}
		ms.logger.WithError(err).WithField("file_path", filePath).Warn("Streaming failed")
	}
}

// streamFile writes filePath with caching headers and optional byte ranges.
func (ms *MusicServer) streamFile(w http.ResponseWriter, r *http.Request, filePath string, contentType string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	if stat.IsDir() {
		return os.ErrNotExist
	}

	fileSize := stat.Size()
	modTime := stat.ModTime().Unix()

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	etag := fmt.Sprintf(`"%d-%d"`, modTime, fileSize)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", etag)

	if checkNotModified(w, r, etag) {
		return nil
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")

	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		return handleRangeRequest(w, r, file, fileSize, rangeHeader)
	}

	w.Header().Set("Content-Length", strconv.FormatInt(fileSize, 10))
	if r.Method == http.MethodHead {
		return nil
	}

	bufferedReader := bufio.NewReaderSize(file, streamBufferSize)
	buffer := make([]byte, streamBufferSize)
	if _, err := io.CopyBuffer(w, bufferedReader, buffer); err != nil {
		return fmt.Errorf("error streaming file: %w", err)
	}
	return nil
}

// checkNotModified answers 304 when the client holds the current version.
func checkNotModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// handleRangeRequest implements simple single-range byte serving for seeking.
func handleRangeRequest(w http.ResponseWriter, r *http.Request, file *os.File, fileSize int64, rangeHeader string) error {
	start, end, ok := parseRange(rangeHeader, fileSize)
	if !ok {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	contentLength := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	w.Header().Set("Content-Length", strconv.FormatInt(contentLength, 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodHead {
		return nil
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking file: %w", err)
	}
	if _, err := io.CopyN(w, file, contentLength); err != nil {
		return fmt.Errorf("error streaming range: %w", err)
	}
	return nil
}

// parseRange parses "bytes=start-end", "bytes=start-" and the suffix form
// "bytes=-n". Multiple ranges are not supported.
func parseRange(header string, fileSize int64) (start, end int64, ok bool) {
	ranges, found := strings.CutPrefix(header, "bytes=")
	if !found || strings.Contains(ranges, ",") {
		return 0, 0, false
	}
	first, last, found := strings.Cut(ranges, "-")
	if !found {
		return 0, 0, false
	}

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		if n > fileSize {
			n = fileSize
		}
		return fileSize - n, fileSize - 1, fileSize > 0
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	end = fileSize - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		if end >= fileSize {
			end = fileSize - 1
		}
	}

	if start < 0 || start > end || start >= fileSize {
		return 0, 0, false
	}
	return start, end, true
}
