// Package metadata resolves audio references to files under the media
// directory and probes them for duration and embedded cover art.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cadence/internal/cache"
	"cadence/internal/catalog"
	"cadence/pkg/models"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// MediaPrefix is the URL prefix audio files are served under.
const MediaPrefix = "/media/"

var (
	// ErrOutsideMediaDir is returned for references escaping the media dir.
	ErrOutsideMediaDir = errors.New("path outside media directory")
	// ErrRemote is returned for references that are not local files.
	ErrRemote = errors.New("remote audio reference")
)

// Info is what probing a file yields.
type Info struct {
	Duration int    `json:"duration"`
	ArtID    string `json:"artId,omitempty"`
	HasArt   bool   `json:"hasArt"`
}

// Prober handles metadata extraction from audio files
type Prober struct {
	mediaDir         string
	supportedFormats []string
	logger           *logrus.Logger
	art              *cache.MemoryCache // art id -> image bytes
	songArt          *cache.MemoryCache // song id -> art id
}

// NewProber creates a prober rooted at mediaDir.
func NewProber(mediaDir string, supportedFormats []string, logger *logrus.Logger) *Prober {
	return &Prober{
		mediaDir:         mediaDir,
		supportedFormats: supportedFormats,
		logger:           logger,
		art:              cache.NewMemoryCache(0),
		songArt:          cache.NewMemoryCache(0),
	}
}

// MediaDir returns the configured media directory.
func (p *Prober) MediaDir() string {
	return p.mediaDir
}

// Resolve maps an audio reference ("/media/a.mp3", "media/a.mp3" or
// "a.mp3") to a path under the media directory.
func (p *Prober) Resolve(ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return "", ErrRemote
	}

	rel := strings.TrimPrefix(ref, "/")
	rel = strings.TrimPrefix(rel, strings.TrimPrefix(MediaPrefix, "/"))
	return p.ValidatePath(rel)
}

// ValidatePath joins rel with the media directory and rejects results that
// escape it.
func (p *Prober) ValidatePath(rel string) (string, error) {
	base, err := filepath.Abs(p.mediaDir)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(base, full)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", ErrOutsideMediaDir
	}
	return full, nil
}

// Probe reads duration and embedded art from path.
func (p *Prober) Probe(path string) (Info, error) {
	var info Info

	duration, err := Duration(path)
	if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
		p.logger.WithError(err).WithField("file_path", path).Warn("Failed to calculate duration, setting to 0")
	}
	info.Duration = duration

	file, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil {
		p.logger.WithError(err).WithField("file_path", path).Debug("No readable tags")
		return info, nil
	}

	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		info.ArtID = ArtID(pic.Data)
		info.HasArt = true
		p.art.Set(info.ArtID, pic.Data)
	}
	return info, nil
}

// ArtID is the content hash identifying a cover image.
func ArtID(data []byte) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("%x", sum[:16])
}

// Enrich returns a copy of c where every song backed by a local media file
// has its duration filled in, and songs without a cover but with embedded
// art point at the album art endpoint.
func (p *Prober) Enrich(c *catalog.Catalog) *catalog.Catalog {
	probed := 0
	enriched := c.MapSongs(func(s models.Song) models.Song {
		path, err := p.Resolve(s.Audio)
		if err != nil || !p.IsAudioFile(path) {
			return s
		}
		if _, err := os.Stat(path); err != nil {
			return s
		}

		info, err := p.Probe(path)
		if err != nil {
			p.logger.WithError(err).WithField("song_id", s.ID).Warn("Failed to probe media")
			return s
		}
		probed++

		if s.Duration == 0 {
			s.Duration = info.Duration
		}
		if info.HasArt {
			p.songArt.Set(strconv.Itoa(s.ID), info.ArtID)
			if s.Cover == "" {
				s.Cover = AlbumArtURL(s.ID)
			}
		}
		return s
	})

	p.logger.WithFields(logrus.Fields{
		"songs":  c.Len(),
		"probed": probed,
	}).Info("Probed media files")
	return enriched
}

// AlbumArtURL is the endpoint serving a song's embedded art.
func AlbumArtURL(songID int) string {
	return "/albumart/" + strconv.Itoa(songID)
}

// AlbumArt returns the embedded art recorded for a song.
func (p *Prober) AlbumArt(songID int) ([]byte, string, bool) {
	id, ok := p.songArt.Get(strconv.Itoa(songID))
	if !ok {
		return nil, "", false
	}
	data, ok := p.art.Get(id.(string))
	if !ok {
		return nil, "", false
	}
	return data.([]byte), id.(string), true
}

// Close releases the art caches.
func (p *Prober) Close() {
	p.art.Close()
	p.songArt.Close()
}

// AlbumArtMimeType guesses MIME type from album art data
func AlbumArtMimeType(data []byte) string {
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return "image/png"
	case len(data) >= 3 && data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46:
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// IsAudioFile checks if a file is a supported audio format
func (p *Prober) IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range p.supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// ContentType returns the MIME type for a media file
func ContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
