package playlist

import (
	"io"

	"cadence/pkg/models"

	"github.com/ushis/m3u"
)

// WriteM3U writes songs as an extended M3U playlist. artist resolves the
// display name of each song's artist.
func WriteM3U(w io.Writer, songs []models.Song, artist func(models.Song) string) error {
	plist := make(m3u.Playlist, len(songs))
	for i, s := range songs {
		length := int64(s.Duration)
		if length <= 0 {
			length = -1
		}
		plist[i] = m3u.Track{
			Path:  s.Audio,
			Title: artist(s) + " - " + s.DisplayTitle(),
			Time:  length,
		}
	}

	_, err := plist.WriteTo(w)
	return err
}
