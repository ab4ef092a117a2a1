// Package playlist resolves effective playlist membership: a persisted
// override when one exists, the catalog default otherwise.
package playlist

import (
	"cadence/pkg/models"

	"github.com/sirupsen/logrus"
)

// Source resolves catalog playlists.
type Source interface {
	Playlist(id int) (models.Playlist, bool)
}

// EditStore combines catalog defaults with persisted overrides. Remove is
// its only mutating operation.
type EditStore struct {
	repo    Repository
	catalog Source
	logger  *logrus.Logger
}

// NewEditStore creates an edit store.
func NewEditStore(repo Repository, catalog Source, logger *logrus.Logger) *EditStore {
	return &EditStore{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// EffectiveMembership returns the override if persisted, else the catalog
// default, else an empty sequence. Unreadable overrides are treated as
// absent. The returned slice is always a fresh copy.
func (s *EditStore) EffectiveMembership(playlistID int) []int {
	ids, found, err := s.repo.Get(playlistID)
	if err != nil {
		s.logger.WithError(err).WithField("playlist_id", playlistID).Warn("Ignoring unreadable playlist override")
	}
	if err == nil && found {
		return append([]int{}, ids...)
	}

	if pl, ok := s.catalog.Playlist(playlistID); ok {
		return append([]int{}, pl.SongIDs...)
	}
	return []int{}
}

// HasOverride reports whether the playlist has been edited.
func (s *EditStore) HasOverride(playlistID int) bool {
	_, found, err := s.repo.Get(playlistID)
	return err == nil && found
}

// Remove drops songID from the effective membership and persists the result
// as the override, even when songID was not a member.
func (s *EditStore) Remove(playlistID, songID int) error {
	current := s.EffectiveMembership(playlistID)

	filtered := current[:0]
	for _, id := range current {
		if id != songID {
			filtered = append(filtered, id)
		}
	}

	if err := s.repo.Set(playlistID, filtered); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"playlist_id": playlistID,
		"song_id":     songID,
		"remaining":   len(filtered),
	}).Debug("Removed song from playlist")
	return nil
}
