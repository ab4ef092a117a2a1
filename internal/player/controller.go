// Package player owns playback state for one client and reflects it into
// the player bar.
package player

import (
	"sync"

	"cadence/pkg/models"

	"github.com/sirupsen/logrus"
)

// UnknownArtist is displayed when a song's artist cannot be resolved.
const UnknownArtist = "Unknown"

// Library is the song source the controller indexes into.
type Library interface {
	Len() int
	SongAt(i int) (models.Song, bool)
	ArtistName(id int) (string, bool)
}

// Controller manages the player state and its surface
type Controller struct {
	library Library
	engine  Engine
	logger  *logrus.Logger

	mutex    sync.Mutex
	state    State
	surface  Surface
	onChange []func(Snapshot)
}

// NewController creates a controller with nothing loaded.
func NewController(library Library, engine Engine, logger *logrus.Logger) *Controller {
	return &Controller{
		library: library,
		engine:  engine,
		logger:  logger,
		state:   State{VolumeRatio: 1},
		surface: Surface{
			Cover:  models.PlaceholderCover,
			Icon:   IconPaused,
			Volume: 100,
		},
	}
}

// OnChange registers fn to be called after every state change.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.onChange = append(c.onChange, fn)
}

// Snapshot returns a copy of the current state (thread-safe)
func (c *Controller) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return Snapshot{State: c.state, Surface: c.surface}
}

// Load starts playback of the song at index. Out of range indices are
// ignored and false is returned.
func (c *Controller) Load(index int) bool {
	song, ok := c.library.SongAt(index)
	if !ok {
		return false
	}

	artist, ok := c.library.ArtistName(song.ArtistID)
	if !ok {
		artist = UnknownArtist
	}

	c.update(func() {
		c.state.CurrentIndex = index
		c.state.IsPlaying = true
		c.state.PositionRatio = 0

		c.engine.SetSource(song.Audio)
		c.engine.Play()

		c.surface.Cover = song.CoverOrPlaceholder()
		c.surface.Title = song.DisplayTitle()
		c.surface.Artist = artist
		c.surface.Icon = IconPlaying
		c.surface.Progress = 0
	})

	c.logger.WithFields(logrus.Fields{
		"index":   index,
		"song_id": song.ID,
	}).Debug("Loaded song")
	return true
}

// TogglePlay pauses a playing engine and resumes a paused one.
func (c *Controller) TogglePlay() {
	c.update(func() {
		if c.engine.Paused() {
			c.engine.Play()
			c.state.IsPlaying = true
			c.surface.Icon = IconPlaying
		} else {
			c.engine.Pause()
			c.state.IsPlaying = false
			c.surface.Icon = IconPaused
		}
	})
}

// Next loads the following song, wrapping to the first.
func (c *Controller) Next() {
	c.step(1)
}

// Previous loads the preceding song, wrapping to the last.
func (c *Controller) Previous() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	n := c.library.Len()
	if n == 0 {
		return
	}

	c.mutex.Lock()
	current := c.state.CurrentIndex
	c.mutex.Unlock()

	c.Load(((current+delta)%n + n) % n)
}

// OnProgress seeks to ratio of the current duration. Nothing happens while
// the duration is unknown.
func (c *Controller) OnProgress(ratio float64) {
	ratio = clamp(ratio)
	duration := c.engine.Duration()
	if !knownDuration(duration) {
		return
	}

	c.update(func() {
		c.engine.Seek(ratio * duration)
		c.state.PositionRatio = ratio
		c.surface.Progress = ratio * 100
	})
}

// OnVolumeChange sets the engine volume to ratio.
func (c *Controller) OnVolumeChange(ratio float64) {
	ratio = clamp(ratio)

	c.update(func() {
		c.engine.SetVolume(ratio)
		c.state.VolumeRatio = ratio
		c.surface.Volume = ratio * 100
	})
}

type reporter interface {
	Report(current, duration float64)
}

// OnTimeUpdate records the time the engine reported and moves the progress
// indicator.
func (c *Controller) OnTimeUpdate(current, duration float64) {
	c.update(func() {
		if r, ok := c.engine.(reporter); ok {
			r.Report(current, duration)
		}
		c.state.PositionRatio = Fraction(current, duration)
		c.surface.Progress = c.state.PositionRatio * 100
	})
}

// update applies fn under the lock, then notifies listeners.
func (c *Controller) update(fn func()) {
	c.mutex.Lock()
	fn()
	snap := Snapshot{State: c.state, Surface: c.surface}
	listeners := append([]func(Snapshot){}, c.onChange...)
	c.mutex.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
