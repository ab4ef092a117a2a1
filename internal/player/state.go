package player

import "math"

const (
	// IconPlaying is shown on the play button while audio plays.
	IconPlaying = "⏸️"
	// IconPaused is shown while audio is paused.
	IconPaused = "▶️"
)

// State represents the current player state
type State struct {
	CurrentIndex  int     `json:"currentIndex"`
	IsPlaying     bool    `json:"isPlaying"`
	PositionRatio float64 `json:"positionRatio"` // 0.0 to 1.0
	VolumeRatio   float64 `json:"volumeRatio"`   // 0.0 to 1.0
}

// Surface is what the player bar displays.
type Surface struct {
	Cover    string  `json:"cover"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Icon     string  `json:"icon"`
	Progress float64 `json:"progress"` // 0 to 100
	Volume   float64 `json:"volume"`   // 0 to 100
}

// Snapshot is a copy of the controller state and its surface.
type Snapshot struct {
	State   State   `json:"state"`
	Surface Surface `json:"surface"`
}

// Fraction returns current/duration clamped to [0, 1], or 0 when the
// duration is unknown.
func Fraction(current, duration float64) float64 {
	if !knownDuration(duration) {
		return 0
	}
	return clamp(current / duration)
}

func knownDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func clamp(ratio float64) float64 {
	switch {
	case math.IsNaN(ratio), ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}
