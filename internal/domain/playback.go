package domain

import "errors"

var ErrInvalidPlaybackState = errors.New("invalid playback state")

// PlaybackState is the player flag reported by clients. Values other than
// the constants below are kept verbatim and relayed as-is.
type PlaybackState string

const (
	StatePaused  PlaybackState = "paused"
	StatePlaying PlaybackState = "playing"
	StateEnded   PlaybackState = "ended"
)

func ParsePlaybackState(raw string) (PlaybackState, error) {
	if raw == "" {
		return "", ErrInvalidPlaybackState
	}
	return PlaybackState(raw), nil
}

// CarriesPosition reports whether peers should also receive the position
// alongside this state.
func (s PlaybackState) CarriesPosition() bool {
	return s == StatePlaying || s == StatePaused
}

// ClampPosition keeps playback offsets non-negative.
func ClampPosition(seconds float64) float64 {
	if seconds < 0 {
		return 0
	}
	return seconds
}
