//go:build linux

package mpris

import (
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
)

// playbackStatus maps the service state onto MPRIS: nothing loaded is
// Stopped, loaded and playing is Playing, anything else is Paused.
func playbackStatus(s playback.Service) types.PlaybackStatus {
	switch {
	case s.TrackedState() == player.Idle:
		return types.PlaybackStatusStopped
	case s.IsPlaying():
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func clampPosition(pos, duration time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if duration > 0 && pos > duration {
		return duration
	}
	return pos
}
