package playback

import (
	"sync/atomic"
	"time"

	"github.com/llehouerou/playctl/internal/player"
)

// tracker remembers the last engine state the listener saw and answers
// the queries that read the engine directly. The engine side may be one
// callback ahead of the observed state.
type tracker struct {
	engine player.Engine
	last   atomic.Int32
}

func newTracker(engine player.Engine) *tracker {
	t := &tracker{engine: engine}
	t.last.Store(int32(player.Idle))
	return t
}

// observe is called by the listener only.
func (t *tracker) observe(s player.State) {
	t.last.Store(int32(s))
}

func (t *tracker) lastObserved() player.State {
	return player.State(t.last.Load())
}

func (t *tracker) isPaused() bool {
	return !t.engine.PlayWhenReady()
}

func (t *tracker) isReady() bool {
	return t.engine.State() == player.Ready
}

func (t *tracker) isPlaying() bool {
	return t.isReady() && !t.isPaused()
}

func (t *tracker) position() time.Duration {
	return t.engine.Position()
}
