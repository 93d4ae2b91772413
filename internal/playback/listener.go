package playback

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/player"
)

// listener is the one player.Listener the service registers. It turns
// engine notifications into events and errors on the buses.
type listener struct {
	engine  player.Engine
	events  *bus[Event]
	errs    *bus[error]
	tracker *tracker
	policy  ErrorPolicy
	log     logrus.FieldLogger
}

// OnStateChanged records state before publishing, so an operation resumed
// by one of these events already sees it as the tracked state.
func (l *listener) OnStateChanged(playWhenReady bool, state player.State) {
	l.tracker.observe(state)
	switch state {
	case player.Ended:
		l.emit(EventEnded)
	case player.Idle:
		l.emit(EventIdle)
	case player.Preparing:
		l.emit(EventPreparing)
	case player.Buffering:
		l.emit(EventBuffering)
	case player.Ready:
		l.emit(EventReady)
		if playWhenReady {
			l.emit(EventStarted)
		}
	}
}

func (l *listener) OnPlayWhenReadyCommitted() {
	if !l.engine.PlayWhenReady() {
		l.emit(EventPaused)
	}
}

func (l *listener) OnError(err error) {
	l.log.WithError(err).WithField("policy", l.policy).Error("engine error")
	if l.policy == PolicyPoison {
		l.events.fail(err)
	}
	l.errs.publish(err)
}

func (l *listener) emit(e Event) {
	l.log.WithField("event", e).Debug("event")
	l.events.publish(e)
}
