package app

import (
	"time"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/playback"
)

// TickMsg is sent every second while playing, to refresh the progress.
type TickMsg time.Time

// OpenMsg asks the model to play a media reference. Other goroutines
// (media controls) send it through the program.
type OpenMsg struct {
	URI string
}

// PlaybackEventMsg carries one event of the service's event channel.
type PlaybackEventMsg struct {
	Event playback.Event
}

// EventsClosedMsg is sent once the event subscription ended. Err is the
// terminal error of the event channel.
type EventsClosedMsg struct {
	Err error
}

// PlaybackErrorMsg carries a fatal engine error.
type PlaybackErrorMsg struct {
	Err error
}

// StderrMsg carries a line written to stderr by an audio library.
type StderrMsg struct {
	Line string
}

// OpResultMsg reports the outcome of an awaited playback operation.
type OpResultMsg struct {
	Op      errmsg.Op
	Context string
	Event   playback.Event
	Err     error
}
