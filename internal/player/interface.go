// internal/player/interface.go
package player

import (
	"time"

	"github.com/gopxl/beep/v2"
)

// Listener receives engine notifications. Calls may arrive on the engine's
// own goroutine.
type Listener interface {
	// OnStateChanged is called whenever the state or the play-when-ready
	// flag changes.
	OnStateChanged(playWhenReady bool, state State)
	// OnPlayWhenReadyCommitted is called once a SetPlayWhenReady change has
	// been applied to the output.
	OnPlayWhenReadyCommitted()
	// OnError reports a fatal playback error. The engine is Idle afterwards.
	OnError(err error)
}

// Renderer is a decoded media stream ready to be handed to an engine.
// Once passed to Prepare, the engine owns it and closes it.
type Renderer interface {
	beep.StreamSeekCloser
	Format() beep.Format
	Info() *TrackInfo
}

// TrackFormat describes one selectable track of a renderer.
type TrackFormat struct {
	MIMEType   string
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Component addresses a message sent through SendMessage.
type Component int

const (
	// ComponentAudio is the audio output stage (volume, mute).
	ComponentAudio Component = iota
)

// Message types accepted by ComponentAudio.
const (
	MsgSetVolume = iota + 1 // float64 in [0, 1]
	MsgSetMuted             // bool
)

// Engine is the media engine contract consumed by the playback core.
type Engine interface {
	Prepare(r Renderer)
	SetPlayWhenReady(play bool)
	PlayWhenReady() bool
	State() State
	Seek(position time.Duration)
	Stop()
	Release()

	Position() time.Duration
	Duration() time.Duration
	BufferedPosition() time.Duration
	BufferedPercentage() int

	TrackCount(renderer int) int
	TrackFormat(renderer, track int) TrackFormat
	SelectedTrack(renderer int) int
	SetSelectedTrack(renderer, track int)

	SendMessage(target Component, msgType int, msg any)
	BlockingSendMessage(target Component, msgType int, msg any)

	AddListener(l Listener)
}

// Verify Beep implements Engine at compile time.
var _ Engine = (*Beep)(nil)
