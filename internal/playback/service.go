// Package playback drives a player.Engine through deferred operations that
// resolve to lifecycle events.
package playback

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/player"
)

// RendererFactory turns a media reference into a renderer for the engine.
type RendererFactory interface {
	Renderer(uri string) (player.Renderer, error)
}

// Options configures a service. The zero value is usable.
type Options struct {
	ErrorPolicy ErrorPolicy
	// EventBuffer is the channel size of client subscriptions.
	EventBuffer int
	Logger      logrus.FieldLogger
}

// Service defines the playback service contract.
type Service interface {
	// Operations. Nothing happens until the returned Operation is awaited.
	Prepare(uri string) Operation
	Start() Operation
	Pause() Operation
	SetPaused(paused bool) Operation
	TogglePause() Operation
	Stop() Operation
	SeekTo(position time.Duration) Operation
	Restart() Operation
	Reset() Operation

	// State queries, read from the engine
	IsPaused() bool
	IsReady() bool
	IsPlaying() bool
	Position() time.Duration
	Duration() time.Duration
	BufferedPosition() time.Duration
	BufferedPercentage() int
	PlaybackState() player.State
	// TrackedState is the last state the engine reported to the service.
	TrackedState() player.State
	Renderer() player.Renderer

	// Track selection and engine messages
	TrackCount(renderer int) int
	TrackFormat(renderer, track int) player.TrackFormat
	SelectedTrack(renderer int) int
	SetSelectedTrack(renderer, track int)
	SendMessage(target player.Component, msgType int, msg any)
	BlockingSendMessage(target player.Component, msgType int, msg any)

	// Event subscription
	Events() *Subscription
	Event(kind Event) *Subscription
	Errors() *ErrorSubscription

	// Lifecycle
	Close() error
}
