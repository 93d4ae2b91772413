// Package mpris exposes the playback service to desktop media controls.
package mpris

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	busName        = "playctl"
	identity       = "playctl"
	defaultTimeout = 10 * time.Second
)

var supportedMimeTypes = []string{
	"audio/mpeg", "audio/mp3", "audio/flac", "audio/wav", "audio/ogg",
}

// VolumeControl reads and sets the output volume in [0, 1].
type VolumeControl interface {
	Volume() float64
	SetVolume(v float64)
}

// Options configures an Adapter. The zero value is usable.
type Options struct {
	// Timeout bounds each remote command's wait for its event.
	Timeout time.Duration
	// Volume is optional; without it the volume is reported as 1.
	Volume VolumeControl
	// Open handles OpenUri. Without it the media is prepared and started.
	Open func(uri string) error
	Log  logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Log = l
	}
	o.Log = o.Log.WithField("component", "mpris")
	return o
}
