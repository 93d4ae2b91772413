package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Sink is the audio output the Beep engine plays into.
type Sink interface {
	// Init prepares the output for the given sample rate. It is called before
	// every Play and must be cheap when already initialized.
	Init(sr beep.SampleRate, buffer time.Duration) error
	// SampleRate returns the rate the output runs at (zero before Init).
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerSink plays through the process-wide beep speaker.
type speakerSink struct {
	mu          sync.Mutex
	initialized bool
	rate        beep.SampleRate
}

// NewSpeakerSink returns a Sink backed by github.com/gopxl/beep/v2/speaker.
// The speaker is initialized lazily with the first track's sample rate;
// later tracks with another rate are resampled by the engine.
func NewSpeakerSink() Sink {
	return &speakerSink{}
}

func (s *speakerSink) Init(sr beep.SampleRate, buffer time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return err
	}
	s.rate = sr
	s.initialized = true
	return nil
}

func (s *speakerSink) SampleRate() beep.SampleRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

func (s *speakerSink) Play(st beep.Streamer) { speaker.Play(st) }

func (s *speakerSink) Clear() { speaker.Clear() }

func (s *speakerSink) Lock() { speaker.Lock() }

func (s *speakerSink) Unlock() { speaker.Unlock() }
