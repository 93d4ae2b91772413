package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

const (
	defaultBuffer    = 100 * time.Millisecond
	commandQueueSize = 16
)

// Options configures a Beep engine.
type Options struct {
	Buffer     time.Duration // output buffer length, default 100ms
	SeekSettle time.Duration // output stays muted this long after a seek
	Volume     float64       // initial level in [0, 1]; zero means full volume
}

// Beep is an Engine playing renderers through a beep Sink.
//
// Commands are queued to a single engine goroutine which performs the
// transitions and notifies listeners from there, so listeners see state
// changes in the order the engine made them. SetPlayWhenReady updates the
// flag on the caller's goroutine; the resulting notification and the
// commit follow from the engine goroutine.
type Beep struct {
	sink Sink
	opts Options

	mu            sync.RWMutex
	state         State
	playWhenReady bool
	renderer      Renderer
	ctrl          *beep.Ctrl
	volume        *effects.Volume
	volumeLevel   float64
	muted         bool
	generation    int // bumped whenever the installed stream changes

	// last (playWhenReady, state) pair reported; engine goroutine only
	reported      State
	reportedPWR   bool
	reportedValid bool

	listenersMu sync.RWMutex
	listeners   []Listener

	cmds        chan func()
	done        chan struct{}
	releaseOnce sync.Once
}

// NewBeep creates an engine and starts its goroutine.
func NewBeep(sink Sink, opts Options) *Beep {
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	level := opts.Volume
	if level <= 0 || level > 1 {
		level = 1
	}
	e := &Beep{
		sink:        sink,
		opts:        opts,
		state:       Idle,
		volumeLevel: level,
		cmds:        make(chan func(), commandQueueSize),
		done:        make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *Beep) loop() {
	for {
		select {
		case cmd := <-e.cmds:
			cmd()
		case <-e.done:
			return
		}
	}
}

// post queues fn for the engine goroutine. Commands posted after Release
// are dropped.
func (e *Beep) post(fn func()) {
	select {
	case e.cmds <- fn:
	case <-e.done:
	}
}

// wait runs fn on the engine goroutine and blocks until it returns.
func (e *Beep) wait(fn func()) {
	ack := make(chan struct{})
	e.post(func() {
		fn()
		close(ack)
	})
	select {
	case <-ack:
	case <-e.done:
	}
}

// AddListener registers l for all future notifications.
func (e *Beep) AddListener(l Listener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, l)
}

func (e *Beep) snapshotListeners() []Listener {
	e.listenersMu.RLock()
	defer e.listenersMu.RUnlock()
	return append([]Listener(nil), e.listeners...)
}

// notifyState reports a pair to the listeners. Engine goroutine only.
func (e *Beep) notifyState(playWhenReady bool, state State) {
	e.reported, e.reportedPWR, e.reportedValid = state, playWhenReady, true
	for _, l := range e.snapshotListeners() {
		l.OnStateChanged(playWhenReady, state)
	}
}

func (e *Beep) setState(s State) {
	e.mu.Lock()
	e.state = s
	pwr := e.playWhenReady
	e.mu.Unlock()
	e.notifyState(pwr, s)
}

// fail reports err and leaves the engine Idle.
func (e *Beep) fail(err error) {
	for _, l := range e.snapshotListeners() {
		l.OnError(err)
	}
	e.setState(Idle)
}

// Prepare installs r and moves the engine through Preparing to Ready.
// A previously installed renderer is closed.
func (e *Beep) Prepare(r Renderer) {
	e.post(func() { e.doPrepare(r) })
}

func (e *Beep) doPrepare(r Renderer) {
	e.teardown()
	e.setState(Preparing)
	if err := e.install(r); err != nil {
		_ = r.Close()
		e.fail(err)
		return
	}
	e.setState(Ready)
	e.applyPause()
}

// install hands r to the sink, paused.
func (e *Beep) install(r Renderer) error {
	format := r.Format()
	if err := e.sink.Init(format.SampleRate, e.opts.Buffer); err != nil {
		return err
	}

	var s beep.Streamer = r
	if rate := e.sink.SampleRate(); rate != 0 && rate != format.SampleRate {
		s = beep.Resample(4, format.SampleRate, rate, r)
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.renderer = r
	e.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   levelToVolume(e.volumeLevel),
		Silent:   e.muted,
	}
	vol := e.volume
	e.mu.Unlock()

	e.sink.Play(beep.Seq(vol, beep.Callback(func() {
		// Runs on the output goroutine with the sink locked.
		go e.post(func() { e.handleDrained(gen) })
	})))
	return nil
}

// teardown removes the installed renderer from the sink and closes it.
func (e *Beep) teardown() {
	e.mu.Lock()
	r := e.renderer
	e.renderer = nil
	e.ctrl = nil
	e.volume = nil
	e.generation++
	e.mu.Unlock()

	if r == nil {
		return
	}
	e.sink.Clear()
	_ = r.Close()
}

// applyPause lets audio through only when Ready and play-when-ready.
func (e *Beep) applyPause() {
	e.mu.RLock()
	ctrl := e.ctrl
	paused := !e.playWhenReady || e.state != Ready
	e.mu.RUnlock()
	if ctrl == nil {
		return
	}
	e.sink.Lock()
	ctrl.Paused = paused
	e.sink.Unlock()
}

func (e *Beep) handleDrained(gen int) {
	e.mu.RLock()
	stale := gen != e.generation || e.state == Idle
	r := e.renderer
	e.mu.RUnlock()
	if stale || r == nil {
		return
	}
	if err := r.Err(); err != nil {
		e.teardown()
		e.fail(err)
		return
	}
	e.setState(Ended)
}

// Release stops playback and ends the engine goroutine. Safe to call twice.
func (e *Beep) Release() {
	e.releaseOnce.Do(func() {
		e.wait(e.teardown)
		close(e.done)
	})
}

// PlayWhenReady returns the play-when-ready flag.
func (e *Beep) PlayWhenReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.playWhenReady
}

// State returns the current engine state.
func (e *Beep) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Duration returns the installed renderer's length.
func (e *Beep) Duration() time.Duration {
	e.mu.RLock()
	r := e.renderer
	e.mu.RUnlock()
	if r == nil {
		return 0
	}
	return r.Format().SampleRate.D(r.Len())
}

// BufferedPosition equals Duration: renderers decode local media on demand.
func (e *Beep) BufferedPosition() time.Duration {
	return e.Duration()
}

// BufferedPercentage is 100 once a renderer is installed.
func (e *Beep) BufferedPercentage() int {
	if e.Duration() == 0 {
		return 0
	}
	return 100
}

// TrackCount returns the number of tracks exposed by renderer index 0.
func (e *Beep) TrackCount(renderer int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if renderer != 0 || e.renderer == nil {
		return 0
	}
	return 1
}

// TrackFormat describes the single audio track of the installed renderer.
func (e *Beep) TrackFormat(renderer, track int) TrackFormat {
	e.mu.RLock()
	r := e.renderer
	e.mu.RUnlock()
	if renderer != 0 || track != 0 || r == nil {
		return TrackFormat{}
	}
	format := r.Format()
	tf := TrackFormat{
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		BitDepth:   format.Precision * 8,
		Duration:   format.SampleRate.D(r.Len()),
	}
	if info := r.Info(); info != nil {
		tf.MIMEType = mimeType(info.Format)
	}
	return tf
}

// SelectedTrack returns 0 when a renderer is installed, -1 otherwise.
func (e *Beep) SelectedTrack(renderer int) int {
	if e.TrackCount(renderer) == 0 {
		return -1
	}
	return 0
}

// SetSelectedTrack accepts only the single available track.
func (e *Beep) SetSelectedTrack(_, _ int) {}

func mimeType(format string) string {
	switch format {
	case "MP3":
		return "audio/mpeg"
	case "FLAC":
		return "audio/flac"
	case "WAV":
		return "audio/wav"
	case "VORBIS":
		return "audio/ogg"
	default:
		return ""
	}
}
