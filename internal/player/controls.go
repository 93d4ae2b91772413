package player

import (
	"time"
)

// SetPlayWhenReady sets the play-when-ready flag. When the value changes,
// the engine goroutine reports OnStateChanged with the state it is in at
// that point, pauses or resumes the output, then reports
// OnPlayWhenReadyCommitted.
func (e *Beep) SetPlayWhenReady(play bool) {
	e.mu.Lock()
	if e.playWhenReady == play {
		e.mu.Unlock()
		return
	}
	e.playWhenReady = play
	e.mu.Unlock()

	e.post(func() {
		e.mu.RLock()
		pwr, state := e.playWhenReady, e.state
		e.mu.RUnlock()
		// A transition made after the flag changed has already
		// reported this pair.
		if !e.reportedValid || e.reported != state || e.reportedPWR != pwr {
			e.notifyState(pwr, state)
		}
		e.applyPause()
		for _, l := range e.snapshotListeners() {
			l.OnPlayWhenReadyCommitted()
		}
	})
}

// Stop removes the renderer and moves to Idle. No-op when already Idle.
func (e *Beep) Stop() {
	e.post(e.doStop)
}

func (e *Beep) doStop() {
	if e.State() == Idle {
		return
	}
	e.teardown()
	e.setState(Idle)
}

// Seek moves to position, passing through Buffering. Ignored unless the
// engine is Ready, Buffering or Ended.
func (e *Beep) Seek(position time.Duration) {
	e.post(func() { e.doSeek(position) })
}

func (e *Beep) doSeek(position time.Duration) {
	e.mu.RLock()
	state := e.state
	r := e.renderer
	e.mu.RUnlock()
	if r == nil || !state.CanSeek() {
		return
	}

	e.setState(Buffering)

	target := r.Format().SampleRate.N(position)
	target = min(max(target, 0), r.Len())

	// Mute, seek, then unmute to avoid audio artifacts
	e.sink.Lock()
	e.mu.RLock()
	vol := e.volume
	e.mu.RUnlock()
	if vol != nil {
		vol.Silent = true
	}
	err := r.Seek(target)
	e.sink.Unlock()
	if err != nil {
		e.teardown()
		e.fail(err)
		return
	}

	// The output dropped a drained stream; hand it over again.
	if state == Ended {
		if err := e.install(r); err != nil {
			e.teardown()
			e.fail(err)
			return
		}
	}

	if e.opts.SeekSettle > 0 {
		time.Sleep(e.opts.SeekSettle)
	}

	e.mu.RLock()
	vol = e.volume
	muted := e.muted
	e.mu.RUnlock()
	if vol != nil {
		e.sink.Lock()
		vol.Silent = muted
		e.sink.Unlock()
	}

	e.setState(Ready)
	e.applyPause()
}

// Position returns the current playback position, zero when Idle.
func (e *Beep) Position() time.Duration {
	e.mu.RLock()
	r := e.renderer
	e.mu.RUnlock()
	if r == nil {
		return 0
	}
	e.sink.Lock()
	pos := r.Position()
	e.sink.Unlock()
	return r.Format().SampleRate.D(pos)
}
