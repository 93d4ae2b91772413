package player

import (
	"math"
)

// SendMessage delivers msg to target on the engine goroutine.
func (e *Beep) SendMessage(target Component, msgType int, msg any) {
	e.post(func() { e.handleMessage(target, msgType, msg) })
}

// BlockingSendMessage is SendMessage that returns once msg was handled.
func (e *Beep) BlockingSendMessage(target Component, msgType int, msg any) {
	e.wait(func() { e.handleMessage(target, msgType, msg) })
}

func (e *Beep) handleMessage(target Component, msgType int, msg any) {
	if target != ComponentAudio {
		return
	}
	switch msgType {
	case MsgSetVolume:
		if level, ok := msg.(float64); ok {
			e.setVolume(level)
		}
	case MsgSetMuted:
		if muted, ok := msg.(bool); ok {
			e.setMuted(muted)
		}
	}
}

// setVolume sets the volume level (0.0 to 1.0).
// If muted, only stores the level without applying it.
func (e *Beep) setVolume(level float64) {
	level = min(max(level, 0), 1)

	e.mu.Lock()
	e.volumeLevel = level
	vol := e.volume
	muted := e.muted
	e.mu.Unlock()

	if !muted && vol != nil {
		e.sink.Lock()
		vol.Volume = levelToVolume(level)
		e.sink.Unlock()
	}
}

func (e *Beep) setMuted(muted bool) {
	e.mu.Lock()
	e.muted = muted
	vol := e.volume
	level := e.volumeLevel
	e.mu.Unlock()

	if vol != nil {
		e.sink.Lock()
		vol.Silent = muted
		vol.Volume = levelToVolume(level)
		e.sink.Unlock()
	}
}

// Volume returns the current volume level (0.0 to 1.0).
func (e *Beep) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.volumeLevel
}

// Muted returns true if audio is muted.
func (e *Beep) Muted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.muted
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale where Volume is in "decibels" with base 2.
// Volume = 0 means no change, -1 = half volume, -2 = quarter, etc.
// We map: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent)
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
