package app

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/state"
)

const volumeStep = 0.05

// Volume drives the engine's audio output through service messages and
// persists every change. It is shared by the UI and media controls.
type Volume struct {
	svc      playback.Service
	stateMgr state.Interface
	log      logrus.FieldLogger

	mu    sync.Mutex
	level float64
	muted bool
}

// NewVolume applies the saved volume, or fallback when none was saved.
func NewVolume(svc playback.Service, stateMgr state.Interface, fallback float64, log logrus.FieldLogger) *Volume {
	v := &Volume{
		svc:      svc,
		stateMgr: stateMgr,
		log:      log,
		level:    clampLevel(fallback),
	}
	saved, err := stateMgr.GetVolume()
	if err != nil {
		log.WithError(err).Warn("could not load saved volume")
	}
	if saved != nil {
		v.level = clampLevel(saved.Volume)
		v.muted = saved.Muted
	}
	svc.SendMessage(player.ComponentAudio, player.MsgSetVolume, v.level)
	svc.SendMessage(player.ComponentAudio, player.MsgSetMuted, v.muted)
	return v
}

// Volume returns the level in [0, 1].
func (v *Volume) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.level
}

// Muted returns true if the output is muted.
func (v *Volume) Muted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.muted
}

// SetVolume sets the level, clamped to [0, 1].
func (v *Volume) SetVolume(level float64) {
	v.mu.Lock()
	v.level = clampLevel(level)
	level = v.level
	v.mu.Unlock()

	v.svc.SendMessage(player.ComponentAudio, player.MsgSetVolume, level)
	v.save()
}

// Step changes the level by delta.
func (v *Volume) Step(delta float64) {
	v.SetVolume(v.Volume() + delta)
}

// ToggleMute flips the mute flag.
func (v *Volume) ToggleMute() {
	v.mu.Lock()
	v.muted = !v.muted
	muted := v.muted
	v.mu.Unlock()

	v.svc.SendMessage(player.ComponentAudio, player.MsgSetMuted, muted)
	v.save()
}

func (v *Volume) save() {
	v.mu.Lock()
	s := state.VolumeState{Volume: v.level, Muted: v.muted}
	v.mu.Unlock()
	if err := v.stateMgr.SaveVolume(s); err != nil {
		v.log.WithError(err).Warn(errmsg.Format(errmsg.OpVolumeSave, err))
	}
}

func clampLevel(level float64) float64 {
	// round to the step so repeated steps land on whole percents
	level = float64(int(level*100+0.5)) / 100
	return min(max(level, 0), 1)
}
