package app

import (
	"time"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/state"
)

// SaveResume records the current position of the open media. Positions
// too close to either end are not saved, so a position read during a
// stop or restart never replaces a useful one.
func (m Model) SaveResume() {
	if !m.Resume || m.URI == "" || !m.Service.TrackedState().HasMedia() {
		return
	}
	p := state.ResumePosition{
		URI:       m.URI,
		Position:  m.Service.Position(),
		Duration:  m.Service.Duration(),
		UpdatedAt: time.Now(),
	}
	if !p.Worth() {
		return
	}
	if r := m.Service.Renderer(); r != nil {
		if info := r.Info(); info != nil {
			p.Title = info.Title
		}
	}
	m.StateMgr.SaveResume(p)
}

// ForgetResume drops the saved position of the open media.
func (m Model) ForgetResume() {
	if !m.Resume || m.URI == "" {
		return
	}
	if err := m.StateMgr.ForgetResume(m.URI); err != nil {
		m.Log.WithError(err).Warn(errmsg.Format(errmsg.OpResumeSave, err))
	}
}
