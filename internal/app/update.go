package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/keymap"
	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/ui/playerbar"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 30 * time.Second
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleAction(m.Keys.Resolve(msg.String()))

	case OpenMsg:
		return m.open(msg.URI)

	case OpResultMsg:
		return m.handleOpResult(msg)

	case PlaybackEventMsg:
		return m.handleEvent(msg.Event)

	case EventsClosedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, playback.ErrClosed) {
			m.ErrorMsg = "Playback halted: " + msg.Err.Error()
		}
		return m, nil

	case PlaybackErrorMsg:
		m.ErrorMsg = "Playback error: " + msg.Err.Error()
		return m, m.WatchErrors()

	case StderrMsg:
		m.StatusMsg = msg.Line
		return m, m.WatchStderr()

	case TickMsg:
		if !m.Service.IsPlaying() {
			m.ticking = false
			return m, nil
		}
		m.SaveResume()
		return m, TickCmd()
	}

	return m, nil
}

func (m Model) handleAction(action keymap.Action) (tea.Model, tea.Cmd) {
	svc := m.Service

	switch action {
	case keymap.ActionQuit:
		m.SaveResume()
		m.Quitting = true
		return m, tea.Quit

	case keymap.ActionPlayPause:
		if svc.TrackedState() == player.Idle {
			if m.URI == "" {
				return m, nil
			}
			return m.open(m.URI)
		}
		return m, m.runOp(errmsg.OpToggle, "", svc.TogglePause())

	case keymap.ActionStop:
		m.SaveResume()
		return m, m.runOp(errmsg.OpReset, "", svc.Reset())

	case keymap.ActionRestart:
		m.ForgetResume()
		return m, m.runOp(errmsg.OpRestart, "", svc.Restart())

	case keymap.ActionReload:
		if m.URI == "" {
			return m, nil
		}
		m.SaveResume()
		return m.open(m.URI)

	case keymap.ActionSeekForward:
		return m, m.seekBy(seekStep)
	case keymap.ActionSeekBack:
		return m, m.seekBy(-seekStep)
	case keymap.ActionSeekForwardLg:
		return m, m.seekBy(seekStepLong)
	case keymap.ActionSeekBackLg:
		return m, m.seekBy(-seekStepLong)

	case keymap.ActionVolumeUp:
		m.Volume.Step(volumeStep)
	case keymap.ActionVolumeDown:
		m.Volume.Step(-volumeStep)
	case keymap.ActionToggleMute:
		m.Volume.ToggleMute()

	case keymap.ActionTogglePlayerDisplay:
		if m.DisplayMode == playerbar.ModeExpanded {
			m.DisplayMode = playerbar.ModeCompact
		} else {
			m.DisplayMode = playerbar.ModeExpanded
		}
	}

	return m, nil
}

func (m Model) open(uri string) (tea.Model, tea.Cmd) {
	m.URI = uri
	m.ErrorMsg = ""
	m.StatusMsg = "Opening " + filepath.Base(uri)
	return m, m.openCmd(uri)
}

// seekBy seeks relative to the current position, clamped to the media.
func (m Model) seekBy(delta time.Duration) tea.Cmd {
	if !m.Service.TrackedState().CanSeek() {
		return nil
	}
	target := max(m.Service.Position()+delta, 0)
	if d := m.Service.Duration(); d > 0 {
		target = min(target, d)
	}
	return m.runOp(errmsg.OpSeek, "", m.Service.SeekTo(target))
}

func (m Model) handleOpResult(msg OpResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.Log.WithError(msg.Err).WithField("op", msg.Op).Warn("operation failed")
		m.ErrorMsg = errmsg.FormatWith(msg.Op, msg.Context, msg.Err)
		return m, nil
	}
	m.ErrorMsg = ""
	if msg.Op == errmsg.OpOpenMedia {
		m.StatusMsg = ""
	}
	return m, nil
}

func (m Model) handleEvent(e playback.Event) (tea.Model, tea.Cmd) {
	m.LastEvent = e
	cmds := []tea.Cmd{m.WatchEvents()}

	switch e {
	case playback.EventStarted:
		if !m.ticking {
			m.ticking = true
			cmds = append(cmds, TickCmd())
		}
	case playback.EventPaused:
		m.SaveResume()
	case playback.EventEnded:
		m.ForgetResume()
	}

	return m, tea.Batch(cmds...)
}
