package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/playback"
)

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChannel creates a command that waits for a value from a channel
// and converts it to a message. ok is false once the channel is closed.
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchEvents waits for the next playback event.
func (m Model) WatchEvents() tea.Cmd {
	sub := m.events
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return PlaybackEventMsg{Event: e}
		case <-sub.Done:
			return EventsClosedMsg{Err: sub.Err()}
		}
	}
}

// WatchErrors waits for the next fatal engine error.
func (m Model) WatchErrors() tea.Cmd {
	sub := m.errs
	return func() tea.Msg {
		select {
		case err := <-sub.Errors:
			return PlaybackErrorMsg{Err: err}
		case <-sub.Done:
			return nil
		}
	}
}

// WatchStderr waits for output captured from C libraries.
func (m Model) WatchStderr() tea.Cmd {
	return waitForChannel(m.stderr, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	})
}

// runOp awaits o off the UI goroutine and reports the result.
func (m Model) runOp(op errmsg.Op, desc string, o playback.Operation) tea.Cmd {
	timeout := m.OpTimeout
	return func() tea.Msg {
		return await(timeout, op, desc, o)
	}
}

func await(timeout time.Duration, op errmsg.Op, desc string, o playback.Operation) OpResultMsg {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	e, err := o.Await(ctx)
	return OpResultMsg{Op: op, Context: desc, Event: e, Err: err}
}

// openCmd prepares uri, seeks to its saved position when resuming is on,
// and starts playback.
func (m Model) openCmd(uri string) tea.Cmd {
	svc := m.Service
	stateMgr := m.StateMgr
	resume := m.Resume
	log := m.Log
	timeout := m.OpTimeout

	return func() tea.Msg {
		op := svc.Prepare(uri)
		if resume {
			saved, err := stateMgr.GetResume(uri)
			if err != nil {
				log.WithError(err).Warn(errmsg.Format(errmsg.OpResumeLoad, err))
			} else if saved != nil && saved.Worth() {
				pos := saved.Position
				op = op.Then(func(playback.Event) playback.Operation { return svc.SeekTo(pos) })
			}
		}
		op = op.Then(func(playback.Event) playback.Operation { return svc.Start() })
		return await(timeout, errmsg.OpOpenMedia, uri, op)
	}
}
