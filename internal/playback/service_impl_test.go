package playback

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/player"
)

func TestOperations_NothingHappensBeforeAwait(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, factory := newTestService(PolicyPoison)
		defer svc.Close()

		ops := map[string]Operation{
			"prepare":    svc.Prepare("/music/a.mp3"),
			"start":      svc.Start(),
			"pause":      svc.Pause(),
			"set paused": svc.SetPaused(false),
			"toggle":     svc.TogglePause(),
			"stop":       svc.Stop(),
			"seek":       svc.SeekTo(10 * time.Second),
			"restart":    svc.Restart(),
			"reset":      svc.Reset(),
		}
		require.Len(t, ops, 9)
		synctest.Wait()

		assert.Empty(t, factory.calls())
		assert.Empty(t, mock.PrepareCalls())
		assert.Empty(t, mock.PlayWhenReadyCalls())
		assert.Empty(t, mock.SeekCalls())
		assert.Zero(t, mock.StopCalls())
		assert.Equal(t, player.Idle, mock.State())
	})
}

func TestPrepare_ResolvesToSingleReady(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, factory := newTestService(PolicyPoison)
		defer svc.Close()

		events := svc.Events()
		readies := svc.Event(EventReady)

		e := mustAwait(t, svc.Prepare("/music/a.mp3"))
		synctest.Wait()

		assert.Equal(t, EventReady, e)
		assert.Equal(t, []Event{EventPreparing, EventReady}, drain(events))
		assert.Equal(t, []Event{EventReady}, drain(readies))
		assert.Equal(t, []string{"/music/a.mp3"}, factory.calls())
		assert.Len(t, mock.PrepareCalls(), 1)
		assert.Equal(t, player.Ready, svc.TrackedState())
		require.NotNil(t, svc.Renderer())
		assert.Equal(t, "/music/a.mp3", svc.Renderer().Info().URI)
		assert.True(t, svc.IsPaused())
		assert.True(t, svc.IsReady())
		assert.False(t, svc.IsPlaying())
	})
}

func TestPrepare_WaitsWhileLoading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		mock.SetStall(true)
		p := awaitAsync(t.Context(), svc.Prepare("/music/b.mp3"))
		synctest.Wait()
		require.False(t, p.finished())
		assert.Equal(t, player.Preparing, svc.TrackedState())

		mock.SimulateReady()
		synctest.Wait()
		require.True(t, p.finished())
		assert.NoError(t, p.err)
		assert.Equal(t, EventReady, p.event)
		assert.Equal(t, "/music/b.mp3", svc.Renderer().Info().URI)
	})
}

func TestStart_FastPathWhenAlreadyPlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		assert.Equal(t, EventStarted, mustAwait(t, svc.Start()))
		require.Equal(t, []bool{true}, mock.PlayWhenReadyCalls())

		events := svc.Events()
		assert.Equal(t, EventStarted, mustAwait(t, svc.Start()))
		synctest.Wait()

		assert.Equal(t, []bool{true}, mock.PlayWhenReadyCalls())
		assert.Empty(t, drain(events))
		assert.True(t, svc.IsPlaying())
	})
}

func TestStart_WaitsUntilReady(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		mock.SetStall(true)
		prepare := awaitAsync(t.Context(), svc.Prepare("/music/a.mp3"))
		synctest.Wait()
		start := awaitAsync(t.Context(), svc.Start())
		synctest.Wait()

		assert.False(t, prepare.finished())
		assert.False(t, start.finished())
		assert.Equal(t, []bool{true}, mock.PlayWhenReadyCalls())

		mock.SimulateReady()
		synctest.Wait()

		require.True(t, prepare.finished())
		require.True(t, start.finished())
		assert.Equal(t, EventReady, prepare.event)
		assert.Equal(t, EventStarted, start.event)
		assert.NoError(t, start.err)
	})
}

func TestPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		// Already paused: no command
		assert.Equal(t, EventPaused, mustAwait(t, svc.Pause()))
		assert.Empty(t, mock.PlayWhenReadyCalls())

		mustAwait(t, svc.Prepare("/music/a.mp3"))
		mustAwait(t, svc.Start())

		events := svc.Events()
		assert.Equal(t, EventPaused, mustAwait(t, svc.Pause()))
		synctest.Wait()

		assert.Equal(t, []bool{true, false}, mock.PlayWhenReadyCalls())
		assert.Equal(t, []Event{EventReady, EventPaused}, drain(events))
		assert.True(t, svc.IsPaused())
		assert.False(t, svc.IsPlaying())
	})
}

func TestSetPaused_Dispatches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		assert.Equal(t, EventStarted, mustAwait(t, svc.SetPaused(false)))
		assert.Equal(t, EventPaused, mustAwait(t, svc.SetPaused(true)))
		assert.Equal(t, []bool{true, false}, mock.PlayWhenReadyCalls())
	})
}

func TestTogglePause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		assert.Equal(t, EventStarted, mustAwait(t, svc.TogglePause()))
		assert.Equal(t, EventPaused, mustAwait(t, svc.TogglePause()))
	})
}

func TestTogglePause_ReadsStateWhenAwaited(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		toggle := svc.TogglePause() // created while paused
		mustAwait(t, svc.Start())

		assert.Equal(t, EventPaused, mustAwait(t, toggle))
		assert.True(t, svc.IsPaused())
	})
}

func TestStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		// Already idle: no command
		assert.Equal(t, EventIdle, mustAwait(t, svc.Stop()))
		assert.Zero(t, mock.StopCalls())

		mustAwait(t, svc.Prepare("/music/a.mp3"))
		assert.Equal(t, EventIdle, mustAwait(t, svc.Stop()))
		assert.Equal(t, 1, mock.StopCalls())
		assert.Equal(t, player.Idle, svc.TrackedState())
		assert.Equal(t, player.Idle, svc.PlaybackState())
	})
}

func TestSeekTo_FastPaths(t *testing.T) {
	t.Run("nothing loaded", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			svc, mock, _ := newTestService(PolicyPoison)
			defer svc.Close()

			assert.Equal(t, EventIdle, mustAwait(t, svc.SeekTo(10*time.Second)))
			assert.Empty(t, mock.SeekCalls())
		})
	})

	t.Run("loading", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			svc, mock, _ := newTestService(PolicyPoison)
			defer svc.Close()

			mock.SetStall(true)
			prepare := awaitAsync(t.Context(), svc.Prepare("/music/a.mp3"))
			synctest.Wait()
			require.Equal(t, player.Preparing, svc.TrackedState())

			assert.Equal(t, EventPreparing, mustAwait(t, svc.SeekTo(10*time.Second)))
			assert.Empty(t, mock.SeekCalls())

			mock.SimulateReady()
			synctest.Wait()
			assert.True(t, prepare.finished())
		})
	})

	t.Run("already there", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			svc, mock, _ := newTestService(PolicyPoison)
			defer svc.Close()
			mustAwait(t, svc.Prepare("/music/a.mp3"))

			assert.Equal(t, EventReady, mustAwait(t, svc.SeekTo(svc.Position())))

			// Compared at millisecond precision
			mock.SetPosition(1500*time.Millisecond + 300*time.Microsecond)
			assert.Equal(t, EventReady, mustAwait(t, svc.SeekTo(1500*time.Millisecond)))
			assert.Empty(t, mock.SeekCalls())
		})
	})
}

func TestSeekTo_Seeks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		events := svc.Events()
		assert.Equal(t, EventReady, mustAwait(t, svc.SeekTo(30*time.Second)))
		synctest.Wait()

		assert.Equal(t, []time.Duration{30 * time.Second}, mock.SeekCalls())
		assert.Equal(t, 30*time.Second, svc.Position())
		assert.Equal(t, []Event{EventBuffering, EventReady}, drain(events))
		assert.Equal(t, player.Ready, svc.TrackedState())
	})
}

func TestSeekTo_AfterEnd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))
		mustAwait(t, svc.Start())

		ended := svc.Event(EventEnded)
		mock.SimulateFinished()
		synctest.Wait()
		require.Equal(t, []Event{EventEnded}, drain(ended))
		require.Equal(t, player.Ended, svc.TrackedState())

		assert.Equal(t, EventReady, mustAwait(t, svc.SeekTo(0)))
		assert.Equal(t, time.Duration(0), svc.Position())
	})
}

func TestInvalidArguments(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, factory := newTestService(PolicyPoison)
		defer svc.Close()

		_, err := svc.Prepare("").Await(t.Context())
		require.ErrorIs(t, err, ErrInvalidURI)
		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, errmsg.OpPrepare, opErr.Op)

		_, err = svc.SeekTo(-time.Second).Await(t.Context())
		require.ErrorIs(t, err, ErrInvalidPosition)
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, errmsg.OpSeek, opErr.Op)

		assert.Empty(t, factory.calls())
		assert.Empty(t, mock.PrepareCalls())
		assert.Empty(t, mock.SeekCalls())
	})
}

func TestRestart(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))
		mock.SetPosition(42 * time.Second)

		assert.Equal(t, EventStarted, mustAwait(t, svc.Restart()))
		assert.Equal(t, []time.Duration{0}, mock.SeekCalls())
		assert.Equal(t, time.Duration(0), svc.Position())
		assert.True(t, svc.IsPlaying())
	})
}

func TestRestart_StartsWhenAlreadyAtBeginning(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		assert.Equal(t, EventStarted, mustAwait(t, svc.Restart()))
		assert.Empty(t, mock.SeekCalls())
		assert.Equal(t, []bool{true}, mock.PlayWhenReadyCalls())
	})
}

func TestReset_FromPlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))
		mustAwait(t, svc.Start())
		mock.SetPosition(42 * time.Second)

		events := svc.Events()
		assert.Equal(t, EventIdle, mustAwait(t, svc.Reset()))
		synctest.Wait()

		assert.Equal(t, player.Idle, svc.TrackedState())
		assert.Equal(t, time.Duration(0), svc.Position())
		assert.False(t, mock.PlayWhenReady())
		assert.Equal(t, []Event{
			EventReady, EventPaused, // pause
			EventBuffering, EventReady, // seek to 0
			EventIdle, // stop
		}, drain(events))
	})
}

func TestPrepareStartSeek_Sequence(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		defer svc.Close()

		var got []Event
		op := svc.Prepare("/music/a.mp3").Then(func(e Event) Operation {
			got = append(got, e)
			return svc.Start()
		}).Then(func(e Event) Operation {
			got = append(got, e)
			return svc.SeekTo(30 * time.Second)
		})
		last := mustAwait(t, op)
		got = append(got, last)

		assert.Equal(t, []Event{EventReady, EventStarted, EventReady}, got)
		assert.Equal(t, 30*time.Second, svc.Position())
		assert.True(t, svc.IsPlaying())
	})
}

func TestPrepareThenSeek_SeeksOnceLoaded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		mock.SetStall(true)
		op := awaitAsync(t.Context(), svc.Prepare("/music/a.mp3").Then(func(Event) Operation {
			return svc.SeekTo(90 * time.Second)
		}))
		synctest.Wait()
		require.False(t, op.finished())

		mock.SetStall(false)
		mock.SimulateReady()
		synctest.Wait()

		require.True(t, op.finished())
		assert.NoError(t, op.err)
		assert.Equal(t, EventReady, op.event)
		assert.Equal(t, []time.Duration{90 * time.Second}, mock.SeekCalls())
		assert.Equal(t, 90*time.Second, svc.Position())
	})
}

func TestFatalError_PoisonsWaits(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		errs := svc.Errors()
		events := svc.Events()

		mock.SetStall(true)
		prepare := awaitAsync(t.Context(), svc.Prepare("/music/a.mp3"))
		synctest.Wait()

		mock.SimulateError(errBoom)
		synctest.Wait()

		require.True(t, prepare.finished())
		assert.ErrorIs(t, prepare.err, errBoom)

		require.Len(t, errs.Errors, 1)
		assert.ErrorIs(t, <-errs.Errors, errBoom)

		<-events.Done
		assert.ErrorIs(t, events.Err(), errBoom)

		// Later waits fail immediately, even after their command went out
		_, err := svc.Start().Await(t.Context())
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []bool{true}, mock.PlayWhenReadyCalls())

		// Fast paths do not wait and still resolve
		assert.Equal(t, EventIdle, mustAwait(t, svc.SeekTo(time.Second)))

		late := svc.Events()
		<-late.Done
		assert.ErrorIs(t, late.Err(), errBoom)
		assert.Empty(t, errs.Errors)
	})
}

func TestFatalError_PerCallPolicy(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPerCall)
		defer svc.Close()

		errs := svc.Errors()
		events := svc.Events()

		mock.SetStall(true)
		prepare := awaitAsync(t.Context(), svc.Prepare("/music/a.mp3"))
		synctest.Wait()

		mock.SimulateError(errBoom)
		synctest.Wait()

		require.True(t, prepare.finished())
		assert.ErrorIs(t, prepare.err, errBoom)
		require.Len(t, errs.Errors, 1)

		// The event channel stays open and the next operation works
		mock.SetStall(false)
		assert.Equal(t, EventReady, mustAwait(t, svc.Prepare("/music/b.mp3")))
		assert.NoError(t, events.Err())
		assert.Contains(t, drain(events), EventIdle)
	})
}

func TestPrepare_FactoryFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, factory := newTestService(PolicyPoison)
		defer svc.Close()
		errs := svc.Errors()

		factory.setErr(errBoom)
		_, err := svc.Prepare("/music/a.mp3").Await(t.Context())
		require.ErrorIs(t, err, errBoom)
		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, errmsg.OpPrepare, opErr.Op)
		assert.Empty(t, mock.PrepareCalls())
		assert.Nil(t, svc.Renderer())

		synctest.Wait()
		assert.Empty(t, errs.Errors)

		// Not fatal: the next prepare works
		factory.setErr(nil)
		assert.Equal(t, EventReady, mustAwait(t, svc.Prepare("/music/a.mp3")))
	})
}

func TestAwait_ContextCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mock.SetStall(true)

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		_, err := svc.Prepare("/music/a.mp3").Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// The command was issued and is not undone
		assert.Len(t, mock.PrepareCalls(), 1)
		synctest.Wait()
		assert.Equal(t, player.Preparing, svc.TrackedState())
	})
}

func TestAwait_CancelledContextIssuesNothing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, factory := newTestService(PolicyPoison)
		defer svc.Close()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := svc.Prepare("/music/a.mp3").Await(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, factory.calls())
		assert.Empty(t, mock.PrepareCalls())
	})
}

func TestAwait_RerunsEachTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		prepare := svc.Prepare("/music/a.mp3")
		mustAwait(t, prepare)
		mustAwait(t, prepare)
		assert.Len(t, mock.PrepareCalls(), 2)
	})
}

func TestEvents_NoReplay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		defer svc.Close()
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		late := svc.Events()
		synctest.Wait()
		assert.Empty(t, drain(late))
	})
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		defer svc.Close()

		sub := svc.Events()
		sub.Close()
		sub.Close()
		<-sub.Done
		assert.NoError(t, sub.Err())

		mustAwait(t, svc.Prepare("/music/a.mp3"))
		assert.Empty(t, drain(sub))
	})
}

func TestClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		events := svc.Events()
		errs := svc.Errors()

		require.NoError(t, svc.Close())
		require.NoError(t, svc.Close())

		<-events.Done
		<-errs.Done
		assert.ErrorIs(t, events.Err(), ErrClosed)

		_, err := svc.Start().Await(t.Context())
		assert.ErrorIs(t, err, ErrClosed)
		assert.Empty(t, mock.PlayWhenReadyCalls())
	})
}

func TestRestart_WrapsFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _, _ := newTestService(PolicyPoison)
		require.NoError(t, svc.Close())

		_, err := svc.Restart().Await(t.Context())
		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, errmsg.OpRestart, opErr.Op)
		assert.ErrorIs(t, err, ErrClosed)
		assert.Equal(t, "restart playback: seek: playback service closed", err.Error())
	})
}

func TestDelegatedQueries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, mock, _ := newTestService(PolicyPoison)
		defer svc.Close()

		assert.Equal(t, 0, svc.TrackCount(0))
		assert.Equal(t, -1, svc.SelectedTrack(0))
		assert.Zero(t, svc.Duration())

		mock.SetDuration(4 * time.Minute)
		mustAwait(t, svc.Prepare("/music/a.mp3"))

		assert.Equal(t, 4*time.Minute, svc.Duration())
		assert.Equal(t, 4*time.Minute, svc.BufferedPosition())
		assert.Equal(t, 100, svc.BufferedPercentage())
		assert.Equal(t, 1, svc.TrackCount(0))
		assert.Equal(t, 0, svc.SelectedTrack(0))
		svc.SetSelectedTrack(0, 0)
		assert.Equal(t, 44100, svc.TrackFormat(0, 0).SampleRate)

		svc.SendMessage(player.ComponentAudio, player.MsgSetVolume, 0.5)
		svc.BlockingSendMessage(player.ComponentAudio, player.MsgSetMuted, true)
		assert.Equal(t, []player.MockMessage{
			{Target: player.ComponentAudio, Type: player.MsgSetVolume, Value: 0.5},
			{Target: player.ComponentAudio, Type: player.MsgSetMuted, Value: true},
		}, mock.Messages())
	})
}

func TestOpError(t *testing.T) {
	err := &OpError{Op: errmsg.OpSeek, Err: errBoom}
	assert.Equal(t, "seek: boom", err.Error())
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, "Failed to seek: seek: boom", errmsg.Format(errmsg.OpSeek, err))
}

func TestOperation_ZeroValue(t *testing.T) {
	var op Operation
	_, err := op.Await(context.Background())
	assert.Error(t, err)
}
