package playback

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/errmsg"
	"github.com/llehouerou/playctl/internal/player"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	engine  player.Engine
	factory RendererFactory
	policy  ErrorPolicy
	buffer  int
	log     logrus.FieldLogger

	events   *bus[Event]
	errs     *bus[error]
	tracker  *tracker
	listener *listener

	mu       sync.RWMutex
	renderer player.Renderer

	closed atomic.Bool
}

// New creates a playback service around engine and registers its listener.
// The service owns the engine from now on; Close releases it.
func New(engine player.Engine, factory RendererFactory, opts Options) Service {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	log = log.WithField("component", "playback")

	s := &serviceImpl{
		engine:  engine,
		factory: factory,
		policy:  opts.ErrorPolicy,
		buffer:  opts.EventBuffer,
		log:     log,
		events:  newBus[Event](),
		errs:    newBus[error](),
		tracker: newTracker(engine),
	}
	s.listener = &listener{
		engine:  engine,
		events:  s.events,
		errs:    s.errs,
		tracker: s.tracker,
		policy:  s.policy,
		log:     log,
	}
	engine.AddListener(s.listener)
	return s
}

// Prepare builds a renderer for uri, hands it to the engine and resolves
// to READY once the engine went through Preparing to Ready.
func (s *serviceImpl) Prepare(uri string) Operation {
	if uri == "" {
		return failed(errmsg.OpPrepare, ErrInvalidURI)
	}
	return s.operation(errmsg.OpPrepare, nil, func() error {
		r, err := s.factory.Renderer(uri)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.renderer = r
		s.mu.Unlock()
		s.engine.Prepare(r)
		return nil
	}, EventPreparing, EventReady)
}

// Start resolves to STARTED.
func (s *serviceImpl) Start() Operation {
	return s.operation(errmsg.OpStart, func() (Event, bool) {
		return EventStarted, s.engine.PlayWhenReady()
	}, func() error {
		s.engine.SetPlayWhenReady(true)
		return nil
	}, EventStarted)
}

// Pause resolves to PAUSED.
func (s *serviceImpl) Pause() Operation {
	return s.operation(errmsg.OpPause, func() (Event, bool) {
		return EventPaused, !s.engine.PlayWhenReady()
	}, func() error {
		s.engine.SetPlayWhenReady(false)
		return nil
	}, EventPaused)
}

func (s *serviceImpl) SetPaused(paused bool) Operation {
	if paused {
		return s.Pause()
	}
	return s.Start()
}

// TogglePause reads the pause flag when awaited, not when created.
func (s *serviceImpl) TogglePause() Operation {
	return Operation{run: func(ctx context.Context) (Event, error) {
		return s.SetPaused(!s.tracker.isPaused()).Await(ctx)
	}}
}

// Stop resolves to IDLE.
func (s *serviceImpl) Stop() Operation {
	return s.operation(errmsg.OpStop, func() (Event, bool) {
		return EventIdle, s.engine.State() == player.Idle
	}, func() error {
		s.engine.Stop()
		return nil
	}, EventIdle)
}

// SeekTo resolves to READY after the engine buffered at position. With
// nothing loaded it resolves to IDLE, while loading to PREPARING, and when
// already at position (millisecond precision) to READY, all without
// seeking.
func (s *serviceImpl) SeekTo(position time.Duration) Operation {
	if position < 0 {
		return failed(errmsg.OpSeek, ErrInvalidPosition)
	}
	return s.operation(errmsg.OpSeek, func() (Event, bool) {
		switch s.tracker.lastObserved() {
		case player.Idle:
			return EventIdle, true
		case player.Preparing:
			return EventPreparing, true
		}
		if s.tracker.position().Milliseconds() == position.Milliseconds() {
			return EventReady, true
		}
		return 0, false
	}, func() error {
		s.engine.Seek(position)
		return nil
	}, EventBuffering, EventReady)
}

// Restart seeks to the beginning, then starts.
func (s *serviceImpl) Restart() Operation {
	return wrap(errmsg.OpRestart, s.SeekTo(0).Then(func(Event) Operation {
		return s.Start()
	}))
}

// Reset pauses, rewinds and stops.
func (s *serviceImpl) Reset() Operation {
	return wrap(errmsg.OpReset, s.Pause().Then(func(Event) Operation {
		return s.SeekTo(0)
	}).Then(func(Event) Operation {
		return s.Stop()
	}))
}

// operation builds an event-waiting operation. fast, when set, is checked
// at await time and short-circuits with the event it returns.
func (s *serviceImpl) operation(
	op errmsg.Op,
	fast func() (Event, bool),
	command func() error,
	seq ...Event,
) Operation {
	return Operation{run: func(ctx context.Context) (Event, error) {
		if s.closed.Load() {
			return 0, &OpError{Op: op, Err: ErrClosed}
		}
		log := s.log.WithField("op", op)
		if fast != nil {
			if e, ok := fast(); ok {
				log.WithField("event", e).Debug("already satisfied")
				return e, nil
			}
		}
		e, err := s.await(ctx, command, seq)
		if err != nil {
			log.WithError(err).Debug("operation failed")
			return 0, &OpError{Op: op, Err: err}
		}
		log.WithField("event", e).Debug("operation resolved")
		return e, nil
	}}
}

// await subscribes for seq, issues command and waits until the events of
// seq were seen in that order. Events before the first element, or between
// elements that are not the next one expected, are ignored.
func (s *serviceImpl) await(ctx context.Context, command func() error, seq []Event) (Event, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result := make(chan error, 1)
	resolve := func(err error) {
		select {
		case result <- err:
		default:
		}
	}

	// step is only touched from bus callbacks, which the bus serializes.
	step := 0
	cancel := s.events.observe(func(e Event) {
		if step >= len(seq) || e != seq[step] {
			return
		}
		step++
		if step == len(seq) {
			resolve(nil)
		}
	}, resolve)
	defer cancel()

	if s.policy == PolicyPerCall {
		cancelErrs := s.errs.observe(resolve, nil)
		defer cancelErrs()
	}

	if err := command(); err != nil {
		return 0, err
	}

	select {
	case err := <-result:
		if err != nil {
			return 0, err
		}
		return seq[len(seq)-1], nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func wrap(op errmsg.Op, o Operation) Operation {
	return Operation{run: func(ctx context.Context) (Event, error) {
		e, err := o.Await(ctx)
		if err != nil {
			return 0, &OpError{Op: op, Err: err}
		}
		return e, nil
	}}
}

func (s *serviceImpl) IsPaused() bool          { return s.tracker.isPaused() }
func (s *serviceImpl) IsReady() bool           { return s.tracker.isReady() }
func (s *serviceImpl) IsPlaying() bool         { return s.tracker.isPlaying() }
func (s *serviceImpl) Position() time.Duration { return s.tracker.position() }

func (s *serviceImpl) TrackedState() player.State {
	return s.tracker.lastObserved()
}

func (s *serviceImpl) PlaybackState() player.State {
	return s.engine.State()
}

func (s *serviceImpl) Duration() time.Duration {
	return s.engine.Duration()
}

func (s *serviceImpl) BufferedPosition() time.Duration {
	return s.engine.BufferedPosition()
}

func (s *serviceImpl) BufferedPercentage() int {
	return s.engine.BufferedPercentage()
}

// Renderer returns the renderer of the last Prepare, or nil. The engine
// owns it; callers only read its metadata.
func (s *serviceImpl) Renderer() player.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

func (s *serviceImpl) TrackCount(renderer int) int {
	return s.engine.TrackCount(renderer)
}

func (s *serviceImpl) TrackFormat(renderer, track int) player.TrackFormat {
	return s.engine.TrackFormat(renderer, track)
}

func (s *serviceImpl) SelectedTrack(renderer int) int {
	return s.engine.SelectedTrack(renderer)
}

func (s *serviceImpl) SetSelectedTrack(renderer, track int) {
	s.engine.SetSelectedTrack(renderer, track)
}

func (s *serviceImpl) SendMessage(target player.Component, msgType int, msg any) {
	s.engine.SendMessage(target, msgType, msg)
}

func (s *serviceImpl) BlockingSendMessage(target player.Component, msgType int, msg any) {
	s.engine.BlockingSendMessage(target, msgType, msg)
}

// Events subscribes to every event published from now on.
func (s *serviceImpl) Events() *Subscription {
	return s.subscribe(nil)
}

// Event subscribes to events of one kind.
func (s *serviceImpl) Event(kind Event) *Subscription {
	return s.subscribe(func(e Event) bool { return e == kind })
}

func (s *serviceImpl) subscribe(filter func(Event) bool) *Subscription {
	sub := newSubscription(s.buffer)
	sub.cancel = s.events.observe(func(e Event) {
		if filter == nil || filter(e) {
			sub.send(e)
		}
	}, sub.terminate)
	return sub
}

// Errors subscribes to fatal engine errors reported from now on.
func (s *serviceImpl) Errors() *ErrorSubscription {
	sub := newErrorSubscription(s.buffer)
	sub.cancel = s.errs.observe(sub.send, func(error) { sub.finish() })
	return sub
}

// Close releases the engine and ends every subscription.
func (s *serviceImpl) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.engine.Release()
	s.events.fail(ErrClosed)
	s.errs.fail(ErrClosed)
	s.log.Debug("closed")
	return nil
}
