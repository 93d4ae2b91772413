package playback

import "sync"

const defaultEventBuffer = 16

// Subscription delivers events published after it was created. Sends are
// non-blocking: when the buffer is full the event is dropped for this
// subscriber only.
//
// Done is closed when the subscription ends, either through Close or
// because the event channel terminated; Err tells the two apart.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	// Internal write channels
	eventCh chan Event
	doneCh  chan struct{}

	cancel func()
	once   sync.Once
	mu     sync.Mutex
	err    error
}

func newSubscription(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	s := &Subscription{
		eventCh: make(chan Event, buffer),
		doneCh:  make(chan struct{}),
		cancel:  func() {},
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

// send delivers an event (non-blocking).
func (s *Subscription) send(e Event) {
	select {
	case s.eventCh <- e:
	default:
		// Drop if buffer full
	}
}

// terminate ends the subscription with the channel's terminal error.
func (s *Subscription) terminate(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.finish()
}

func (s *Subscription) finish() {
	s.once.Do(func() { close(s.doneCh) })
}

// Err returns the error that terminated the event channel, or nil if the
// subscription is still open or was closed by the caller.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops delivery and closes Done. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
	s.finish()
}

// ErrorSubscription delivers fatal engine errors reported after it was
// created. Done is closed by Close or when the service shuts down.
type ErrorSubscription struct {
	Errors <-chan error
	Done   <-chan struct{}

	errCh  chan error
	doneCh chan struct{}

	cancel func()
	once   sync.Once
}

func newErrorSubscription(buffer int) *ErrorSubscription {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	s := &ErrorSubscription{
		errCh:  make(chan error, buffer),
		doneCh: make(chan struct{}),
		cancel: func() {},
	}
	s.Errors = s.errCh
	s.Done = s.doneCh
	return s
}

// send delivers an error (non-blocking).
func (s *ErrorSubscription) send(err error) {
	select {
	case s.errCh <- err:
	default:
	}
}

func (s *ErrorSubscription) finish() {
	s.once.Do(func() { close(s.doneCh) })
}

// Close stops delivery and closes Done. Safe to call more than once.
func (s *ErrorSubscription) Close() {
	s.cancel()
	s.finish()
}
