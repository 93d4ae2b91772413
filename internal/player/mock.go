// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a simulated Engine for tests. It follows the same transition
// rules as Beep without producing audio: commands run on a goroutine of
// their own and listeners are notified from there.
type Mock struct {
	mu            sync.Mutex
	state         State
	playWhenReady bool
	position      time.Duration
	duration      time.Duration
	renderer      Renderer
	stall         bool
	released      bool

	prepareCalls []Renderer
	pwrCalls     []bool
	seekCalls    []time.Duration
	stopCalls    int
	messages     []MockMessage

	listeners []Listener

	// last reported pair; engine goroutine only
	reported      State
	reportedPWR   bool
	reportedValid bool

	cmds chan func()
	done chan struct{}
}

// MockMessage records a SendMessage call.
type MockMessage struct {
	Target Component
	Type   int
	Value  any
}

// NewMock creates a simulated engine. Call Release to stop its goroutine.
func NewMock() *Mock {
	m := &Mock{
		state:    Idle,
		duration: 3 * time.Minute,
		cmds:     make(chan func(), commandQueueSize),
		done:     make(chan struct{}),
	}
	go m.loop()
	return m
}

func (m *Mock) loop() {
	for {
		select {
		case cmd := <-m.cmds:
			cmd()
		case <-m.done:
			return
		}
	}
}

func (m *Mock) post(fn func()) {
	select {
	case m.cmds <- fn:
	case <-m.done:
	}
}

func (m *Mock) snapshotListeners() []Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Listener(nil), m.listeners...)
}

func (m *Mock) setState(s State) {
	m.mu.Lock()
	m.state = s
	pwr := m.playWhenReady
	m.mu.Unlock()
	m.notifyState(pwr, s)
}

func (m *Mock) notifyState(pwr bool, s State) {
	m.reported, m.reportedPWR, m.reportedValid = s, pwr, true
	for _, l := range m.snapshotListeners() {
		l.OnStateChanged(pwr, s)
	}
}

func (m *Mock) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Mock) Prepare(r Renderer) {
	m.mu.Lock()
	m.prepareCalls = append(m.prepareCalls, r)
	m.mu.Unlock()
	m.post(func() {
		m.mu.Lock()
		m.renderer = r
		m.position = 0
		stall := m.stall
		m.mu.Unlock()
		m.setState(Preparing)
		if !stall {
			m.setState(Ready)
		}
	})
}

func (m *Mock) SetPlayWhenReady(play bool) {
	m.mu.Lock()
	m.pwrCalls = append(m.pwrCalls, play)
	if m.playWhenReady == play {
		m.mu.Unlock()
		return
	}
	m.playWhenReady = play
	m.mu.Unlock()

	m.post(func() {
		m.mu.Lock()
		pwr, state := m.playWhenReady, m.state
		m.mu.Unlock()
		if !m.reportedValid || m.reported != state || m.reportedPWR != pwr {
			m.notifyState(pwr, state)
		}
		for _, l := range m.snapshotListeners() {
			l.OnPlayWhenReadyCommitted()
		}
	})
}

func (m *Mock) Seek(position time.Duration) {
	m.mu.Lock()
	m.seekCalls = append(m.seekCalls, position)
	m.mu.Unlock()
	m.post(func() {
		m.mu.Lock()
		if !m.state.CanSeek() {
			m.mu.Unlock()
			return
		}
		m.position = min(max(position, 0), m.duration)
		stall := m.stall
		m.mu.Unlock()
		m.setState(Buffering)
		if !stall {
			m.setState(Ready)
		}
	})
}

func (m *Mock) Stop() {
	m.mu.Lock()
	m.stopCalls++
	m.mu.Unlock()
	m.post(func() {
		m.mu.Lock()
		if m.state == Idle {
			m.mu.Unlock()
			return
		}
		m.renderer = nil
		m.position = 0
		m.mu.Unlock()
		m.setState(Idle)
	})
}

func (m *Mock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.released = true
	close(m.done)
}

func (m *Mock) PlayWhenReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playWhenReady
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer == nil {
		return 0
	}
	return m.duration
}

func (m *Mock) BufferedPosition() time.Duration { return m.Duration() }

func (m *Mock) BufferedPercentage() int {
	if m.Duration() == 0 {
		return 0
	}
	return 100
}

func (m *Mock) TrackCount(renderer int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if renderer != 0 || m.renderer == nil {
		return 0
	}
	return 1
}

func (m *Mock) TrackFormat(renderer, track int) TrackFormat {
	if m.TrackCount(renderer) == 0 || track != 0 {
		return TrackFormat{}
	}
	return TrackFormat{MIMEType: "audio/mpeg", SampleRate: 44100, Channels: 2, BitDepth: 16, Duration: m.Duration()}
}

func (m *Mock) SelectedTrack(renderer int) int {
	if m.TrackCount(renderer) == 0 {
		return -1
	}
	return 0
}

func (m *Mock) SetSelectedTrack(_, _ int) {}

func (m *Mock) SendMessage(target Component, msgType int, msg any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, MockMessage{Target: target, Type: msgType, Value: msg})
}

func (m *Mock) BlockingSendMessage(target Component, msgType int, msg any) {
	m.SendMessage(target, msgType, msg)
}

// Test helpers

// SetStall makes Prepare and Seek stop in their transitional state.
func (m *Mock) SetStall(stall bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stall = stall
}

// SetPosition moves the reported position without any notification.
func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// SimulateError reports err from the engine goroutine, then goes Idle.
func (m *Mock) SimulateError(err error) {
	m.post(func() {
		for _, l := range m.snapshotListeners() {
			l.OnError(err)
		}
		m.mu.Lock()
		m.renderer = nil
		m.mu.Unlock()
		m.setState(Idle)
	})
}

// SimulateFinished moves a Ready engine to Ended.
func (m *Mock) SimulateFinished() {
	m.post(func() {
		m.mu.Lock()
		if m.state != Ready {
			m.mu.Unlock()
			return
		}
		m.position = m.duration
		m.mu.Unlock()
		m.setState(Ended)
	})
}

// SimulateReady completes a stalled Prepare or Seek.
func (m *Mock) SimulateReady() {
	m.post(func() {
		if m.State().IsTransitional() {
			m.setState(Ready)
		}
	})
}

func (m *Mock) PrepareCalls() []Renderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Renderer(nil), m.prepareCalls...)
}

func (m *Mock) PlayWhenReadyCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.pwrCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) Messages() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockMessage(nil), m.messages...)
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
