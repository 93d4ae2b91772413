package playback

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/player"
)

var errBoom = errors.New("boom")

type stubRenderer struct {
	uri string
}

func (r *stubRenderer) Stream(samples [][2]float64) (int, bool) { return 0, false }
func (r *stubRenderer) Err() error                             { return nil }
func (r *stubRenderer) Len() int                               { return 0 }
func (r *stubRenderer) Position() int                          { return 0 }
func (r *stubRenderer) Seek(int) error                         { return nil }
func (r *stubRenderer) Close() error                           { return nil }
func (r *stubRenderer) Info() *player.TrackInfo                { return &player.TrackInfo{URI: r.uri} }

func (r *stubRenderer) Format() beep.Format {
	return beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
}

type stubFactory struct {
	mu   sync.Mutex
	err  error
	uris []string
}

func (f *stubFactory) Renderer(uri string) (player.Renderer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uris = append(f.uris, uri)
	if f.err != nil {
		return nil, f.err
	}
	return &stubRenderer{uri: uri}, nil
}

func (f *stubFactory) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *stubFactory) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uris...)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestService returns a service over a fresh Mock. Callers must Close
// the service before the synctest bubble ends.
func newTestService(policy ErrorPolicy) (Service, *player.Mock, *stubFactory) {
	mock := player.NewMock()
	factory := &stubFactory{}
	svc := New(mock, factory, Options{ErrorPolicy: policy, Logger: quietLogger()})
	return svc, mock, factory
}

type pending struct {
	done  chan struct{}
	event Event
	err   error
}

// awaitAsync awaits op on its own goroutine.
func awaitAsync(ctx context.Context, op Operation) *pending {
	p := &pending{done: make(chan struct{})}
	go func() {
		p.event, p.err = op.Await(ctx)
		close(p.done)
	}()
	return p
}

func (p *pending) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func drain(sub *Subscription) []Event {
	var got []Event
	for {
		select {
		case e := <-sub.Events:
			got = append(got, e)
		default:
			return got
		}
	}
}

func mustAwait(t *testing.T, op Operation) Event {
	t.Helper()
	e, err := op.Await(t.Context())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	return e
}
