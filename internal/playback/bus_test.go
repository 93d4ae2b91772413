package playback

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToCurrentObservers(t *testing.T) {
	b := newBus[Event]()

	var first, second []Event
	cancel := b.observe(func(e Event) { first = append(first, e) }, nil)
	b.publish(EventPreparing)
	b.observe(func(e Event) { second = append(second, e) }, nil)
	b.publish(EventReady)
	cancel()
	b.publish(EventIdle)

	assert.Equal(t, []Event{EventPreparing, EventReady}, first)
	assert.Equal(t, []Event{EventReady, EventIdle}, second)
	assert.Equal(t, 1, b.len())
}

func TestBus_SerializesPublishers(t *testing.T) {
	b := newBus[Event]()

	var inside, overlaps, delivered atomic.Int32
	b.observe(func(Event) {
		if inside.Add(1) > 1 {
			overlaps.Add(1)
		}
		delivered.Add(1)
		inside.Add(-1)
	}, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				b.publish(EventBuffering)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, overlaps.Load())
	assert.Equal(t, int32(800), delivered.Load())
}

func TestBus_FailIsTerminal(t *testing.T) {
	b := newBus[Event]()

	var got []Event
	var failedWith error
	b.observe(func(e Event) { got = append(got, e) }, func(err error) { failedWith = err })

	b.fail(errBoom)
	b.fail(ErrClosed)
	b.publish(EventReady)

	assert.Empty(t, got)
	assert.Equal(t, errBoom, failedWith)
	assert.Equal(t, errBoom, b.terminated())
	assert.Zero(t, b.len())

	var late error
	cancel := b.observe(func(Event) { t.Error("late observer got an event") }, func(err error) { late = err })
	require.NotNil(t, cancel)
	cancel()
	assert.Equal(t, errBoom, late)
}

func TestBus_CancelIsIdempotent(t *testing.T) {
	b := newBus[error]()
	cancel := b.observe(func(error) {}, nil)
	cancel()
	cancel()
	assert.Zero(t, b.len())
}
