package playback

import "sync"

// bus is a hot multicast channel. Observers run synchronously on the
// publishing goroutine; the mutex serializes publishers so a delivery to
// every observer completes before the next one starts. Nothing is
// replayed to late observers.
//
// Observers must not publish, fail or cancel from inside a callback.
type bus[T any] struct {
	mu        sync.Mutex
	observers []*observer[T]
	nextID    uint64
	err       error // set once the bus terminated
}

type observer[T any] struct {
	id      uint64
	onValue func(T)
	onError func(error)
}

func newBus[T any]() *bus[T] {
	return &bus[T]{}
}

// observe registers callbacks and returns a function removing them. On a
// terminated bus onError runs immediately and nothing is registered.
func (b *bus[T]) observe(onValue func(T), onError func(error)) (cancel func()) {
	b.mu.Lock()
	if b.err != nil {
		err := b.err
		b.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.observers = append(b.observers, &observer[T]{id: id, onValue: onValue, onError: onError})
	b.mu.Unlock()

	return func() { b.remove(id) }
}

func (b *bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.observers {
		if o.id == id {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// publish delivers v to every current observer. Dropped once terminated.
func (b *bus[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return
	}
	for _, o := range b.observers {
		o.onValue(v)
	}
}

// fail terminates the bus: current observers get err, later ones get it on
// observe. Only the first call has an effect.
func (b *bus[T]) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return
	}
	b.err = err
	for _, o := range b.observers {
		if o.onError != nil {
			o.onError(err)
		}
	}
	b.observers = nil
}

// terminated returns the terminal error, if any.
func (b *bus[T]) terminated() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *bus[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}
