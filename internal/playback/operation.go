package playback

import (
	"context"
	"errors"

	"github.com/llehouerou/playctl/internal/errmsg"
)

var (
	// ErrInvalidURI is returned by Prepare for an empty media reference.
	ErrInvalidURI = errors.New("invalid media uri")
	// ErrInvalidPosition is returned by SeekTo for a negative position.
	ErrInvalidPosition = errors.New("invalid seek position")
	// ErrClosed is returned by operations on a closed service.
	ErrClosed = errors.New("playback service closed")

	errEmptyOperation = errors.New("empty operation")
)

// OpError records which operation failed. Err is the engine error, the
// renderer factory error, a sentinel above or the context error.
type OpError struct {
	Op  errmsg.Op
	Err error
}

func (e *OpError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Operation is a deferred playback command. Creating one has no effect;
// each Await runs it from scratch: fast-path check, subscription, command,
// wait for the terminal event.
type Operation struct {
	run func(ctx context.Context) (Event, error)
}

// Await runs the operation and blocks until it resolves, fails or ctx is
// done. A cancelled wait does not undo a command already issued.
func (o Operation) Await(ctx context.Context) (Event, error) {
	if o.run == nil {
		return 0, errEmptyOperation
	}
	return o.run(ctx)
}

// Then runs next with the event o resolved to, once o succeeded.
func (o Operation) Then(next func(Event) Operation) Operation {
	return Operation{run: func(ctx context.Context) (Event, error) {
		e, err := o.Await(ctx)
		if err != nil {
			return 0, err
		}
		return next(e).Await(ctx)
	}}
}

// resolved is an operation that succeeds with e without doing anything.
func resolved(e Event) Operation {
	return Operation{run: func(context.Context) (Event, error) { return e, nil }}
}

// failed is an operation that fails with err without doing anything.
func failed(op errmsg.Op, err error) Operation {
	return Operation{run: func(context.Context) (Event, error) {
		return 0, &OpError{Op: op, Err: err}
	}}
}
