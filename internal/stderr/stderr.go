//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, PulseAudio
// shims) write straight to file descriptor 2, so it lands in the log
// instead of over the terminal UI.
package stderr

import (
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Capture redirects fd 2 into a pipe for as long as it runs.
type Capture struct {
	// Messages receives every captured line, for display in the UI.
	Messages <-chan string

	messages   chan string
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
}

// Start begins capturing stderr output and forwards each line to log.
// Must be called before the audio device is opened. On error the program
// can continue without capture.
func Start(log logrus.FieldLogger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	origStderr, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		messages:   make(chan string, messageBuffer),
		origStderr: origStderr,
		pipeRead:   r,
		pipeWrite:  w,
		done:       make(chan struct{}),
	}
	c.Messages = c.messages

	go func() {
		defer close(c.done)
		forward(r, log.WithField("source", "stderr"), c.messages)
	}()

	return c, nil
}

// Stop restores the original stderr and waits for the forwarder to drain.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	_ = syscall.Dup2(c.origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(c.origStderr)

	c.pipeWrite.Close()
	<-c.done
	c.pipeRead.Close()
}
