//go:build windows

package stderr

import "github.com/sirupsen/logrus"

// Capture is a no-op on Windows: its audio backends do not write to fd 2.
type Capture struct {
	Messages <-chan string
}

// Start returns a capture that never produces messages.
func Start(_ logrus.FieldLogger) (*Capture, error) {
	return &Capture{Messages: make(chan string)}, nil
}

// Stop is a no-op on Windows.
func (c *Capture) Stop() {}
