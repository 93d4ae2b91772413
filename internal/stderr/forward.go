package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const messageBuffer = 100

// forward logs every non-blank line of r and offers it on out, dropping
// it there when out is full. Returns when r is exhausted.
func forward(r io.Reader, log logrus.FieldLogger, out chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Warn(line)
		select {
		case out <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}
