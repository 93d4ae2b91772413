// Package logging configures the structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/playctl/internal/config"
)

const appName = "playctl"

// Setup builds a logger from cfg. A disabled config yields a logger that
// discards everything, so the terminal UI is never written over.
func Setup(cfg config.LogConfig) (*logrus.Logger, error) {
	log := logrus.New()
	if !cfg.Enabled {
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		return log, nil
	}

	path := cfg.File
	if path == "" {
		var err error
		path, err = DefaultFile(time.Now())
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log, nil
}

// DefaultFile returns the dated log file under the XDG state directory.
func DefaultFile(now time.Time) (string, error) {
	name := fmt.Sprintf("%s.log", now.Format("2006-01-02"))
	return xdg.StateFile(filepath.Join(appName, name))
}

// Close closes the log file behind log, if any.
func Close(log *logrus.Logger) error {
	if f, ok := log.Out.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		return f.Close()
	}
	return nil
}
