// Package state persists what playctl remembers between runs: where each
// media reference was left and the output volume.
package state

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/playctl/internal/errmsg"
)

const (
	appName      = "playctl"
	dbFileName   = "playctl.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db       *sql.DB
	log      logrus.FieldLogger
	debounce time.Duration

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[string]ResumePosition
}

// Open opens the database under the XDG data directory. Failures of
// background saves are reported to log.
func Open(log logrus.FieldLogger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	return OpenPath(dbPath, log)
}

// OpenPath opens the database at path, creating the schema if needed.
func OpenPath(path string, log logrus.FieldLogger) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return newManager(db, log), nil
}

func newManager(db *sql.DB, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Manager{
		db:       db,
		log:      log.WithField("component", "state"),
		debounce: saveDebounce,
		pending:  make(map[string]ResumePosition),
	}
}

func (m *Manager) Close() error {
	flushErr := m.Flush()
	if err := m.db.Close(); err != nil {
		return err
	}
	return flushErr
}

// GetResume returns the saved position for uri, or nil if none. A pending
// save for uri wins over the stored one.
func (m *Manager) GetResume(uri string) (*ResumePosition, error) {
	m.saveMu.Lock()
	p, ok := m.pending[uri]
	m.saveMu.Unlock()
	if ok {
		if !p.Worth() {
			return nil, nil
		}
		return &p, nil
	}
	return getResume(m.db, uri)
}

// SaveResume records p after a short delay. Saves arriving within the
// delay are coalesced, the latest per reference wins.
func (m *Manager) SaveResume(p ResumePosition) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending[p.URI] = p

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.debounce, func() {
		if err := m.Flush(); err != nil {
			m.log.WithError(err).Warn(errmsg.Format(errmsg.OpResumeSave, err))
		}
	})
}

// Flush writes pending resume positions now.
func (m *Manager) Flush() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.pending
	m.pending = make(map[string]ResumePosition)
	m.saveMu.Unlock()

	var firstErr error
	for _, p := range pending {
		if err := saveResume(context.Background(), m.db, p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ForgetResume drops the saved and pending position for uri.
func (m *Manager) ForgetResume(uri string) error {
	m.saveMu.Lock()
	delete(m.pending, uri)
	m.saveMu.Unlock()
	return deleteResume(m.db, uri)
}

// RecentResumes lists stored positions, most recently updated first.
func (m *Manager) RecentResumes(limit int) ([]ResumePosition, error) {
	return recentResumes(m.db, limit)
}

// GetVolume returns the saved volume, or nil if none was saved.
func (m *Manager) GetVolume() (*VolumeState, error) {
	return getVolume(m.db)
}

// SaveVolume persists the volume level to the database.
func (m *Manager) SaveVolume(v VolumeState) error {
	return saveVolume(m.db, v)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
