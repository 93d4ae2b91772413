// internal/state/mock.go
package state

import (
	"sort"
	"sync"
)

// Mock is a test double for Manager. Saves apply immediately.
type Mock struct {
	mu      sync.Mutex
	resumes map[string]ResumePosition
	volume  *VolumeState
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{resumes: make(map[string]ResumePosition)}
}

func (m *Mock) GetResume(uri string) (*ResumePosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.resumes[uri]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Mock) SaveResume(p ResumePosition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !p.Worth() {
		delete(m.resumes, p.URI)
		return
	}
	m.resumes[p.URI] = p
}

func (m *Mock) ForgetResume(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resumes, uri)
	return nil
}

func (m *Mock) RecentResumes(limit int) ([]ResumePosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]ResumePosition, 0, len(m.resumes))
	for _, p := range m.resumes {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume, nil
}

func (m *Mock) SaveVolume(v VolumeState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = &v
	return nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
