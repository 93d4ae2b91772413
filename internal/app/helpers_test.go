package app

import (
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/playctl/internal/playback"
	"github.com/llehouerou/playctl/internal/player"
	"github.com/llehouerou/playctl/internal/state"
)

var errUnreadable = errors.New("unreadable file")

type testRenderer struct{ uri string }

func (testRenderer) Stream([][2]float64) (int, bool) { return 0, false }
func (testRenderer) Err() error                      { return nil }
func (testRenderer) Len() int                        { return 0 }
func (testRenderer) Position() int                   { return 0 }
func (testRenderer) Seek(int) error                  { return nil }
func (testRenderer) Close() error                    { return nil }
func (testRenderer) Format() beep.Format             { return beep.Format{SampleRate: 44100, NumChannels: 2} }
func (r testRenderer) Info() *player.TrackInfo {
	return &player.TrackInfo{URI: r.uri, Title: "Night Drive", Format: "MP3"}
}

type testFactory struct {
	mu  sync.Mutex
	err error
}

func (f *testFactory) Renderer(uri string) (player.Renderer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return testRenderer{uri: uri}, nil
}

type fixture struct {
	model    Model
	svc      playback.Service
	engine   *player.Mock
	stateMgr *state.Mock
	factory  *testFactory
}

// newFixture builds a model over a Mock engine. Must run inside a
// synctest bubble; the service is closed on cleanup.
func newFixture(t *testing.T, resume bool) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	engine := player.NewMock()
	factory := &testFactory{}
	svc := playback.New(engine, factory, playback.Options{Logger: log})
	stateMgr := state.NewMock()

	m := New(Options{
		Service:  svc,
		StateMgr: stateMgr,
		Volume:   NewVolume(svc, stateMgr, 0.5, log),
		Log:      log,
		Resume:   resume,
	})
	t.Cleanup(func() {
		m.Close()
		svc.Close()
	})
	return &fixture{model: m, svc: svc, engine: engine, stateMgr: stateMgr, factory: factory}
}

// update feeds msg to the model and keeps the new model.
func (f *fixture) update(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

// run feeds msg, executes the command it returns and feeds the result.
func (f *fixture) run(t *testing.T, msg tea.Msg) OpResultMsg {
	t.Helper()
	cmd := f.update(msg)
	require.NotNil(t, cmd)
	result, ok := cmd().(OpResultMsg)
	require.True(t, ok, "command did not produce an operation result")
	f.update(result)
	return result
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
